package session

import "time"

const maxHistoryTurns = 5

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TurnMessage is one line of the conversation history.
type TurnMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Session is the per-conversation mutable state read by the planner and
// written by the executor. Created lazily on first reference; eviction is the
// external store's responsibility.
type Session struct {
	SessionID     string        `json:"session_id"`
	AuthLevel     string        `json:"auth_level,omitempty"`
	CustomerID    string        `json:"customer_id,omitempty"`
	LastProductID string        `json:"last_product_id,omitempty"`
	History       []TurnMessage `json:"history,omitempty"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

const AuthVerified = "verified"

func New(sessionID string, now time.Time) Session {
	return Session{
		SessionID: sessionID,
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Authenticated() bool {
	return s != nil && s.AuthLevel == AuthVerified
}

// AppendTurn appends the user and assistant lines for one completed turn,
// keeping only the most recent turns.
func (s *Session) AppendTurn(userText, assistantText string) {
	s.History = append(s.History,
		TurnMessage{Role: RoleUser, Text: userText},
		TurnMessage{Role: RoleAssistant, Text: assistantText},
	)
	if keep := maxHistoryTurns * 2; len(s.History) > keep {
		s.History = append([]TurnMessage(nil), s.History[len(s.History)-keep:]...)
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Clone returns a deep copy safe to hand to the planner as a read-only snapshot.
func (s Session) Clone() Session {
	out := s
	out.History = append([]TurnMessage(nil), s.History...)
	return out
}
