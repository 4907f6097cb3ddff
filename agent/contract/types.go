package contract

type TaskName string

const (
	TaskAuthenticateUser     TaskName = "authenticate_user"
	TaskGetOrderStatus       TaskName = "get_order_status"
	TaskCreateInvestigation  TaskName = "create_investigation"
	TaskAskForOrderID        TaskName = "ask_for_order_id"
	TaskFormatReply          TaskName = "format_reply"
	TaskEscalationQuery      TaskName = "escalation_query"
	TaskPolicyQuery          TaskName = "policy_query"
	TaskFAQQuery             TaskName = "faq_query"
	TaskRAGQuery             TaskName = "rag_query"
	TaskGraphSimilarProducts TaskName = "graph_similar_products"
	TaskGetProductPrice      TaskName = "get_product_price"
	TaskAgent                TaskName = "agent"
)

// Task is a single named operation with its argument mapping.
// Immutable once created; args keys are stable per task name.
type Task struct {
	Name TaskName       `json:"task"`
	Args map[string]any `json:"args,omitempty"`
}

func NewTask(name TaskName, args map[string]any) Task {
	if args == nil {
		args = map[string]any{}
	}
	return Task{Name: name, Args: args}
}

// StringArg returns the named arg as a string, or "" when absent or not a string.
func (t Task) StringArg(key string) string {
	v, ok := t.Args[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Plan is an ordered task sequence for one turn. Order encodes dependency
// (authentication precedes order lookup). When Direct is set the planner has
// short-circuited and no task executes this turn. A plan never contains an
// agent task.
type Plan struct {
	Tasks  []Task `json:"tasks,omitempty"`
	Direct string `json:"direct,omitempty"`
}

func (p Plan) IsDirect() bool {
	return p.Direct != ""
}

type Status string

const (
	StatusOK      Status = "ok"
	StatusError   Status = "error"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Source is one retrieved evidence item attached to a reply.
type Source struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ExecutionResult is the structured outcome of one dispatched task.
// Task and Status are always present.
type ExecutionResult struct {
	Task    TaskName       `json:"task"`
	Status  Status         `json:"status"`
	Reply   string         `json:"reply,omitempty"`
	Sources []Source       `json:"sources,omitempty"`
	Result  map[string]any `json:"result,omitempty"`
}

// NeedsHuman reports whether the result asks the caller to escalate.
func (r ExecutionResult) NeedsHuman() bool {
	if r.Result == nil {
		return false
	}
	v, _ := r.Result["needs_human"].(bool)
	return v
}

// Score holds the automatic quality metrics for one reply, rounded to 4 decimals.
type Score struct {
	BLEU   float64 `json:"bleu"`
	RougeL float64 `json:"rougeL"`
}

// AuditRecord is one append-only entry describing a dispatched task.
// Writes are best-effort and must never affect the returned result.
type AuditRecord struct {
	SessionID  string         `json:"session_id"`
	TaskName   string         `json:"task_name"`
	Tool       string         `json:"tool"`
	Args       map[string]any `json:"args,omitempty"`
	Result     map[string]any `json:"result,omitempty"`
	Status     Status         `json:"status"`
	DurationMS int64          `json:"duration_ms"`
	RunID      string         `json:"run_id"`
}

// RAGResult is what the retrieval collaborator returns for one query.
type RAGResult struct {
	Reply   string   `json:"reply"`
	Sources []Source `json:"sources"`
}

// SimilarProduct is one graph-similarity hit.
type SimilarProduct struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score,omitempty"`
}

// Message is one chat message sent to the generation backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TurnOutcome aggregates one agent pass: the spoken reply, the retrieved
// sources, and the raw per-task results.
type TurnOutcome struct {
	Reply   string            `json:"reply"`
	Sources []Source          `json:"sources"`
	Actions []ExecutionResult `json:"actions"`
}

// NeedsHuman reports whether any executed task requested escalation.
func (o TurnOutcome) NeedsHuman() bool {
	for _, a := range o.Actions {
		if a.NeedsHuman() {
			return true
		}
	}
	return false
}

// TurnRequest is the transport-facing input for one turn.
type TurnRequest struct {
	Transcript  string `json:"transcript"`
	SessionID   string `json:"session_id"`
	GroundTruth string `json:"ground_truth,omitempty"`
	RunID       string `json:"run_id,omitempty"`
}

// TurnResult is the transport-facing output for one turn. Evaluation is set
// only when the caller supplied a reference answer, and carries the adopted
// score set only.
type TurnResult struct {
	Reply      string            `json:"reply"`
	Sources    []Source          `json:"sources"`
	Actions    []ExecutionResult `json:"actions"`
	Evaluation *Score            `json:"evaluation,omitempty"`
}
