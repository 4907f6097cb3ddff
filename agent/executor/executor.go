// Package executor dispatches planned tasks to their handlers: local,
// remote tool, retrieval, graph, catalog, and the nested agent pass. Every
// handler failure is converted into a structured result at this boundary;
// a turn never dies because one task failed.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	auditx "github.com/jadetp/ecommerce-voicebot-agent/agent/audit"
	catalogx "github.com/jadetp/ecommerce-voicebot-agent/agent/catalog"
	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
	plannerx "github.com/jadetp/ecommerce-voicebot-agent/agent/planner"
	promptx "github.com/jadetp/ecommerce-voicebot-agent/agent/prompt"
	sessionx "github.com/jadetp/ecommerce-voicebot-agent/agent/session"
	toolx "github.com/jadetp/ecommerce-voicebot-agent/agent/tool"
)

const fallbackReply = "I don't know"

// Deps carries the executor's collaborators. Sessions is required; a missing
// collaborator turns the tasks needing it into per-task errors instead of
// failing construction.
type Deps struct {
	Tools     *toolx.Client
	Retriever contractx.Retriever
	Graph     contractx.GraphSearcher
	Generator contractx.Generator
	Sessions  sessionx.Store
	Catalog   catalogx.Store
	Audit     contractx.AuditSink
	Log       zerolog.Logger
}

type Executor struct {
	tools     *toolx.Client
	retriever contractx.Retriever
	graph     contractx.GraphSearcher
	generator contractx.Generator
	sessions  sessionx.Store
	catalog   catalogx.Store
	audit     contractx.AuditSink
	prompts   promptx.PromptSet
	log       zerolog.Logger
	now       func() time.Time
}

func New(deps Deps) (*Executor, error) {
	if deps.Sessions == nil {
		return nil, fmt.Errorf("%w: session store is required", contractx.ErrValidation)
	}
	return &Executor{
		tools:     deps.Tools,
		retriever: deps.Retriever,
		graph:     deps.Graph,
		generator: deps.Generator,
		sessions:  deps.Sessions,
		catalog:   deps.Catalog,
		audit:     deps.Audit,
		prompts:   promptx.LoadPromptSet(),
		log:       deps.Log,
		now:       time.Now,
	}, nil
}

// Execute dispatches one task. Total: it returns a structured result for any
// task name, including unknown ones, and never panics to its caller.
func (e *Executor) Execute(ctx context.Context, task contractx.Task, sessionID, runID string) contractx.ExecutionResult {
	return e.execute(ctx, task, sessionID, runID, "", 0)
}

// RunAgent runs one full agent pass: plan, then dispatch every subtask
// strictly sequentially, aggregating the last non-empty reply and all
// sources. systemOverride replaces the generation system prompt (used by the
// corrective rerun).
func (e *Executor) RunAgent(ctx context.Context, transcript, sessionID, runID, systemOverride string) contractx.TurnOutcome {
	sess, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		e.log.Warn().Err(err).Str("session_id", sessionID).Msg("session read failed, planning without memory")
		sess = sessionx.Session{SessionID: sessionID}
	}

	plan := plannerx.BuildPlan(transcript, sess)
	if plan.IsDirect() {
		return contractx.TurnOutcome{Reply: plan.Direct}
	}

	var (
		actions    []contractx.ExecutionResult
		sources    []contractx.Source
		finalReply string
	)

	// Strictly sequential: later tasks may depend on session state mutated by
	// earlier ones (authentication gates order lookup).
	for _, t := range plan.Tasks {
		res := e.execute(ctx, t, sessionID, runID, systemOverride, 1)
		actions = append(actions, res)
		if res.Reply != "" {
			finalReply = res.Reply
		}
		sources = append(sources, res.Sources...)
	}

	// Safety net: remember the product the turn resolved to even when the
	// individual handler omitted the side effect.
	if productID := e.resolveProductID(ctx, sources); productID != "" {
		e.saveLastProduct(ctx, sessionID, productID)
	}

	if finalReply == "" {
		finalReply = fallbackReply
	}

	return contractx.TurnOutcome{
		Reply:   finalReply,
		Sources: sources,
		Actions: actions,
	}
}

func (e *Executor) execute(ctx context.Context, task contractx.Task, sessionID, runID, systemOverride string, depth int) (res contractx.ExecutionResult) {
	start := e.now()

	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("task", string(task.Name)).Msg("task handler panicked")
			res = errorResult(task.Name, fmt.Sprintf("handler panic: %v", r))
		}
		auditx.BestEffort(ctx, e.audit, e.log, contractx.AuditRecord{
			SessionID:  sessionID,
			TaskName:   string(task.Name),
			Tool:       toolFor(task.Name),
			Args:       task.Args,
			Result:     res.Result,
			Status:     res.Status,
			DurationMS: e.now().Sub(start).Milliseconds(),
			RunID:      runID,
		})
	}()

	switch task.Name {
	case contractx.TaskAuthenticateUser:
		return e.authenticateUser(ctx, sessionID)
	case contractx.TaskGetOrderStatus:
		return e.getOrderStatus(ctx, task, sessionID)
	case contractx.TaskCreateInvestigation:
		return e.createInvestigation(ctx, task)
	case contractx.TaskAskForOrderID:
		return contractx.ExecutionResult{
			Task:   task.Name,
			Status: contractx.StatusOK,
			Reply:  "Could you share your order ID so I can look it up?",
			Result: map[string]any{"message": "ask_for_order_id"},
		}
	// format_reply only speaks when given explicit text; otherwise the reply
	// aggregated from earlier tasks stands.
	case contractx.TaskFormatReply:
		return contractx.ExecutionResult{
			Task:   task.Name,
			Status: contractx.StatusOK,
			Reply:  task.StringArg("text"),
			Result: map[string]any{"message": "format_reply"},
		}
	case contractx.TaskEscalationQuery:
		return contractx.ExecutionResult{
			Task:   task.Name,
			Status: contractx.StatusOK,
			Reply:  "I am connecting you to a human agent now. Please stay on the line.",
			Result: map[string]any{"needs_human": true, "message": "escalation"},
		}
	case contractx.TaskRAGQuery, contractx.TaskPolicyQuery, contractx.TaskFAQQuery:
		return e.retrievalQuery(ctx, task, sessionID, systemOverride)
	case contractx.TaskGraphSimilarProducts:
		return e.graphSimilarProducts(ctx, task, sessionID)
	case contractx.TaskGetProductPrice:
		return e.getProductPrice(ctx, task)
	case contractx.TaskAgent:
		if depth > 0 {
			return errorResultNeedsHuman(task.Name, "nested agent task is not allowed")
		}
		out := e.RunAgent(ctx, task.StringArg("transcript"), sessionID, runID, task.StringArg("system_override"))
		return contractx.ExecutionResult{
			Task:    task.Name,
			Status:  contractx.StatusOK,
			Reply:   out.Reply,
			Sources: out.Sources,
			Result:  map[string]any{"subtask_count": len(out.Actions)},
		}
	default:
		return errorResultNeedsHuman(task.Name, fmt.Sprintf("unknown task: %s", task.Name))
	}
}

func errorResult(name contractx.TaskName, msg string) contractx.ExecutionResult {
	return contractx.ExecutionResult{
		Task:   name,
		Status: contractx.StatusError,
		Result: map[string]any{"error": msg},
	}
}

func errorResultNeedsHuman(name contractx.TaskName, msg string) contractx.ExecutionResult {
	return contractx.ExecutionResult{
		Task:   name,
		Status: contractx.StatusError,
		Result: map[string]any{"error": msg, "needs_human": true},
	}
}

func toolFor(name contractx.TaskName) string {
	switch name {
	case contractx.TaskAuthenticateUser:
		return "get_user_profile"
	case contractx.TaskGetOrderStatus:
		return "get_order_status"
	case contractx.TaskCreateInvestigation:
		return "create_investigation"
	case contractx.TaskRAGQuery, contractx.TaskPolicyQuery, contractx.TaskFAQQuery:
		return "vector_search"
	case contractx.TaskGraphSimilarProducts:
		return "graph"
	case contractx.TaskGetProductPrice:
		return "catalog"
	case contractx.TaskAskForOrderID, contractx.TaskFormatReply, contractx.TaskEscalationQuery:
		return "local"
	case contractx.TaskAgent:
		return "run"
	default:
		return "unknown"
	}
}
