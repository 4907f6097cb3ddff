package planner

import (
	"reflect"
	"testing"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
	sessionx "github.com/jadetp/ecommerce-voicebot-agent/agent/session"
)

func taskNames(p contractx.Plan) []contractx.TaskName {
	names := make([]contractx.TaskName, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		names = append(names, t.Name)
	}
	return names
}

func TestBuildPlanOrderID(t *testing.T) {
	t.Parallel()

	plan := BuildPlan("Where is my order ORD-12345?", sessionx.Session{SessionID: "s1"})

	want := []contractx.TaskName{
		contractx.TaskAuthenticateUser,
		contractx.TaskGetOrderStatus,
		contractx.TaskFormatReply,
	}
	if got := taskNames(plan); !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildPlan() tasks = %v, want %v", got, want)
	}
	if got := plan.Tasks[1].StringArg("order_id"); got != "ORD-12345" {
		t.Fatalf("order_id = %q, want %q", got, "ORD-12345")
	}
}

func TestBuildPlanTrackingWithoutOrderID(t *testing.T) {
	t.Parallel()

	plan := BuildPlan("I want to track my delivery", sessionx.Session{SessionID: "s1"})

	want := []contractx.TaskName{
		contractx.TaskAuthenticateUser,
		contractx.TaskAskForOrderID,
	}
	if got := taskNames(plan); !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildPlan() tasks = %v, want %v", got, want)
	}
}

func TestBuildPlanEscalation(t *testing.T) {
	t.Parallel()

	plan := BuildPlan("I want to talk to a human", sessionx.Session{SessionID: "s1"})

	want := []contractx.TaskName{contractx.TaskEscalationQuery}
	if got := taskNames(plan); !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildPlan() tasks = %v, want %v", got, want)
	}
}

func TestBuildPlanPolicyAndFAQ(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		transcript string
		want       contractx.TaskName
	}{
		{"return policy", "What is your return policy?", contractx.TaskPolicyQuery},
		{"refund", "Can I get a refund for this?", contractx.TaskPolicyQuery},
		{"shipping", "How long does shipping take?", contractx.TaskFAQQuery},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			plan := BuildPlan(tc.transcript, sessionx.Session{SessionID: "s1"})
			if len(plan.Tasks) != 1 || plan.Tasks[0].Name != tc.want {
				t.Fatalf("BuildPlan(%q) tasks = %v, want single %s", tc.transcript, taskNames(plan), tc.want)
			}
			if got := plan.Tasks[0].StringArg("query"); got == "" {
				t.Fatalf("query arg missing for %q", tc.transcript)
			}
		})
	}
}

func TestBuildPlanPriceConstraintIsDirect(t *testing.T) {
	t.Parallel()

	plan := BuildPlan("Show me headphones under 10", sessionx.Session{SessionID: "s1"})

	if !plan.IsDirect() {
		t.Fatalf("BuildPlan() tasks = %v, want direct reply", taskNames(plan))
	}
	if len(plan.Tasks) != 0 {
		t.Fatalf("direct plan carries tasks: %v", taskNames(plan))
	}
}

func TestBuildPlanPronounColorFollowUp(t *testing.T) {
	t.Parallel()

	sess := sessionx.Session{SessionID: "s1", LastProductID: "P100"}
	plan := BuildPlan("Is it available in black?", sess)

	if !plan.IsDirect() {
		t.Fatalf("BuildPlan() = %v, want direct reply", taskNames(plan))
	}
	want := "You were looking at product P100. Yes, it is available in black as well."
	if plan.Direct != want {
		t.Fatalf("Direct = %q, want %q", plan.Direct, want)
	}
}

func TestBuildPlanFollowUpWithoutMemoryFallsThrough(t *testing.T) {
	t.Parallel()

	plan := BuildPlan("Is it available in black?", sessionx.Session{SessionID: "s1"})

	if plan.IsDirect() {
		t.Fatalf("Direct = %q, want task plan without session memory", plan.Direct)
	}
	if len(plan.Tasks) == 0 || plan.Tasks[len(plan.Tasks)-1].Name != contractx.TaskRAGQuery {
		t.Fatalf("BuildPlan() tasks = %v, want trailing rag_query", taskNames(plan))
	}
}

func TestBuildPlanSimilarPrependsGraphTask(t *testing.T) {
	t.Parallel()

	sess := sessionx.Session{SessionID: "s1", LastProductID: "P100"}
	plan := BuildPlan("Show me similar products", sess)

	want := []contractx.TaskName{
		contractx.TaskGraphSimilarProducts,
		contractx.TaskRAGQuery,
	}
	if got := taskNames(plan); !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildPlan() tasks = %v, want %v", got, want)
	}
	if got := plan.Tasks[0].StringArg("product_id"); got != "P100" {
		t.Fatalf("product_id = %q, want P100 from session memory", got)
	}
}

func TestBuildPlanSimilarWithoutAnyProduct(t *testing.T) {
	t.Parallel()

	plan := BuildPlan("Show me similar products", sessionx.Session{SessionID: "s1"})

	want := []contractx.TaskName{contractx.TaskRAGQuery}
	if got := taskNames(plan); !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildPlan() tasks = %v, want %v", got, want)
	}
}

func TestBuildPlanPriceIntentUsesCatalog(t *testing.T) {
	t.Parallel()

	sess := sessionx.Session{SessionID: "s1", LastProductID: "P100"}
	plan := BuildPlan("What is the price?", sess)

	want := []contractx.TaskName{contractx.TaskGetProductPrice}
	if got := taskNames(plan); !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildPlan() tasks = %v, want %v", got, want)
	}
	if got := plan.Tasks[0].StringArg("product_id"); got != "P100" {
		t.Fatalf("product_id = %q, want P100", got)
	}
}

func TestBuildPlanDefaultNormalizesQuery(t *testing.T) {
	t.Parallel()

	plan := BuildPlan("Tell me about product 42", sessionx.Session{SessionID: "s1"})

	want := []contractx.TaskName{contractx.TaskRAGQuery}
	if got := taskNames(plan); !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildPlan() tasks = %v, want %v", got, want)
	}
	if got := plan.Tasks[0].StringArg("query"); got != "product 42 description ecommerce catalog" {
		t.Fatalf("query = %q, want normalized form", got)
	}
	if got := plan.Tasks[0].StringArg("original_query"); got != "Tell me about product 42" {
		t.Fatalf("original_query = %q, want raw transcript", got)
	}
}

func TestBuildPlanDeterministic(t *testing.T) {
	t.Parallel()

	sess := sessionx.Session{SessionID: "s1", LastProductID: "P7"}
	first := BuildPlan("show me similar items", sess)
	second := BuildPlan("show me similar items", sess)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("BuildPlan() not deterministic:\nfirst  %+v\nsecond %+v", first, second)
	}
}
