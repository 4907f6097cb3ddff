package planner

import (
	"fmt"
	"strings"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
	sessionx "github.com/jadetp/ecommerce-voicebot-agent/agent/session"
)

// BuildPlan maps one transcript plus a read-only session snapshot to an
// ordered task list. Pure: identical inputs always yield an identical plan.
// Rules are checked in order; the first match short-circuits except for the
// similar-intent rule, which prepends to the default retrieval task.
func BuildPlan(transcript string, sess sessionx.Session) contractx.Plan {
	text := strings.TrimSpace(transcript)
	lower := strings.ToLower(text)

	// Order tracking.
	if orderID := ExtractOrderID(text); orderID != "" {
		return contractx.Plan{Tasks: []contractx.Task{
			contractx.NewTask(contractx.TaskAuthenticateUser, map[string]any{"session_id": sess.SessionID}),
			contractx.NewTask(contractx.TaskGetOrderStatus, map[string]any{"order_id": orderID}),
			contractx.NewTask(contractx.TaskFormatReply, nil),
		}}
	}
	if containsWord(lower, trackingKeywords) {
		return contractx.Plan{Tasks: []contractx.Task{
			contractx.NewTask(contractx.TaskAuthenticateUser, map[string]any{"session_id": sess.SessionID}),
			contractx.NewTask(contractx.TaskAskForOrderID, nil),
		}}
	}

	// Human escalation.
	if containsWord(lower, escalationKeywords) {
		return contractx.Plan{Tasks: []contractx.Task{
			contractx.NewTask(contractx.TaskEscalationQuery, nil),
		}}
	}

	// Policy and FAQ routing; both carry the raw transcript.
	if strings.Contains(lower, "return policy") || strings.Contains(lower, "refund") || strings.Contains(lower, "returns") {
		return contractx.Plan{Tasks: []contractx.Task{
			contractx.NewTask(contractx.TaskPolicyQuery, map[string]any{"query": text}),
		}}
	}
	if strings.Contains(lower, "delivery") || strings.Contains(lower, "shipping") {
		return contractx.Plan{Tasks: []contractx.Task{
			contractx.NewTask(contractx.TaskFAQQuery, map[string]any{"query": text}),
		}}
	}

	// Unsatisfiable price constraint: answered directly, nothing executes.
	if limit := extractPriceCap(lower); limit != "" {
		return contractx.Plan{
			Direct: "I couldn't find options that meet your criteria. Would you like to relax the price constraint?",
		}
	}

	// Memory follow-up: a bare pronoun plus a color word about the product the
	// user was just viewing. Best-effort shortcut, bypasses execution entirely.
	if sess.LastProductID != "" && containsWord(lower, pronounWords) {
		if color := firstWordMatch(lower, colorWords); color != "" {
			return contractx.Plan{
				Direct: fmt.Sprintf(
					"You were looking at product %s. Yes, it is available in %s as well.",
					sess.LastProductID, color,
				),
			}
		}
	}

	var tasks []contractx.Task

	// Similar/compare intent: session memory first, explicit reference second.
	if containsWord(lower, similarKeywords) {
		productID := sess.LastProductID
		if productID == "" {
			productID = ExtractProductID(text)
		}
		if productID != "" {
			tasks = append(tasks, contractx.NewTask(
				contractx.TaskGraphSimilarProducts,
				map[string]any{"product_id": productID},
			))
		}
	}

	// Price intent for a remembered product bypasses retrieval.
	if len(tasks) == 0 && strings.Contains(lower, "price") && sess.LastProductID != "" {
		return contractx.Plan{Tasks: []contractx.Task{
			contractx.NewTask(contractx.TaskGetProductPrice, map[string]any{"product_id": sess.LastProductID}),
		}}
	}

	// Default retrieval task; a plan is never empty.
	tasks = append(tasks, contractx.NewTask(contractx.TaskRAGQuery, map[string]any{
		"query":          NormalizeQuery(text),
		"original_query": text,
	}))

	return contractx.Plan{Tasks: tasks}
}
