package executor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	catalogx "github.com/jadetp/ecommerce-voicebot-agent/agent/catalog"
	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
	sessionx "github.com/jadetp/ecommerce-voicebot-agent/agent/session"
)

func (e *Executor) authenticateUser(ctx context.Context, sessionID string) contractx.ExecutionResult {
	if e.tools == nil {
		return errorResult(contractx.TaskAuthenticateUser, "tool client not configured")
	}

	profile, err := e.tools.UserProfile(ctx, sessionID)
	if err != nil {
		return errorResult(contractx.TaskAuthenticateUser, err.Error())
	}

	customerID := metaString(profile["customer_id"])
	if customerID == "" {
		customerID = metaString(profile["id"])
	}
	if err := e.sessions.Update(ctx, sessionID, func(s *sessionx.Session) {
		s.AuthLevel = sessionx.AuthVerified
		if customerID != "" {
			s.CustomerID = customerID
		}
	}); err != nil {
		e.log.Warn().Err(err).Str("session_id", sessionID).Msg("session auth update failed")
	}

	return contractx.ExecutionResult{
		Task:   contractx.TaskAuthenticateUser,
		Status: contractx.StatusOK,
		Result: profile,
	}
}

func (e *Executor) getOrderStatus(ctx context.Context, task contractx.Task, sessionID string) contractx.ExecutionResult {
	sess, err := e.sessions.Get(ctx, sessionID)
	if err != nil || !sess.Authenticated() {
		return contractx.ExecutionResult{
			Task:   task.Name,
			Status: contractx.StatusError,
			Reply:  "I need to verify your account before I can look up that order.",
			Result: map[string]any{"error": "authentication required"},
		}
	}

	if e.tools == nil {
		return errorResult(task.Name, "tool client not configured")
	}

	orderID := task.StringArg("order_id")
	if orderID == "" {
		return errorResult(task.Name, "order_id missing")
	}

	status, err := e.tools.OrderStatus(ctx, orderID)
	if err != nil {
		return errorResult(task.Name, err.Error())
	}

	return contractx.ExecutionResult{
		Task:   task.Name,
		Status: contractx.StatusOK,
		Reply:  orderStatusReply(orderID, status),
		Result: status,
	}
}

func orderStatusReply(orderID string, status map[string]any) string {
	state := metaString(status["status"])
	if state == "" {
		return ""
	}
	reply := fmt.Sprintf("Order %s is %s.", orderID, state)
	if eta := metaString(status["eta"]); eta != "" {
		reply += fmt.Sprintf(" Expected delivery: %s.", eta)
	}
	return reply
}

func (e *Executor) createInvestigation(ctx context.Context, task contractx.Task) contractx.ExecutionResult {
	if e.tools == nil {
		return errorResult(task.Name, "tool client not configured")
	}
	result, err := e.tools.CreateInvestigation(ctx, task.Args)
	if err != nil {
		return errorResult(task.Name, err.Error())
	}
	return contractx.ExecutionResult{
		Task:   task.Name,
		Status: contractx.StatusOK,
		Result: result,
	}
}

func (e *Executor) retrievalQuery(ctx context.Context, task contractx.Task, sessionID, systemOverride string) contractx.ExecutionResult {
	if e.retriever == nil {
		return errorResult(task.Name, "retriever not configured")
	}

	query := task.StringArg("query")
	if query == "" {
		return errorResult(task.Name, "empty retrieval query")
	}
	originalQuery := task.StringArg("original_query")
	if originalQuery == "" {
		originalQuery = query
	}

	ragResult, err := e.retriever.HandleRAG(ctx, query, sessionID)
	if err != nil {
		return errorResult(task.Name, err.Error())
	}

	if e.generator == nil {
		return errorResult(task.Name, "generator not configured")
	}

	systemPrompt := e.prompts.Assistant
	if systemOverride != "" {
		systemPrompt = systemOverride
	}

	reply, err := e.generator.Chat(ctx, []contractx.Message{
		{Role: contractx.RoleSystem, Content: systemPrompt},
		{Role: contractx.RoleUser, Content: fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s", ragResult.Reply, originalQuery)},
	})
	if err != nil {
		return contractx.ExecutionResult{
			Task:    task.Name,
			Status:  contractx.StatusError,
			Sources: ragResult.Sources,
			Result:  map[string]any{"error": err.Error()},
		}
	}

	return contractx.ExecutionResult{
		Task:    task.Name,
		Status:  contractx.StatusOK,
		Reply:   reply,
		Sources: ragResult.Sources,
		Result:  map[string]any{"source_count": len(ragResult.Sources)},
	}
}

func (e *Executor) graphSimilarProducts(ctx context.Context, task contractx.Task, sessionID string) contractx.ExecutionResult {
	if e.graph == nil {
		return errorResult(task.Name, "graph searcher not configured")
	}

	productID := task.StringArg("product_id")
	if productID == "" {
		return errorResult(task.Name, "product_id missing")
	}

	hits, err := e.graph.GetSimilarProducts(ctx, productID)
	if err != nil {
		return errorResult(task.Name, err.Error())
	}

	if len(hits) == 0 {
		return contractx.ExecutionResult{
			Task:   task.Name,
			Status: contractx.StatusOK,
			Reply:  "I couldn't find similar products for that item.",
			Result: map[string]any{"count": 0},
		}
	}

	names := make([]string, 0, len(hits))
	for _, h := range hits {
		names = append(names, h.Name)
	}

	e.saveLastProduct(ctx, sessionID, productID)

	return contractx.ExecutionResult{
		Task:   task.Name,
		Status: contractx.StatusOK,
		Reply:  fmt.Sprintf("Here are some similar options: %s.", strings.Join(names, ", ")),
		Result: map[string]any{"count": len(hits)},
	}
}

func (e *Executor) getProductPrice(ctx context.Context, task contractx.Task) contractx.ExecutionResult {
	if e.catalog == nil {
		return errorResult(task.Name, "catalog not configured")
	}

	productID := task.StringArg("product_id")
	product, err := e.catalog.ByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogx.ErrProductNotFound) {
			return contractx.ExecutionResult{
				Task:   task.Name,
				Status: contractx.StatusError,
				Reply:  "I could not find the product price.",
				Result: map[string]any{"error": "product not found"},
			}
		}
		return errorResult(task.Name, err.Error())
	}

	return contractx.ExecutionResult{
		Task:   task.Name,
		Status: contractx.StatusOK,
		Reply:  fmt.Sprintf("The price of %s is %.2f %s.", product.Name, product.Price, product.Currency),
		Result: map[string]any{
			"product_id": product.ID,
			"name":       product.Name,
			"price":      product.Price,
			"currency":   product.Currency,
		},
	}
}

// resolveProductID resolves the first source that carries a concrete product
// identity: a direct id field, a sku resolved against the catalog, or an
// explicit metadata tag. Empty or ambiguous sources never resolve.
func (e *Executor) resolveProductID(ctx context.Context, sources []contractx.Source) string {
	for _, src := range sources {
		if len(src.Metadata) == 0 {
			continue
		}
		if id := metaString(src.Metadata["product_id"]); id != "" {
			return id
		}
		if id := metaString(src.Metadata["id"]); id != "" {
			return id
		}
		if sku := metaString(src.Metadata["sku"]); sku != "" && e.catalog != nil {
			if product, err := e.catalog.BySKU(ctx, sku); err == nil {
				return product.ID
			}
		}
	}
	return ""
}

func (e *Executor) saveLastProduct(ctx context.Context, sessionID, productID string) {
	if err := e.sessions.Update(ctx, sessionID, func(s *sessionx.Session) {
		s.LastProductID = productID
	}); err != nil {
		e.log.Warn().Err(err).Str("session_id", sessionID).Msg("last product update failed")
	}
}

func metaString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
