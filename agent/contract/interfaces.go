package contract

import "context"

// Retriever is the retrieval collaborator: semantic search over the product
// and policy corpus. Ranking internals are out of scope here.
type Retriever interface {
	HandleRAG(ctx context.Context, query string, sessionID string) (RAGResult, error)
}

// GraphSearcher is the graph-similarity collaborator (top-k, k small).
type GraphSearcher interface {
	GetSimilarProducts(ctx context.Context, productID string) ([]SimilarProduct, error)
}

// Generator is the generation backend used for final answer composition.
type Generator interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// AuditSink records every dispatched task. Implementations may fail; callers
// must treat writes as best-effort.
type AuditSink interface {
	Record(ctx context.Context, rec AuditRecord) error
}
