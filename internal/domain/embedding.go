package domain

// EmbeddingResult is the output of an embedding call: the vector plus token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Expansion is the output of the query-expansion collaborator.
type Expansion struct {
	Terms      []string
	Contextual bool
	Confidence float64
}
