package port

import "context"

// ChatInput carries a single-turn chat completion request.
type ChatInput struct {
	System      string
	User        string
	Model       string
	Temperature float64
	MaxTokens   int
	// JSONMode constrains the response to a single JSON object.
	JSONMode bool
}

// TextGenerator abstracts a hosted generative model behind a chat
// completion call.
type TextGenerator interface {
	Generate(ctx context.Context, input ChatInput) (string, error)
}
