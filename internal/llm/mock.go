package llm

import (
	"context"
	"fmt"
)

// ScriptedProvider replays canned responses in order. It backs stage tests
// and dry runs where no real oracle is reachable.
type ScriptedProvider struct {
	Responses []string
	Tokens    int
	Err       error

	calls int
}

// Name returns the provider name
func (p *ScriptedProvider) Name() string {
	return "scripted"
}

// Infer returns the next scripted response
func (p *ScriptedProvider) Infer(ctx context.Context, req InferRequest) (*InferResult, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if p.calls >= len(p.Responses) {
		return nil, fmt.Errorf("scripted provider exhausted after %d calls", p.calls)
	}

	text := p.Responses[p.calls]
	p.calls++

	tokens := p.Tokens
	if tokens == 0 {
		tokens = 100
	}

	return &InferResult{
		Text:       text,
		Model:      req.Model,
		TokensUsed: tokens,
	}, nil
}

// Calls reports how many inferences have been served
func (p *ScriptedProvider) Calls() int {
	return p.calls
}
