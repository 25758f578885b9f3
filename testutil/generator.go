package testutil

import (
	"context"
	"sync"

	"github.com/hairizuan-noorazman/std-generator/stdgen"
)

// FakeGenerator returns queued replies in order and records every request.
// With no replies left it returns an empty array.
type FakeGenerator struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []stdgen.CompletionRequest
}

// NewFakeGenerator creates a generator returning replies in order.
func NewFakeGenerator(replies ...string) *FakeGenerator {
	return &FakeGenerator{replies: replies}
}

// Generate implements stdgen.Generator.
func (g *FakeGenerator) Generate(ctx context.Context, req stdgen.CompletionRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requests = append(g.requests, req)
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "[]", nil
	}
	reply := g.replies[0]
	g.replies = g.replies[1:]
	return reply, nil
}

// Queue appends replies.
func (g *FakeGenerator) Queue(replies ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replies = append(g.replies, replies...)
}

// FailWith makes every later call return err.
func (g *FakeGenerator) FailWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

// Requests returns the recorded requests.
func (g *FakeGenerator) Requests() []stdgen.CompletionRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]stdgen.CompletionRequest{}, g.requests...)
}

// LastPrompt returns the prompt of the most recent request.
func (g *FakeGenerator) LastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.requests) == 0 {
		return ""
	}
	return g.requests[len(g.requests)-1].Prompt
}
