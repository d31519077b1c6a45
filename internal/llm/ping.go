package llm

import (
	"context"
	"fmt"
	"time"
)

// pingRequest is the fixed payload used to check that a provider answers.
var pingRequest = Request{
	Messages:  []Message{{Role: RoleUser, Content: "ping"}},
	MaxTokens: 5,
}

// Ping sends one fixed request to p and reports whether it answered.
// `serve` runs it for local LM Studio deployments before accepting traffic.
func Ping(ctx context.Context, p Provider, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := p.Generate(WithPurpose(ctx, PurposeHealthCheck), pingRequest); err != nil {
		return fmt.Errorf("%s health check: %w", p.ModelID(), err)
	}
	return nil
}
