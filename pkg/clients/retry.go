package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryBaseDelay is the linear backoff step between attempts.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = time.Second

type retryCompleter struct {
	next       Completer
	maxRetries int
	logger     *slog.Logger
}

// WithRetry retries a failed completion up to maxRetries more times.
// A cancelled or expired context stops retrying immediately.
func WithRetry(next Completer, maxRetries int, logger *slog.Logger) Completer {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &retryCompleter{next: next, maxRetries: maxRetries, logger: logger}
}

func (r *retryCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	attempts := 1 + r.maxRetries
	var lastErr error

	for i := 0; i < attempts; i++ {
		if i > 0 {
			r.logger.Warn("Retrying LLM generation", "attempt", i+1, "last_error", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(RetryBaseDelay * time.Duration(i)):
			}
		}

		text, err := r.next.Complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	if attempts == 1 {
		return "", lastErr
	}
	return "", fmt.Errorf("llm generation failed after %d attempts: %w", attempts, lastErr)
}
