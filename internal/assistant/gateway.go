// Package assistant talks to the text-completion service that backs the
// chatroom's automated helper.
package assistant

import "context"

// Gateway produces a completion for a single prompt. Implementations report
// failures as errors; callers decide how to degrade.
type Gateway interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
