package driven

import "context"

// KeyValidator defines the driven port for checking that a secret is a
// currently-accepted catalog API key. Validation fails closed: a rejected
// key, a transport failure, and a timeout all report false, and callers
// cannot tell them apart.
type KeyValidator interface {
	Validate(ctx context.Context, secret string) bool
}
