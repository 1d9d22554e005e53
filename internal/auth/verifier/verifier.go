package verifier

import (
	"context"
	"errors"

	"github.com/Ivaan2/studio/internal/auth"
)

var (
	// ErrInvalidCredential means the identity provider rejected the token
	// (expired, malformed, bad signature, wrong audience).
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrServiceUnavailable means the verification call itself could not
	// complete. It is not evidence of an illegitimate caller and must not
	// be reported as one.
	ErrServiceUnavailable = errors.New("verification service unavailable")
)

// Verifier turns a raw bearer token into a verified subject identifier.
// Implementations must not mutate state beyond the outbound verification
// call; callers treat the returned subject as immutable for the request.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (subject auth.Subject, err error)
}
