package verifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/Ivaan2/studio/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
)

// OIDC verifies bearer ID tokens against an external identity provider
// using OIDC discovery. It returns identity facts only; ownership and
// authorization decisions belong to the handlers.
type OIDC struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDC initializes the provider via discovery. issuer must be the
// provider issuer URL, e.g. https://securetoken.google.com/<project>.
func NewOIDC(ctx context.Context, issuer string, clientID string) (*OIDC, error) {

	if issuer == "" || clientID == "" {
		return nil, errors.New("oidc config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init oidc provider: %w", err)
	}

	v := oidcProvider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	return &OIDC{verifier: v}, nil
}

func (o *OIDC) Verify(ctx context.Context, rawToken string) (string, error) {
	subject, _, err := o.verifySubject(ctx, rawToken)
	return subject, err
}

func (o *OIDC) verifySubject(
	ctx context.Context,
	rawToken string,
) (subject string, expiry time.Time, err error) {

	idToken, err := o.verifier.Verify(ctx, rawToken)
	if err != nil {
		if isTransport(ctx, err) {
			logger.Error("oidc verification unreachable", map[string]any{
				"error": err.Error(),
			})
			return "", time.Time{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	if idToken.Subject == "" {
		return "", time.Time{}, fmt.Errorf("%w: token missing subject claim", ErrInvalidCredential)
	}

	return idToken.Subject, idToken.Expiry, nil
}

// isTransport reports whether the verification failure came from the
// call itself (cancellation, network, key fetch) rather than from the
// provider rejecting the credential.
func isTransport(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
