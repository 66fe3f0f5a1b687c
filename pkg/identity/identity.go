// Package identity resolves the owner of an HTTP request. The service never
// runs a login flow: it either trusts a header set by an upstream gateway or
// verifies an OIDC bearer token and uses its subject.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/clausewise/pkg/handlers"
)

type ownerKey struct{}

// WithOwner returns a copy of ctx carrying owner.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFrom returns the owner stored by the identity middleware.
func OwnerFrom(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ownerKey{}).(string)
	return owner, ok && owner != ""
}

// Resolver extracts the owner id from a request.
type Resolver interface {
	Resolve(r *http.Request) (string, error)
}

// New builds the Resolver selected by cfg. OIDC mode performs issuer
// discovery, so ctx bounds that network call.
func New(ctx context.Context, cfg *Config) (Resolver, error) {
	switch cfg.Mode {
	case ModeOIDC:
		provider, err := oidc.NewProvider(ctx, cfg.Issuer)
		if err != nil {
			return nil, fmt.Errorf("discover oidc issuer %s: %w", cfg.Issuer, err)
		}
		return NewVerifier(provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})), nil
	default:
		return NewHeader(cfg.Header), nil
	}
}

type headerResolver struct {
	name string
}

// NewHeader trusts the named request header as the owner id.
func NewHeader(name string) Resolver {
	return &headerResolver{name: name}
}

func (h *headerResolver) Resolve(r *http.Request) (string, error) {
	owner := strings.TrimSpace(r.Header.Get(h.name))
	if owner == "" {
		return "", ErrMissingIdentity
	}
	return owner, nil
}

type verifierResolver struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifier resolves the subject of a verified bearer ID token.
func NewVerifier(verifier *oidc.IDTokenVerifier) Resolver {
	return &verifierResolver{verifier: verifier}
}

func (v *verifierResolver) Resolve(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingIdentity
	}

	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return "", ErrInvalidToken
	}

	token, err := v.verifier.Verify(r.Context(), strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if token.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	return token.Subject, nil
}

// Middleware rejects requests without a resolvable owner with 401 and stores
// the owner in the request context otherwise.
func Middleware(resolver Resolver, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("system", "identity")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner, err := resolver.Resolve(r)
			if err != nil {
				if !errors.Is(err, ErrMissingIdentity) {
					logger.Debug("identity rejected", "error", err)
				}
				handlers.RespondError(w, logger, http.StatusUnauthorized, publicError(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

func publicError(err error) error {
	if errors.Is(err, ErrInvalidToken) {
		return ErrInvalidToken
	}
	return ErrMissingIdentity
}
