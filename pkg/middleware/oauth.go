package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/logging"
)

// Account identity and billing live elsewhere; this middleware only verifies
// bearer tokens minted by the external issuer and exposes their claims.

type OAuthConfig struct {
	IssuerURL string
	Audience  string
}

type OAuthMiddleware struct {
	verifier *oidc.IDTokenVerifier
	audience string
}

type AuthClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Scope string `json:"scope"`
}

type contextKey string

const (
	subKey       contextKey = "sub"
	scopeKey     contextKey = "scope"
	accountIDKey contextKey = "account_id"
)

func NewOAuthMiddleware(config OAuthConfig) (*OAuthMiddleware, error) {
	ctx := context.Background()

	provider, err := oidc.NewProvider(ctx, config.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: config.Audience,
	})

	return &OAuthMiddleware{
		verifier: verifier,
		audience: config.Audience,
	}, nil
}

func (m *OAuthMiddleware) Authenticate(requiredScopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			token, err := m.verifier.Verify(r.Context(), tokenString)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			var claims AuthClaims
			if err := token.Claims(&claims); err != nil {
				http.Error(w, "failed to extract claims", http.StatusUnauthorized)
				return
			}

			if !m.checkAudience(token) {
				http.Error(w, "invalid audience", http.StatusUnauthorized)
				return
			}

			if len(requiredScopes) > 0 {
				if !m.checkScopes(claims.Scope, requiredScopes) {
					http.Error(w, "insufficient scope", http.StatusForbidden)
					return
				}
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, subKey, claims.Sub)
			ctx = context.WithValue(ctx, scopeKey, claims.Scope)
			if accountID, err := uuid.Parse(claims.Sub); err == nil {
				ctx = context.WithValue(ctx, accountIDKey, accountID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *OAuthMiddleware) checkAudience(token *oidc.IDToken) bool {
	var claims map[string]interface{}
	if err := token.Claims(&claims); err != nil {
		return false
	}

	aud, ok := claims["aud"]
	if !ok {
		return false
	}

	switch v := aud.(type) {
	case string:
		return v == m.audience
	case []interface{}:
		for _, a := range v {
			if str, ok := a.(string); ok && str == m.audience {
				return true
			}
		}
	}
	return false
}

func (m *OAuthMiddleware) checkScopes(tokenScopes string, requiredScopes []string) bool {
	scopes := strings.Fields(tokenScopes)
	scopeMap := make(map[string]bool)
	for _, s := range scopes {
		scopeMap[s] = true
	}

	for _, required := range requiredScopes {
		if !scopeMap[required] {
			return false
		}
	}
	return true
}

func GetSubFromContext(ctx context.Context) string {
	if sub, ok := ctx.Value(subKey).(string); ok {
		return sub
	}
	return ""
}

func GetScopeFromContext(ctx context.Context) string {
	if scope, ok := ctx.Value(scopeKey).(string); ok {
		return scope
	}
	return ""
}

func GetAccountIDFromContext(ctx context.Context) uuid.UUID {
	if accountID, ok := ctx.Value(accountIDKey).(uuid.UUID); ok {
		return accountID
	}
	return uuid.Nil
}

// CorrelationID stamps every request context with a correlation ID so log
// lines from one invocation can be tied together.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithCorrelationID(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
