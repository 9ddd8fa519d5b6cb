package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/auth"
)

// Principal is the identity a request acts as. It is built once by the JWT
// middleware and carried immutably in the request context; nothing downstream
// mutates it.
type Principal struct {
	UserID int64
	Role   string
}

// OwnsAllRows reports whether the role sees every row or only its own.
func (p Principal) OwnsAllRows() bool {
	return p.Role != entity.RoleSales && p.Role != entity.RoleTelesales
}

type principalKey struct{}

// PrincipalFrom returns the request principal, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RequireAuth validates the bearer token and injects the principal.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tokenString = strings.TrimPrefix(h, "Bearer ")
			} else {
				// The SPA sends the legacy x-auth-token header.
				tokenString = r.Header.Get("x-auth-token")
			}
			if tokenString == "" {
				unauthorized(w, "No token, authorization denied")
				return
			}

			claims, err := tokens.Validate(tokenString)
			if err != nil {
				unauthorized(w, "Token is not valid")
				return
			}

			p := Principal{UserID: claims.UserID, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, p)))
		})
	}
}

// RequireRole gates a subtree to the given roles; it assumes RequireAuth ran.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok || !allowed[p.Role] {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"msg": "Forbidden: Insufficient permissions"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"msg": msg})
}
