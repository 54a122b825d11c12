package middleware

import (
	"context"
	"fmt"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitly/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// GroupIDKey is the context key for storing the group the caller's token grants access to.
const GroupIDKey contextKey = "group_id"

// GetGroupID extracts the authorized group ID from the context.
// Returns empty string if not found.
func GetGroupID(ctx context.Context) string {
	groupID, _ := ctx.Value(GroupIDKey).(string)
	return groupID
}

// groupScoped is implemented by every request addressed to a single group.
type groupScoped interface {
	GetGroupId() string
}

// RequireGroupToken returns an interceptor that validates group tokens.
// It extracts the bearer token from the Authorization header, checks that its
// group claim matches the request's group_id, and adds the group ID to the
// request context. Procedures listed in public skip the check.
func RequireGroupToken(tokens *auth.TokenManager, public ...string) connect.UnaryInterceptorFunc {
	skip := make(map[string]bool, len(public))
	for _, p := range public {
		skip[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if skip[req.Spec().Procedure] {
				return next(ctx, req)
			}

			// Extract Authorization header
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			// Parse Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			scoped, ok := req.Any().(groupScoped)
			if !ok || scoped.GetGroupId() != claims.GroupID {
				return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("token does not grant access to this group"))
			}

			ctx = context.WithValue(ctx, GroupIDKey, claims.GroupID)
			return next(ctx, req)
		}
	}
}
