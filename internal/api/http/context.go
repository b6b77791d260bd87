package http

import (
	"context"
	"net/http"
	"strings"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
)

type contextKey int

const (
	actorKey contextKey = iota
	tokenKey
)

func withActor(ctx context.Context, actor *domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated caller placed by the auth middleware.
func ActorFromContext(ctx context.Context) (domain.Actor, error) {
	actor, ok := ctx.Value(actorKey).(*domain.Actor)
	if !ok || actor == nil {
		return domain.Actor{}, apperror.Unauthenticated("authentication required")
	}
	return *actor, nil
}

func withToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperror.Unauthenticated("authorization token is not provided")
	}
	token := header
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperror.Unauthenticated("authorization token is not provided")
	}
	return token, nil
}
