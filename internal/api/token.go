package api

import "context"

// TokenSource supplies the bearer token attached to each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

type tokenKey struct{}
type requestIDKey struct{}

// WithToken carries a caller's token so a shared Client can act on their behalf.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// ContextToken reads the token set by WithToken, falling back to Fallback when absent.
type ContextToken struct {
	Fallback TokenSource
}

func (t ContextToken) Token(ctx context.Context) (string, error) {
	if tok := TokenFromContext(ctx); tok != "" {
		return tok, nil
	}
	if t.Fallback != nil {
		return t.Fallback.Token(ctx)
	}
	return "", nil
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
