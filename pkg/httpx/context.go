package httpx

import "context"

type ctxKey int

const (
	ctxKeySubject ctxKey = iota
	ctxKeyToken
)

// WithSubject stores the authenticated subject (user email) in the context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxKeySubject, subject)
}

// SubjectFromContext returns the authenticated subject, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxKeySubject).(string)
	return s, ok && s != ""
}

// WithToken stores the raw bearer token so handlers like logout can revoke
// the exact credential that was presented.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKeyToken, token)
}

// TokenFromContext returns the raw bearer token for the request, if any.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(ctxKeyToken).(string)
	return t, ok && t != ""
}
