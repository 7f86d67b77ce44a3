package shared

import "context"

type sessionCtxKey struct{}

// ContextWithSession attaches the request session to ctx. The session
// middleware installs it once per request; nothing else should.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sess)
}

// SessionFromContext returns the request session, or nil when called outside
// the middleware chain.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionCtxKey{}).(*Session)
	return sess
}
