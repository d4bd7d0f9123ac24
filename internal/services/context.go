package services

import "context"

// Scope describes what a command invocation is currently working on.
type Scope struct {
	Command string
	Movie   string
}

type scopeKey struct{}

// ScopeFrom returns the scope stored in ctx, or the zero Scope.
func ScopeFrom(ctx context.Context) Scope {
	if ctx == nil {
		return Scope{}
	}
	scope, _ := ctx.Value(scopeKey{}).(Scope)
	return scope
}

func withScope(ctx context.Context, mutate func(*Scope)) context.Context {
	scope := ScopeFrom(ctx)
	mutate(&scope)
	return context.WithValue(ctx, scopeKey{}, scope)
}

// WithCommand records the CLI command being executed. Blank names leave ctx
// untouched.
func WithCommand(ctx context.Context, command string) context.Context {
	if command == "" {
		return ctx
	}
	return withScope(ctx, func(s *Scope) { s.Command = command })
}

// WithMovie records the "Title (YYYY)" label of the movie being processed.
func WithMovie(ctx context.Context, label string) context.Context {
	if label == "" {
		return ctx
	}
	return withScope(ctx, func(s *Scope) { s.Movie = label })
}
