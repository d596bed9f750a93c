package handlers

import "context"

type contextKey string

const operatorKey = contextKey("operator")

// WithOperator records the authenticated operator on the context; set by the
// auth middleware.
func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, operatorKey, operator)
}

// OperatorFromContext returns the authenticated operator name, if any.
func OperatorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(operatorKey).(string); ok {
		return v
	}
	return ""
}
