package services

import "context"

type contextKey string

// RequestIDKey carries the inbound request id so aggregation logs can be
// correlated with access logs.
const RequestIDKey contextKey = "request_id"

func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, RequestIDKey, id)
}
