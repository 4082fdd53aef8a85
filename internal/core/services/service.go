package services

import "context"

// Service is a single use case invoked once per request.
type Service[T any, S any] interface {
	Run(ctx context.Context, input T) (S, error)
}
