package health

import "context"

// ReadinessCheck is implemented by stores that can report whether their
// backing infrastructure is reachable.
type ReadinessCheck interface {
	IsReady(ctx context.Context) error
	Name() string
}
