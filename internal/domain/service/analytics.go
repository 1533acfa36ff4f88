package service

import (
	"context"

	"EquipWatch/internal/engine"
)

// AnalyticsEngine is the single computation boundary external collaborators
// talk to. Implementations execute each request off the caller's goroutine
// and reply in submission order.
type AnalyticsEngine interface {
	Do(ctx context.Context, req engine.Request) (engine.Reply, error)
	Submit(req engine.Request) <-chan engine.Reply
}
