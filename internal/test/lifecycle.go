package test

import (
	"go.uber.org/fx"
)

// LifecycleRecorder collects hooks instead of scheduling them, so tests can
// invoke OnStart/OnStop directly.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

// Append records the hook without running it.
func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub signals on Called whenever Shutdown is requested.
type ShutdownerStub struct {
	Called chan struct{}
}

// Shutdown notifies the channel without blocking when nobody listens.
func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}
