package rewardhook

import (
	"go.uber.org/dig"
	"go.uber.org/zap"
)

// DIParams holds dependencies needed to create a Receiver via DI.
type DIParams struct {
	dig.In

	Logger *zap.Logger
	Config *Config `optional:"true"`
}

// ProvideReceiver creates a Receiver for dependency injection.
// Use this when integrating the receiver into an app that uses uber-go/dig.
//
// Example:
//
//	container := dig.New()
//	container.Provide(func() *rewardhook.Config { return cfg })
//	container.Provide(rewardhook.ProvideReceiver)
//	container.Invoke(func(r *rewardhook.Receiver) {
//	    mux.Handle("/", r.Handler())
//	})
func ProvideReceiver(params DIParams) (*Receiver, error) {
	cfg := params.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Use the provided logger
	withLogger := *cfg
	withLogger.Logger = params.Logger

	return New(&withLogger)
}

// RegisterWithContainer registers the Receiver with a dig container.
func RegisterWithContainer(container *dig.Container) error {
	return container.Provide(ProvideReceiver)
}
