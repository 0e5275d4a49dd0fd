// Package adecon composes the workbench: API client, session service, event
// bus and console rendering, wired from the application config.
package adecon

import (
	"context"
	"errors"
	"time"

	"pkt.systems/adecon/apiclient"
	"pkt.systems/adecon/core"
	"pkt.systems/adecon/internal/appconfig"
	"pkt.systems/adecon/internal/eventbus"
	"pkt.systems/adecon/internal/format"
	"pkt.systems/pslog"
)

// Workbench bundles the composed services behind one handle.
type Workbench struct {
	Config  appconfig.Config
	Client  *apiclient.Client
	Service core.Service
	Bus     *eventbus.Bus
	Logger  pslog.Logger
}

// Option adjusts workbench composition.
type Option func(*options)

type options struct {
	logger   pslog.Logger
	renderer core.Renderer
	sink     core.EventSink
	files    core.FileStore
}

// WithLogger sets the workbench logger.
func WithLogger(logger pslog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRenderer overrides the console renderer. The default is the colored
// renderer.
func WithRenderer(renderer core.Renderer) Option {
	return func(o *options) { o.renderer = renderer }
}

// WithEventSink adds an extra event sink beside the event bus.
func WithEventSink(sink core.EventSink) Option {
	return func(o *options) { o.sink = sink }
}

// WithFileStore overrides the backend file store. Used by tests; the default
// is the API client.
func WithFileStore(files core.FileStore) Option {
	return func(o *options) { o.files = files }
}

// New composes a workbench from the application config.
func New(cfg appconfig.Config, opts ...Option) (*Workbench, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}

	var client *apiclient.Client
	files := o.files
	if files == nil {
		if cfg.API.BaseURL == "" {
			return nil, errors.New("api.base_url is required; run `adecon config init` and set it")
		}
		var err error
		client, err = apiclient.New(apiclient.Options{
			BaseURL: cfg.API.BaseURL,
			APIKey:  cfg.API.Key,
			Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		files = client
	}

	renderer := o.renderer
	if renderer == nil {
		renderer = format.NewColorRenderer()
	}

	bus := eventbus.New(logger)
	var sink core.EventSink = bus
	if o.sink != nil {
		sink = eventFanout{sinks: []core.EventSink{bus, o.sink}}
	}

	service, err := core.NewService(cfg.ServiceConfig(), core.ServiceDeps{
		Files:    files,
		Renderer: renderer,
		Sink:     sink,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	return &Workbench{
		Config:  cfg,
		Client:  client,
		Service: service,
		Bus:     bus,
		Logger:  logger,
	}, nil
}
