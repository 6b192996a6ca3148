package compat

import (
	"fmt"

	"github.com/lixenwraith/clog"
)

// Builder provides a flexible way to create configured logger adapters for gnet, fasthttp and logrus
// It can use an existing *clog.Logger instance or create a new one from a *clog.Config
type Builder struct {
	logger *clog.Logger
	logCfg *clog.Config
	opts   []clog.Option
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters
// Recommended for applications that already have a central logger instance
// If this is set WithConfig is ignored
func (b *Builder) WithLogger(l *clog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("clog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration and options for a new logger instance
// This is used only if an existing logger is NOT provided via WithLogger
// If neither WithLogger nor WithConfig is used, a default logger will be created
func (b *Builder) WithConfig(cfg *clog.Config, opts ...clog.Option) *Builder {
	b.logCfg = cfg
	b.opts = opts
	return b
}

// getLogger resolves the logger to be used, creating one if necessary
func (b *Builder) getLogger() (*clog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	// New falls back to the default configuration on nil
	l, err := clog.New(b.logCfg, b.opts...)
	if err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// BuildLogrusHook creates a logrus hook
func (b *Builder) BuildLogrusHook(opts ...LogrusOption) (*LogrusHook, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewLogrusHook(l, opts...), nil
}

// GetLogger returns the underlying *clog.Logger instance
// If a logger has not been provided or created yet, it will be initialized
func (b *Builder) GetLogger() (*clog.Logger, error) {
	return b.getLogger()
}

// --- Example Usage ---
//
//	// 1. Create the application's main logger
//	appLogger, err := clog.NewBuilder().
//		Directory("/var/log/app").
//		LevelString("info").
//		Build()
//	if err != nil { /* handle error */ }
//	defer appLogger.Shutdown()
//
//	// 2. Create a builder and provide the existing logger
//	builder := compat.NewBuilder().WithLogger(appLogger)
//
//	// 3. Build the required adapters
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//	hook, _ := builder.BuildLogrusHook()
//
//	// 4. Configure the libraries
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	logrus.AddHook(hook)
