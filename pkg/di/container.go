// Package di provides dependency injection container
package di

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ssargent/bdat/pkg/api"
	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/config"
	"github.com/ssargent/bdat/pkg/decoder"
	"github.com/ssargent/bdat/pkg/layout"
	"github.com/ssargent/bdat/pkg/metrics"
	"github.com/ssargent/bdat/pkg/storage"
	"github.com/ssargent/bdat/pkg/trace"
)

// Store is a blob store the commands can close when done
type Store interface {
	api.BlobStore
	Close() error
}

// StoreFactory opens the blob store under dataDir
type StoreFactory func(dataDir string, logger *zap.Logger, m *metrics.Metrics) (Store, error)

// DefaultStoreFactory opens a pebble-backed store in dataDir/blobs
func DefaultStoreFactory(dataDir string, logger *zap.Logger, m *metrics.Metrics) (Store, error) {
	s, err := storage.Open(filepath.Join(dataDir, "blobs"), storage.WithLogger(logger), storage.WithMetrics(m))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Container holds all the dependencies for the application
type Container struct {
	config       *config.Config
	logger       *zap.Logger
	registry     *prometheus.Registry
	metrics      *metrics.Metrics
	storeFactory StoreFactory
}

// NewContainer creates a new dependency injection container with the
// default configuration and a no-op logger
func NewContainer() *Container {
	reg := prometheus.NewRegistry()
	return &Container{
		config:       config.DefaultConfig(),
		logger:       zap.NewNop(),
		registry:     reg,
		metrics:      metrics.New(reg),
		storeFactory: DefaultStoreFactory,
	}
}

// Configure validates cfg and rebuilds the logger from it
func (c *Container) Configure(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	level, _ := cfg.LogLevel()

	logger, err := NewLogger(level)
	if err != nil {
		return err
	}
	c.config = cfg
	c.logger = logger
	return nil
}

// NewLogger builds a console logger writing to stderr at level
func NewLogger(level zapcore.Level) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Config returns the active configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Registry returns the prometheus registry the metrics are registered on
func (c *Container) Registry() *prometheus.Registry {
	return c.registry
}

// Metrics returns the application metrics
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// OpenStore opens the blob store in the configured data directory
func (c *Container) OpenStore() (Store, error) {
	return c.storeFactory(c.config.DataDir, c.logger, c.metrics)
}

// Decoder loads the layout at schemaPath and returns a decoder configured
// from the container. The layout's byte order wins over the configured
// default. Every scalar read is reported to tracers, and logged at debug
// when decode.trace is set.
func (c *Container) Decoder(schemaPath string, tracers ...codec.Tracer) (*decoder.Decoder, error) {
	if schemaPath == "" {
		schemaPath = c.config.SchemaPath
	}
	if schemaPath == "" {
		return nil, fmt.Errorf("no layout given: pass --schema or set schema_path")
	}
	schema, err := layout.Load(schemaPath)
	if err != nil {
		return nil, err
	}

	opts := []decoder.Option{
		decoder.WithLogger(c.logger),
		decoder.WithMetrics(c.metrics),
		decoder.WithWorkers(c.config.Decode.Workers),
	}
	if schema.ByteOrder == "" {
		order, err := codec.ParseByteOrder(c.config.Decode.ByteOrder)
		if err != nil {
			return nil, err
		}
		opts = append(opts, decoder.WithByteOrder(order))
	}
	if c.config.Decode.Trace {
		tracers = append(tracers, trace.NewLogger(c.logger))
	}
	if t := trace.Combine(tracers...); t != nil {
		opts = append(opts, decoder.WithTracer(t))
	}
	return decoder.New(schema, opts...)
}

// SetStoreFactory allows overriding the store factory (for testing)
func (c *Container) SetStoreFactory(factory StoreFactory) {
	c.storeFactory = factory
}

// SetLogger allows overriding the logger (for testing)
func (c *Container) SetLogger(logger *zap.Logger) {
	if logger != nil {
		c.logger = logger
	}
}
