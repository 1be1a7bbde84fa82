package source

import (
	"fmt"
	"sort"
	"sync"

	"github.com/RyanBlaney/wavecap/pkg/capture"
)

// Builder creates a sample source from its configuration
type Builder func(cfg *Config) (capture.SampleSource, error)

// Factory creates sample sources by type
type Factory struct {
	builders map[Type]Builder
	mu       sync.RWMutex
}

// NewFactory creates a new source factory with the built-in sources
func NewFactory() *Factory {
	f := &Factory{
		builders: make(map[Type]Builder),
	}

	f.Register(TypeSine, shapeBuilder(sineShape))
	f.Register(TypeSquare, shapeBuilder(squareShape))
	f.Register(TypeTriangle, shapeBuilder(triangleShape))
	f.Register(TypeConstant, shapeBuilder(flatShape))
	f.Register(TypeNoise, func(cfg *Config) (capture.SampleSource, error) {
		if cfg.Noise <= 0 {
			return nil, capture.NewCaptureError(
				capture.ErrCodeInvalidConfig,
				"noise source requires a positive noise level",
				nil,
			)
		}
		return newGenerator(flatShape, cfg), nil
	})
	f.Register(TypeFile, func(cfg *Config) (capture.SampleSource, error) {
		samples, err := LoadSamples(cfg.File)
		if err != nil {
			return nil, capture.NewCaptureError(capture.ErrCodeInvalidConfig, "failed to load replay samples", err)
		}
		return NewReplay(samples), nil
	})

	return f
}

func shapeBuilder(shape shapeFunc) Builder {
	return func(cfg *Config) (capture.SampleSource, error) {
		return newGenerator(shape, cfg), nil
	}
}

// Create builds the source selected by cfg.Type
func (f *Factory) Create(cfg *Config) (capture.SampleSource, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	f.mu.RLock()
	builder, exists := f.builders[cfg.Type]
	f.mu.RUnlock()

	if !exists {
		return nil, capture.NewCaptureError(
			capture.ErrCodeSourceUnsupported,
			fmt.Sprintf("unsupported source type: %s", cfg.Type),
			nil,
		)
	}

	return builder(cfg)
}

// Register adds or replaces the builder for a source type
func (f *Factory) Register(sourceType Type, builder Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.builders[sourceType] = builder
}

// SupportedTypes returns the registered source types in name order
func (f *Factory) SupportedTypes() []Type {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]Type, 0, len(f.builders))
	for sourceType := range f.builders {
		types = append(types, sourceType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
