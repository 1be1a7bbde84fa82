package source

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/RyanBlaney/wavecap/pkg/capture"
)

// shapeFunc maps a phase in [0, 1) to a level in [-1, 1]
type shapeFunc func(phase float64) float64

func sineShape(phase float64) float64 {
	return math.Sin(2 * math.Pi * phase)
}

func squareShape(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

func triangleShape(phase float64) float64 {
	return 1 - 4*math.Abs(phase-0.5)
}

func flatShape(float64) float64 {
	return 0
}

// Generator synthesizes a periodic signal as an ADC would see it: the level
// follows the clock, gets optional gaussian noise and is quantized and
// clamped to the sample range.
type Generator struct {
	shape     shapeFunc
	period    time.Duration
	amplitude float64
	offset    float64
	clock     capture.Clock
	start     time.Time
	noise     *distuv.Normal
}

func newGenerator(shape shapeFunc, cfg *Config) *Generator {
	g := &Generator{
		shape:     shape,
		period:    cfg.period(),
		amplitude: cfg.Amplitude,
		offset:    cfg.Offset,
		clock:     cfg.clock(),
	}
	g.start = g.clock.Now()

	if cfg.Noise > 0 {
		g.noise = &distuv.Normal{
			Mu:    0,
			Sigma: cfg.Noise,
			Src:   rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15),
		}
	}
	return g
}

// Read returns the sample for the current clock time
func (g *Generator) Read() capture.Sample {
	level := g.offset + g.amplitude*g.shape(g.phase())
	if g.noise != nil {
		level += g.noise.Rand()
	}
	return Quantize(level)
}

func (g *Generator) phase() float64 {
	if g.period <= 0 {
		return 0
	}
	elapsed := g.clock.Now().Sub(g.start) % g.period
	return float64(elapsed) / float64(g.period)
}

// Quantize rounds a level to the nearest sample and clamps it to range
func Quantize(level float64) capture.Sample {
	if math.IsNaN(level) {
		return capture.MinSample
	}
	v := math.Round(level)
	if v < float64(capture.MinSample) {
		return capture.MinSample
	}
	if v > float64(capture.MaxSample) {
		return capture.MaxSample
	}
	return capture.Sample(v)
}
