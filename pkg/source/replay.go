package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/wavecap/pkg/capture"
)

// Replay plays back a recorded sample sequence, then holds the last value
type Replay struct {
	samples []capture.Sample
	next    int
}

// NewReplay creates a replay source over samples
func NewReplay(samples []capture.Sample) *Replay {
	return &Replay{samples: samples}
}

func (r *Replay) Read() capture.Sample {
	if len(r.samples) == 0 {
		return capture.MinSample
	}
	if r.next >= len(r.samples) {
		return r.samples[len(r.samples)-1]
	}
	v := r.samples[r.next]
	r.next++
	return v
}

// Remaining returns how many recorded samples have not been read yet
func (r *Replay) Remaining() int {
	return len(r.samples) - r.next
}

type sampleFile struct {
	Samples []capture.Sample `yaml:"samples"`
}

// LoadSamples reads a YAML or JSON file holding either a top level list of
// samples or a mapping with a "samples" list.
func LoadSamples(filePath string) ([]capture.Sample, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse sample file: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("sample file %s is empty", filePath)
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var samples []capture.Sample
		if err := root.Decode(&samples); err != nil {
			return nil, fmt.Errorf("failed to decode sample list: %w", err)
		}
		return samples, nil
	case yaml.MappingNode:
		var file sampleFile
		if err := root.Decode(&file); err != nil {
			return nil, fmt.Errorf("failed to decode sample file: %w", err)
		}
		return file.Samples, nil
	default:
		return nil, fmt.Errorf("sample file %s must contain a list or a samples mapping", filePath)
	}
}
