// Package plan stores the computed motion and segmentation of each input as
// YAML, so a run can be reviewed or edited before frames are rendered.
package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/mockup-scroller/internal/motion"
	"github.com/ivlev/mockup-scroller/internal/segment"
)

const Version = "1.0"

// Plan covers every input of a run.
type Plan struct {
	Version string  `yaml:"version"`
	FPS     int     `yaml:"fps"`
	Speed   string  `yaml:"speed"`
	Model   string  `yaml:"model"`
	Entries []Entry `yaml:"entries"`
}

// Entry is the plan for one input. Input is the output base name.
type Entry struct {
	Input          string            `yaml:"input"`
	ContentHeight  int               `yaml:"content_height"`
	ViewportHeight int               `yaml:"viewport_height"`
	Scrollable     int               `yaml:"scrollable"`
	Duration       float64           `yaml:"duration"` // seconds
	Offsets        []int             `yaml:"offsets,flow"`
	Framed         []segment.Segment `yaml:"framed,omitempty"`
	Screen         []segment.Segment `yaml:"screen,omitempty"`
}

func New(speed, model string) *Plan {
	return &Plan{Version: Version, FPS: motion.FPS, Speed: speed, Model: model}
}

// Build computes the entry for content of the given height. Segments are
// only computed when screenWindow is positive.
func Build(input string, contentHeight, viewportHeight, screenWindow int, seq motion.Sequencer) Entry {
	scrollable := max(0, contentHeight-viewportHeight)
	offsets := seq.Offsets(scrollable, viewportHeight)

	e := Entry{
		Input:          input,
		ContentHeight:  contentHeight,
		ViewportHeight: viewportHeight,
		Scrollable:     scrollable,
		Duration:       float64(len(offsets)) / motion.FPS,
		Offsets:        offsets,
	}
	if screenWindow > 0 {
		e.Framed = segment.Partition(contentHeight, viewportHeight)
		e.Screen = segment.Partition(contentHeight, screenWindow)
	}
	return e
}

// Add appends e, replacing an existing entry for the same input.
func (p *Plan) Add(e Entry) {
	for i := range p.Entries {
		if p.Entries[i].Input == e.Input {
			p.Entries[i] = e
			return
		}
	}
	p.Entries = append(p.Entries, e)
}

func (p *Plan) Lookup(input string) (Entry, bool) {
	for _, e := range p.Entries {
		if e.Input == input {
			return e, true
		}
	}
	return Entry{}, false
}

// ClampedOffsets returns the stored offsets limited to the scrollable range
// of the actual content, which may differ from when the plan was written.
func (e Entry) ClampedOffsets(scrollable int) []int {
	scrollable = max(0, scrollable)
	out := make([]int, len(e.Offsets))
	for i, y := range e.Offsets {
		out[i] = min(max(y, 0), scrollable)
	}
	return out
}

// Write writes the plan to a YAML file.
func Write(p *Plan, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Read reads a plan from a YAML file.
func Read(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}
	if p.Version != Version {
		return nil, fmt.Errorf("plan %s: unsupported version %q", path, p.Version)
	}
	for _, e := range p.Entries {
		if len(e.Offsets) == 0 {
			return nil, fmt.Errorf("plan %s: entry %q has no offsets", path, e.Input)
		}
	}
	return &p, nil
}
