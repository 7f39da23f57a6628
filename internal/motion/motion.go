// Package motion computes the per-frame vertical scroll offsets of a
// device-framed scrolling animation.
package motion

import "fmt"

const (
	// FPS is the fixed frame rate of every generated animation.
	FPS = 30
	// PauseFrames are held at the top before motion and at the bottom after it.
	PauseFrames = 30
	// StaticFrames is the length of the sequence for content that does not scroll (6s).
	StaticFrames = 180
)

// Model names a motion model.
type Model string

const (
	Linear    Model = "linear"    // constant speed, duration clamped to the tier bounds
	Unbounded Model = "unbounded" // constant speed, only a minimum duration
	Swipe     Model = "swipe"     // discrete eased swipes with pauses between them
)

// Sequencer produces the offset of every animation frame. The result always
// starts at 0, ends at scrollable and never leaves [0, scrollable].
type Sequencer interface {
	Offsets(scrollable, viewportHeight int) []int
}

// Tier is a speed preset for the constant-speed models. MinFrames and
// MaxFrames bound the total frame count, pauses included.
type Tier struct {
	TargetPPF float64 `yaml:"target_ppf"`
	MinFrames int     `yaml:"min_frames"`
	MaxFrames int     `yaml:"max_frames"`
}

// Tiers are the built-in speed presets.
var Tiers = map[string]Tier{
	"slow":   {TargetPPF: 15, MinFrames: 180, MaxFrames: 360},
	"normal": {TargetPPF: 21.5, MinFrames: 150, MaxFrames: 270},
	"fast":   {TargetPPF: 30, MinFrames: 90, MaxFrames: 180},
}

// SwipeStep describes one gesture of the swipe model: the distance as a
// fraction of the viewport height, the frames the swipe takes and the frames
// held afterwards.
type SwipeStep struct {
	DistanceFactor float64 `yaml:"distance_factor"`
	SwipeFrames    int     `yaml:"swipe_frames"`
	PauseFrames    int     `yaml:"pause_frames"`
}

// DefaultSwipes is the cyclic gesture pattern used when none is configured.
var DefaultSwipes = []SwipeStep{
	{DistanceFactor: 0.8, SwipeFrames: 18, PauseFrames: 20},
	{DistanceFactor: 0.6, SwipeFrames: 15, PauseFrames: 24},
	{DistanceFactor: 0.9, SwipeFrames: 21, PauseFrames: 16},
	{DistanceFactor: 0.7, SwipeFrames: 16, PauseFrames: 22},
}

// New creates the sequencer for the given model.
func New(model string, tier Tier, swipes []SwipeStep) (Sequencer, error) {
	switch Model(model) {
	case Linear, "":
		return &LinearSequencer{Tier: tier, Bounded: true}, nil
	case Unbounded:
		return &LinearSequencer{Tier: tier, Bounded: false}, nil
	case Swipe:
		if len(swipes) == 0 {
			swipes = DefaultSwipes
		}
		return &SwipeSequencer{Steps: swipes}, nil
	default:
		return nil, fmt.Errorf("unknown motion model: %s", model)
	}
}

func staticOffsets() []int {
	return make([]int, StaticFrames)
}

func hold(offsets []int, y, n int) []int {
	for i := 0; i < n; i++ {
		offsets = append(offsets, y)
	}
	return offsets
}
