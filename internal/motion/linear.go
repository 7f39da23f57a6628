package motion

import "math"

// LinearSequencer scrolls at a constant number of pixels per frame. When
// Bounded is false the tier maximum is ignored, so long pages keep the same
// on-screen speed and simply take longer.
type LinearSequencer struct {
	Tier    Tier
	Bounded bool
}

// FrameCount returns the total number of frames, pauses included.
func FrameCount(scrollable int, tier Tier, bounded bool) int {
	if scrollable <= 0 {
		return StaticFrames
	}
	return scrollFrames(scrollable, tier, bounded) + 2*PauseFrames
}

func scrollFrames(scrollable int, tier Tier, bounded bool) int {
	ppf := tier.TargetPPF
	if ppf <= 0 {
		ppf = 1
	}
	frames := int(math.Ceil(float64(scrollable)/ppf)) + 1

	if bounded {
		if limit := tier.MaxFrames - 2*PauseFrames; frames > limit {
			frames = limit
		}
	}
	if floor := tier.MinFrames - 2*PauseFrames; frames < floor {
		frames = floor
	}
	// the linear ramp needs two points to reach the bottom
	if frames < 2 {
		frames = 2
	}
	return frames
}

func (s *LinearSequencer) Offsets(scrollable, viewportHeight int) []int {
	if scrollable <= 0 {
		return staticOffsets()
	}

	n := scrollFrames(scrollable, s.Tier, s.Bounded)
	offsets := make([]int, 0, n+2*PauseFrames)
	offsets = hold(offsets, 0, PauseFrames)
	for i := 0; i < n; i++ {
		progress := float64(i) / float64(n-1)
		offsets = append(offsets, int(math.Round(progress*float64(scrollable))))
	}
	return hold(offsets, scrollable, PauseFrames)
}
