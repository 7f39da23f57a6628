package motion

import (
	"math"

	"github.com/fogleman/ease"
)

// SwipeSequencer imitates a person flicking through a page: eased swipes of
// varying length separated by short pauses. Steps are used cyclically.
type SwipeSequencer struct {
	Steps []SwipeStep
}

// Stroke is one planned swipe.
type Stroke struct {
	Start    int
	Distance float64
	Frames   int
	Pause    int // frames held at Start+Distance afterwards, 0 for the last stroke
}

// Plan lays out the strokes needed to cover scrollable pixels. The rounded
// distances of all strokes add up to exactly scrollable.
func (s *SwipeSequencer) Plan(scrollable, viewportHeight int) []Stroke {
	if scrollable <= 0 || len(s.Steps) == 0 {
		return nil
	}

	var strokes []Stroke
	current := 0
	for i := 0; current < scrollable; i++ {
		step := s.Steps[i%len(s.Steps)]

		remaining := float64(scrollable - current)
		distance := math.Min(float64(viewportHeight)*step.DistanceFactor, remaining)
		if distance < 1 {
			distance = math.Min(1, remaining)
		}

		frames := step.SwipeFrames
		if frames < 2 {
			frames = 2
		}

		stroke := Stroke{Start: current, Distance: distance, Frames: frames}
		current += int(math.Round(distance))
		if current > scrollable {
			current = scrollable
		}
		if current < scrollable {
			stroke.Pause = step.PauseFrames
		}
		strokes = append(strokes, stroke)
	}
	return strokes
}

func (s *SwipeSequencer) Offsets(scrollable, viewportHeight int) []int {
	if scrollable <= 0 {
		return staticOffsets()
	}

	offsets := hold(nil, 0, PauseFrames)
	for _, st := range s.Plan(scrollable, viewportHeight) {
		end := st.Start
		for i := 0; i < st.Frames; i++ {
			t := float64(i) / float64(st.Frames-1)
			y := int(math.Round(float64(st.Start) + st.Distance*ease.InOutCubic(t)))
			if y > scrollable {
				y = scrollable
			}
			offsets = append(offsets, y)
			end = y
		}
		offsets = hold(offsets, end, st.Pause)
	}
	return hold(offsets, scrollable, PauseFrames)
}
