// Package segment splits tall content into overlapping fixed-height windows
// for static screenshot export.
package segment

const (
	// Overlap is the number of pixels consecutive segments share.
	Overlap = 100
	// TrivialFraction is the share of the window height below which a final
	// segment is dropped as a near re-show of the previous one.
	TrivialFraction = 0.2
)

// Segment is the vertical window [Start, End) of the content.
type Segment struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

func (s Segment) Height() int {
	return s.End - s.Start
}

// Partition returns the windows covering contentHeight, ordered by Start.
// Windows advance by windowHeight-Overlap; when the window is not taller than
// the overlap they advance by a full window instead.
func Partition(contentHeight, windowHeight int) []Segment {
	if contentHeight <= 0 || windowHeight <= 0 {
		return nil
	}

	step := windowHeight - Overlap
	if step <= 0 {
		step = windowHeight
	}

	var segments []Segment
	for y := 0; ; y += step {
		end := y + windowHeight
		if end > contentHeight {
			end = contentHeight
		}

		if end == contentHeight && len(segments) > 0 {
			remaining := contentHeight - y
			if float64(remaining) < TrivialFraction*float64(windowHeight) {
				break
			}
		}

		segments = append(segments, Segment{Start: y, End: end})
		if end == contentHeight {
			break
		}
	}
	return segments
}
