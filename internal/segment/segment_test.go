package segment

import (
	"reflect"
	"testing"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name          string
		contentHeight int
		windowHeight  int
		want          []Segment
	}{
		{"empty", 0, 1334, nil},
		{"negative", -10, 1334, nil},
		{"zero window", 1000, 0, nil},
		{"shorter than window", 900, 1334, []Segment{{0, 900}}},
		{"exact window", 1334, 1334, []Segment{{0, 1334}}},
		{"trivial tail dropped", 1401, 1334, []Segment{{0, 1334}}},
		{"two windows", 2000, 1334, []Segment{{0, 1334}, {1234, 2000}}},
		{"tiny window without overlap", 250, 100, []Segment{{0, 100}, {100, 200}, {200, 250}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.contentHeight, tt.windowHeight)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Partition(%d, %d) = %v, want %v", tt.contentHeight, tt.windowHeight, got, tt.want)
			}
		})
	}
}

func TestPartitionProperties(t *testing.T) {
	for _, window := range []int{150, 500, 1334, 1600} {
		for content := 1; content <= 9000; content += 37 {
			segs := Partition(content, window)
			if len(segs) == 0 {
				t.Fatalf("Partition(%d, %d): no segments", content, window)
			}
			for i, s := range segs {
				if s.Start < 0 || s.Start >= s.End || s.End > content {
					t.Fatalf("Partition(%d, %d): bad segment %d %v", content, window, i, s)
				}
				if s.Height() > window {
					t.Fatalf("Partition(%d, %d): segment %d taller than window", content, window, i)
				}
				if i > 0 {
					prev := segs[i-1]
					if s.Start <= prev.Start || s.Start > prev.End {
						t.Fatalf("Partition(%d, %d): segment %d %v leaves a gap after %v", content, window, i, s, prev)
					}
				}
			}

			last := segs[len(segs)-1]
			if last.End != content {
				// the tail was dropped as trivial
				tail := content - (last.Start + window - Overlap)
				if float64(tail) >= TrivialFraction*float64(window) {
					t.Fatalf("Partition(%d, %d): tail of %d px dropped", content, window, tail)
				}
			}
		}
	}
}

func TestPartitionTrivialTail(t *testing.T) {
	window := 1334
	content := int(float64(window) * 1.05)
	if got := len(Partition(content, window)); got != 1 {
		t.Errorf("Expected 1 segment for %d px, got %d", content, got)
	}
}

func TestPartitionTallPage(t *testing.T) {
	segs := Partition(6000, 1334)
	// ceil((6000-1334)/(1334-100)) windows after the first
	if len(segs) != 5 {
		t.Fatalf("Expected 5 segments, got %d: %v", len(segs), segs)
	}
	if segs[len(segs)-1].End != 6000 {
		t.Errorf("Expected last segment to end at 6000, got %d", segs[len(segs)-1].End)
	}
}

func TestPartitionDeterministic(t *testing.T) {
	a := Partition(3000, 1334)
	b := Partition(3000, 1334)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Expected identical results, got %v and %v", a, b)
	}
}
