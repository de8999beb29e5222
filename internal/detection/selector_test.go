package detection

import (
	"bytes"
	"image"
	"math/rand"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ironsheep/textmask/internal/contour"
)

func indices(regions []Region) []int {
	out := make([]int, len(regions))
	for i, r := range regions {
		out[i] = r.Index
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSelectRegions(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *contour.Builder)
		opts  Options
		want  []int
	}{
		{
			name:  "single glyph",
			build: func(b *contour.Builder) { b.AddRoot(box(20, 20, 10, 14)) },
			want:  []int{0},
		},
		{
			name: "glyph with counter",
			build: func(b *contour.Builder) {
				r := b.AddRoot(box(20, 20, 10, 14))
				b.AddChild(r, box(22, 22, 6, 10))
			},
			want: []int{0, 1},
		},
		{
			name: "cluttered outline",
			build: func(b *contour.Builder) {
				r := b.AddRoot(box(0, 0, 80, 80))
				b.AddChild(r, box(10, 10, 10, 10))
				b.AddChild(r, box(30, 10, 10, 10))
				b.AddChild(r, box(50, 10, 10, 10))
			},
			want: []int{1, 2, 3},
		},
		{
			name: "inside rejected outline",
			build: func(b *contour.Builder) {
				r := b.AddRoot(bigBox())
				b.AddChild(r, box(10, 10, 10, 10))
			},
			want: []int{},
		},
		{
			name: "inside rejected outline at index zero, compat",
			build: func(b *contour.Builder) {
				r := b.AddRoot(bigBox())
				b.AddChild(r, box(10, 10, 10, 10))
			},
			opts: Options{Traversal: TraversalCompat},
			want: []int{1},
		},
		{
			name: "open and tiny contours",
			build: func(b *contour.Builder) {
				b.AddRoot(openLine(10, 10, 10, 10))
				b.AddRoot(box(40, 40, 2, 2))
				b.AddRoot(box(60, 60, 10, 10))
			},
			want: []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := contour.NewBuilder()
			tt.build(b)

			got := SelectRegions(b.Forest(), canvas, tt.opts)
			if !equalInts(indices(got), tt.want) {
				t.Errorf("accepted %v, want %v", indices(got), tt.want)
			}
		})
	}
}

func TestSelectRegions_RegionFields(t *testing.T) {
	b := contour.NewBuilder()
	r := b.AddRoot(box(20, 20, 10, 14))
	b.AddChild(r, box(22, 22, 6, 10))

	regions := SelectRegions(b.Forest(), canvas, Options{})
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	if regions[0].Box != image.Rect(20, 20, 30, 34) {
		t.Errorf("box: got %v", regions[0].Box)
	}
	if regions[0].NumChildren != 1 {
		t.Errorf("NumChildren: got %d, want 1", regions[0].NumChildren)
	}
	if len(regions[0].Points) != 5 {
		t.Errorf("points: got %d, want 5", len(regions[0].Points))
	}
	if got := Boxes(regions); len(got) != 2 || got[1] != image.Rect(22, 22, 28, 32) {
		t.Errorf("Boxes: got %v", got)
	}
}

func TestSelectRegions_Empty(t *testing.T) {
	regions := SelectRegions(contour.NewBuilder().Forest(), canvas, Options{})
	if regions == nil || len(regions) != 0 {
		t.Errorf("expected an empty, non-nil slice, got %#v", regions)
	}
}

func TestEvaluate(t *testing.T) {
	b := contour.NewBuilder()
	r := b.AddRoot(bigBox())
	c, _ := b.AddChild(r, box(10, 10, 10, 10))
	b.AddChild(c, box(12, 12, 5, 5))

	decisions := Evaluate(b.Forest(), canvas, Options{})
	if len(decisions) != 3 {
		t.Fatalf("expected a decision per contour, got %d", len(decisions))
	}

	tests := []struct {
		index       int
		kept        bool
		ancestor    int
		numChildren int
	}{
		{0, false, contour.NoLink, 2},
		{1, true, 0, 1},
		{2, true, 0, 0},
	}
	for _, tt := range tests {
		d := decisions[tt.index]
		if d.Index != tt.index || d.Kept != tt.kept || d.Ancestor != tt.ancestor || d.NumChildren != tt.numChildren {
			t.Errorf("decision %d: got %+v, want kept=%v ancestor=%d children=%d",
				tt.index, d, tt.kept, tt.ancestor, tt.numChildren)
		}
		if d.Accepted {
			t.Errorf("decision %d should be rejected", tt.index)
		}
	}
	if decisions[1].Bounds != (Bounds{X1: 10, Y1: 10, X2: 20, Y2: 20}) {
		t.Errorf("bounds: got %+v", decisions[1].Bounds)
	}
}

func TestSelectRegions_NeverAcceptsRejectedContour(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		b := contour.NewBuilder()
		var added []int
		for i := 0; i < 30; i++ {
			var pts contour.Contour
			switch rng.Intn(4) {
			case 0:
				pts = openLine(rng.Intn(150), rng.Intn(150), 2+rng.Intn(40), 2+rng.Intn(40))
			case 1:
				pts = box(rng.Intn(100), rng.Intn(100), 50+rng.Intn(100), 50+rng.Intn(100))
			default:
				pts = box(rng.Intn(150), rng.Intn(150), 1+rng.Intn(30), 1+rng.Intn(30))
			}
			if len(added) == 0 || rng.Intn(3) == 0 {
				added = append(added, b.AddRoot(pts))
				continue
			}
			idx, err := b.AddChild(added[rng.Intn(len(added))], pts)
			if err != nil {
				t.Fatalf("AddChild: %v", err)
			}
			added = append(added, idx)
		}

		for _, r := range SelectRegions(b.Forest(), canvas, Options{}) {
			if !Keep(r.Points, canvas) {
				t.Fatalf("trial %d: accepted contour %d fails Keep", trial, r.Index)
			}
			if r.NumChildren > MaxChildren {
				t.Fatalf("trial %d: accepted contour %d has %d kept children", trial, r.Index, r.NumChildren)
			}
		}
	}
}

func TestEvaluate_Logs(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	b := contour.NewBuilder()
	b.AddRoot(box(20, 20, 10, 14))
	b.AddRoot(box(40, 40, 2, 2))
	Evaluate(b.Forest(), canvas, Options{Logger: &log})

	out := buf.String()
	if !strings.Contains(out, "region accepted") || !strings.Contains(out, "region rejected") {
		t.Errorf("expected accept and reject lines, got %q", out)
	}
	if !strings.Contains(out, `"num_children":0`) {
		t.Errorf("expected num_children field, got %q", out)
	}
}
