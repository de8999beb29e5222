package detection

import (
	"fmt"
	"image"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/textmask/internal/contour"
	"github.com/ironsheep/textmask/internal/logging"
)

// Traversal selects how relation walks treat contour index 0.
type Traversal int

const (
	// TraversalStrict follows every present relation, index 0 included.
	TraversalStrict Traversal = iota

	// TraversalCompat stops sibling and ancestor walks on index 0, the way
	// an "index > 0" loop over an OpenCV hierarchy does. First-child lookups
	// still accept 0.
	TraversalCompat
)

// DefaultMaxDepth bounds how deep CountChildren descends below its start.
const DefaultMaxDepth = 256

// String returns the configuration name of t.
func (t Traversal) String() string {
	switch t {
	case TraversalStrict:
		return "strict"
	case TraversalCompat:
		return "compat"
	default:
		return fmt.Sprintf("Traversal(%d)", int(t))
	}
}

// ParseTraversal parses "strict" or "compat". The empty string is strict.
func ParseTraversal(s string) (Traversal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return TraversalStrict, nil
	case "compat":
		return TraversalCompat, nil
	default:
		return TraversalStrict, fmt.Errorf("unknown traversal %q (want strict or compat)", s)
	}
}

// Options tunes hierarchy traversal for CountChildren and SelectRegions.
// The zero value is strict traversal, DefaultMaxDepth and no logging.
type Options struct {
	Traversal Traversal
	MaxDepth  int
	Logger    *zerolog.Logger
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// walker evaluates the forest under one set of options and remembers
// predicate results, which ancestor and descendant walks ask for repeatedly.
type walker struct {
	forest *contour.Forest
	size   image.Point
	opts   Options
	log    *zerolog.Logger
	kept   []int8 // 0 unknown, 1 kept, -1 rejected
}

func newWalker(f *contour.Forest, size image.Point, opts Options) *walker {
	return &walker{
		forest: f,
		size:   size,
		opts:   opts,
		log:    logging.OrNop(opts.Logger),
		kept:   make([]int8, f.Len()),
	}
}

func (w *walker) keep(i int) bool {
	switch w.kept[i] {
	case 1:
		return true
	case -1:
		return false
	}
	ok := Keep(w.forest.Points(i), w.size)
	if ok {
		w.kept[i] = 1
	} else {
		w.kept[i] = -1
	}
	return ok
}

// link filters a relation lookup through the traversal policy.
func (w *walker) link(idx int, ok bool) (int, bool) {
	if !ok || (w.opts.Traversal == TraversalCompat && idx == 0) {
		return 0, false
	}
	return idx, true
}

func (w *walker) parent(i int) (int, bool) {
	return w.link(w.forest.Parent(i))
}

// siblings returns child followed by its next chain and then its prev chain.
// Each chain is cut after forest-size steps so a malformed link loop cannot
// spin forever.
func (w *walker) siblings(child int) []int {
	members := []int{child}
	limit := w.forest.Len()

	for n, ok := w.link(w.forest.NextSibling(child)); ok && limit > 0; n, ok = w.link(w.forest.NextSibling(n)) {
		members = append(members, n)
		limit--
	}
	limit = w.forest.Len()
	for p, ok := w.link(w.forest.PrevSibling(child)); ok && limit > 0; p, ok = w.link(w.forest.PrevSibling(p)) {
		members = append(members, p)
		limit--
	}
	return members
}

type frame struct {
	index int
	depth int
}

// countChildren counts kept contours in the subtree under index's first
// child, that child's siblings in both directions, and all of their
// descendants.
func (w *walker) countChildren(index int) int {
	maxDepth := w.opts.maxDepth()
	count := 0
	truncated := false

	stack := []frame{{index: index}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		child, ok := w.forest.FirstChild(top.index)
		if !ok {
			continue
		}
		if top.depth >= maxDepth {
			truncated = true
			continue
		}

		for _, m := range w.siblings(child) {
			if w.keep(m) {
				count++
			}
			stack = append(stack, frame{index: m, depth: top.depth + 1})
		}
	}

	if truncated {
		w.log.Debug().
			Int("index", index).
			Int("max_depth", maxDepth).
			Msg("descendant count stopped at depth limit")
	}
	return count
}

// CountChildren returns how many contours below index pass Keep: index's
// first child, the siblings reachable from it in both directions, and,
// recursively, the same set under each of those. A contour with no children
// counts 0.
func CountChildren(f *contour.Forest, index int, size image.Point, opts Options) int {
	if f.Len() == 0 || index < 0 || index >= f.Len() {
		return 0
	}
	return newWalker(f, size, opts).countChildren(index)
}
