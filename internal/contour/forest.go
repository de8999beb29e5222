package contour

import (
	"errors"
	"fmt"
	"image"
)

// ErrBadLink is returned by NewForest when a relation points outside the
// forest or a contour is linked to itself.
var ErrBadLink = errors.New("contour: relation index out of range")

// NoLink marks an absent relation in Links.
const NoLink = -1

// Contour is an ordered sequence of border points. A closed contour has its
// first and last point within one pixel of each other.
type Contour []image.Point

// Links is the raw hierarchy record for one contour, in the same shape as an
// OpenCV hierarchy entry. Absent relations are NoLink.
type Links struct {
	Next   int
	Prev   int
	Child  int
	Parent int
}

type node struct {
	points Contour
	links  Links
}

// Forest owns a set of contours and their containment relations. It is
// immutable once built and safe for concurrent reads.
type Forest struct {
	nodes []node
}

// NewForest builds a forest from parallel slices of contours and links.
func NewForest(contours []Contour, links []Links) (*Forest, error) {
	if len(contours) != len(links) {
		return nil, fmt.Errorf("contour: %d contours but %d hierarchy entries", len(contours), len(links))
	}

	n := len(contours)
	nodes := make([]node, n)
	for i := range contours {
		l := links[i]
		for _, idx := range []int{l.Next, l.Prev, l.Child, l.Parent} {
			if idx == i || idx < NoLink || idx >= n {
				return nil, fmt.Errorf("%w: contour %d links to %d (forest size %d)", ErrBadLink, i, idx, n)
			}
		}
		nodes[i] = node{points: contours[i], links: l}
	}
	return &Forest{nodes: nodes}, nil
}

// Len returns the number of contours in the forest.
func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return len(f.nodes)
}

// Points returns the points of contour i. The slice must not be modified.
func (f *Forest) Points(i int) Contour {
	return f.nodes[i].points
}

// Links returns the raw hierarchy record of contour i.
func (f *Forest) Links(i int) Links {
	return f.nodes[i].links
}

// Parent returns the contour enclosing contour i.
func (f *Forest) Parent(i int) (int, bool) {
	return present(f.nodes[i].links.Parent)
}

// FirstChild returns the first contour directly enclosed by contour i.
func (f *Forest) FirstChild(i int) (int, bool) {
	return present(f.nodes[i].links.Child)
}

// NextSibling returns the next contour sharing contour i's parent.
func (f *Forest) NextSibling(i int) (int, bool) {
	return present(f.nodes[i].links.Next)
}

// PrevSibling returns the previous contour sharing contour i's parent.
func (f *Forest) PrevSibling(i int) (int, bool) {
	return present(f.nodes[i].links.Prev)
}

func present(idx int) (int, bool) {
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// BoundingBox returns the smallest rectangle containing every point of c.
// An empty contour has the zero rectangle.
func BoundingBox(c Contour) image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := minX, minY
	for _, p := range c[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Builder assembles a Forest one contour at a time, linking each new contour
// as the last child of its parent (or the last top-level contour).
type Builder struct {
	contours  []Contour
	links     []Links
	lastChild []int
	lastRoot  int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{lastRoot: NoLink}
}

// AddRoot appends a top-level contour and returns its index.
func (b *Builder) AddRoot(points Contour) int {
	return b.add(points, NoLink)
}

// AddChild appends a contour enclosed by parent and returns its index.
// parent must be an index previously returned by the builder.
func (b *Builder) AddChild(parent int, points Contour) (int, error) {
	if parent < 0 || parent >= len(b.contours) {
		return 0, fmt.Errorf("%w: unknown parent %d", ErrBadLink, parent)
	}
	return b.add(points, parent), nil
}

func (b *Builder) add(points Contour, parent int) int {
	idx := len(b.contours)
	l := Links{Next: NoLink, Prev: NoLink, Child: NoLink, Parent: parent}

	var prev int
	if parent == NoLink {
		prev = b.lastRoot
		b.lastRoot = idx
	} else {
		prev = b.lastChild[parent]
		b.lastChild[parent] = idx
		if b.links[parent].Child == NoLink {
			b.links[parent].Child = idx
		}
	}
	if prev != NoLink {
		b.links[prev].Next = idx
		l.Prev = prev
	}

	b.contours = append(b.contours, points)
	b.links = append(b.links, l)
	b.lastChild = append(b.lastChild, NoLink)
	return idx
}

// Forest returns the assembled forest. The builder may keep being used; later
// additions do not affect forests already returned.
func (b *Builder) Forest() *Forest {
	nodes := make([]node, len(b.contours))
	for i := range b.contours {
		nodes[i] = node{points: b.contours[i], links: b.links[i]}
	}
	return &Forest{nodes: nodes}
}
