package trackeval

import (
	"math"

	clipper "github.com/ctessum/go.clipper"
)

// clipperScale converts float coordinates to the integer grid used by the
// polygon clipping library.  Three decimal places of box precision is well
// below the overlap epsilon used anywhere in the engine.
const clipperScale = 1000.0

// Point is a single 2D vertex.
type Point struct {
	X float64
	Y float64
}

// Box is an axis-aligned bounding region in (x1, y1, x2, y2) corner format.
type Box struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// Width returns the width of the box
func (b Box) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the height of the box
func (b Box) Height() float64 {
	return b.Y2 - b.Y1
}

// Area returns the area of the box, or 0 for a degenerate box
func (b Box) Area() float64 {
	if b.Empty() {
		return 0
	}
	return b.Width() * b.Height()
}

// Empty reports whether the box has no interior.  Degenerate regions are
// unmatchable but never a fatal input error.
func (b Box) Empty() bool {
	return b.X2 <= b.X1 || b.Y2 <= b.Y1
}

// Intersect returns the intersection area with another box
func (b Box) Intersect(o Box) float64 {
	iw := math.Min(b.X2, o.X2) - math.Max(b.X1, o.X1)
	if iw <= 0 {
		return 0
	}
	ih := math.Min(b.Y2, o.Y2) - math.Max(b.Y1, o.Y1)
	if ih <= 0 {
		return 0
	}
	return iw * ih
}

// IoU returns the intersection over union with another box, in [0, 1].
// Degenerate boxes always yield 0.
func (b Box) IoU(o Box) float64 {
	if b.Empty() || o.Empty() {
		return 0
	}
	inter := b.Intersect(o)
	if inter <= 0 {
		return 0
	}
	return inter / (b.Area() + o.Area() - inter)
}

// IoF returns the intersection area over the area of this box.  It is the
// measure used to decide whether a predicted instance falls inside an
// ignored crowd region.
func (b Box) IoF(o Box) float64 {
	if b.Empty() {
		return 0
	}
	return b.Intersect(o) / b.Area()
}

// Polygon is a closed region described by its vertices in order
type Polygon []Point

// Bounds returns the axis-aligned bounding box of the polygon
func (p Polygon) Bounds() Box {
	if len(p) == 0 {
		return Box{}
	}
	b := Box{X1: p[0].X, Y1: p[0].Y, X2: p[0].X, Y2: p[0].Y}
	for _, pt := range p[1:] {
		b.X1 = math.Min(b.X1, pt.X)
		b.Y1 = math.Min(b.Y1, pt.Y)
		b.X2 = math.Max(b.X2, pt.X)
		b.Y2 = math.Max(b.Y2, pt.Y)
	}
	return b
}

// Area returns the polygon area using the shoelace formula
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i, pt := range p {
		next := p[(i+1)%len(p)]
		sum += pt.X*next.Y - next.X*pt.Y
	}
	return math.Abs(sum) / 2
}

// toClipperPath converts the polygon onto the integer clipping grid
func (p Polygon) toClipperPath() clipper.Path {
	path := make(clipper.Path, 0, len(p))
	for _, pt := range p {
		path = append(path, &clipper.IntPoint{
			X: clipper.CInt(math.Round(pt.X * clipperScale)),
			Y: clipper.CInt(math.Round(pt.Y * clipperScale)),
		})
	}
	return path
}

// clipperPathsArea sums the shoelace areas of clipped solution paths and
// converts back to input units
func clipperPathsArea(paths clipper.Paths) float64 {
	var sum float64
	for _, path := range paths {
		var area float64
		for i, pt := range path {
			next := path[(i+1)%len(path)]
			area += float64(pt.X)*float64(next.Y) - float64(next.X)*float64(pt.Y)
		}
		sum += math.Abs(area) / 2
	}
	return sum / (clipperScale * clipperScale)
}

// IoU returns the intersection over union with another polygon, in [0, 1].
// Polygons with fewer than 3 vertices are degenerate and yield 0.
func (p Polygon) IoU(o Polygon) float64 {
	if len(p) < 3 || len(o) < 3 {
		return 0
	}

	c := clipper.NewClipper(clipper.IoNone)
	c.AddPath(p.toClipperPath(), clipper.PtSubject, true)
	c.AddPath(o.toClipperPath(), clipper.PtClip, true)

	solution, ok := c.Execute1(clipper.CtIntersection, clipper.PftEvenOdd,
		clipper.PftEvenOdd)

	if !ok || len(solution) == 0 {
		return 0
	}

	inter := clipperPathsArea(solution)
	union := p.Area() + o.Area() - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}
