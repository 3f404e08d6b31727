package trackeval

import (
	"fmt"
	"sort"
)

// Instance is one labeled object in one frame.  The ID is unique within its
// source (ground truth or prediction) but not across sources.
type Instance struct {
	// Track identity within the source sequence
	ID string
	// Category label
	Category string
	// Axis-aligned bounding region
	Box Box
	// Optional polygon region.  When both sides of a pair carry a polygon
	// the matcher scores overlap on the polygons instead of the boxes.
	Poly Polygon
	// Detection confidence, predictions only
	Score float64
	// Crowd marks an ignored region.  A crowd instance contributes to
	// neither misses nor false positives and consumes predictions that
	// fall inside it.
	Crowd bool
}

// Video holds the two parallel frame sequences for one video.  GT[i] and
// Pred[i] are the label sets at frame index i.
type Video struct {
	Name string
	GT   [][]Instance
	Pred [][]Instance
}

// SequenceError reports ground-truth and prediction sequences of unequal
// length for a video.  It is fatal to every evaluation unit of that video.
type SequenceError struct {
	Video      string
	GTFrames   int
	PredFrames int
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("video %s: ground truth has %d frames but prediction has %d",
		e.Video, e.GTFrames, e.PredFrames)
}

// filterCategory returns the instances of one category sorted by identity.
// Sorting fixes the matrix construction order so assignment ties always
// break the same way.
func filterCategory(instances []Instance, category string) []Instance {
	var out []Instance
	for _, inst := range instances {
		if inst.Category == category {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
