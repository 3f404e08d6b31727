/*
Package labelio loads Scalabel-format frame annotations and converts them
into the engine's per-frame label lists.  It is the annotation-loading
collaborator of the evaluation engine; the engine itself never depends on
it.
*/
package labelio

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	trackeval "github.com/openvideolab/go-trackeval"
)

// Box2D is an axis-aligned box in corner format
type Box2D struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Poly2D is one polygon of a label
type Poly2D struct {
	Vertices [][]float64 `json:"vertices"`
	Types    string      `json:"types"`
	Closed   bool        `json:"closed"`
}

// Attributes holds the label attributes the engine cares about.  Unknown
// attributes are ignored.
type Attributes struct {
	Crowd bool `json:"crowd"`
}

// Label is one annotated object in one frame
type Label struct {
	ID         string     `json:"id"`
	Category   string     `json:"category"`
	Score      *float64   `json:"score,omitempty"`
	Box2D      *Box2D     `json:"box2d,omitempty"`
	Poly2D     []Poly2D   `json:"poly2d,omitempty"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// Frame is one annotated video frame
type Frame struct {
	Name       string  `json:"name"`
	VideoName  string  `json:"videoName"`
	FrameIndex int     `json:"frameIndex"`
	Labels     []Label `json:"labels"`
}

// fileFormat is the optional wrapper object around the frame list
type fileFormat struct {
	Frames []Frame `json:"frames"`
}

// Load reads frames from a Scalabel JSON file.  The file may contain either
// a bare frame array or an object with a "frames" field.
func Load(file string) ([]Frame, error) {

	data, err := os.ReadFile(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	var frames []Frame

	if err := json.Unmarshal(data, &frames); err == nil {
		return frames, nil
	}

	var wrapped fileFormat

	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", file, err)
	}

	return wrapped.Frames, nil
}

// GroupAndSort splits frames by video and orders each group by frame
// index.  Groups are ordered by video name.
func GroupAndSort(frames []Frame) [][]Frame {

	byVideo := make(map[string][]Frame)

	for _, f := range frames {
		byVideo[f.VideoName] = append(byVideo[f.VideoName], f)
	}

	names := make([]string, 0, len(byVideo))
	for name := range byVideo {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([][]Frame, 0, len(names))

	for _, name := range names {
		group := byVideo[name]
		sort.Slice(group, func(i, j int) bool {
			return group[i].FrameIndex < group[j].FrameIndex
		})
		groups = append(groups, group)
	}

	return groups
}

// Instances converts a frame's labels into engine instances
func Instances(f Frame) []trackeval.Instance {

	instances := make([]trackeval.Instance, 0, len(f.Labels))

	for _, label := range f.Labels {

		inst := trackeval.Instance{
			ID:       label.ID,
			Category: label.Category,
			Crowd:    label.Attributes.Crowd,
		}

		if label.Score != nil {
			inst.Score = *label.Score
		}

		if label.Box2D != nil {
			inst.Box = trackeval.Box{
				X1: label.Box2D.X1,
				Y1: label.Box2D.Y1,
				X2: label.Box2D.X2,
				Y2: label.Box2D.Y2,
			}
		}

		// labels may carry multiple polygons; the engine scores a single
		// region, so only single-polygon labels keep their polygon and
		// everything else falls back to the box
		if len(label.Poly2D) == 1 {
			poly := make(trackeval.Polygon, 0, len(label.Poly2D[0].Vertices))
			for _, v := range label.Poly2D[0].Vertices {
				if len(v) < 2 {
					continue
				}
				poly = append(poly, trackeval.Point{X: v[0], Y: v[1]})
			}
			inst.Poly = poly
			if label.Box2D == nil {
				inst.Box = poly.Bounds()
			}
		}

		instances = append(instances, inst)
	}

	return instances
}

// BuildVideos pairs ground-truth and prediction frames by video name and
// produces the engine's input sequences.  A video missing from the
// predictions gets an empty prediction sequence of matching length, so
// every ground-truth instance scores as a miss instead of the video being
// dropped.
func BuildVideos(gtFrames, predFrames []Frame) []trackeval.Video {

	gtGroups := GroupAndSort(gtFrames)
	predGroups := GroupAndSort(predFrames)

	predByName := make(map[string][]Frame, len(predGroups))
	for _, group := range predGroups {
		predByName[group[0].VideoName] = group
	}

	videos := make([]trackeval.Video, 0, len(gtGroups))

	for _, group := range gtGroups {

		video := trackeval.Video{Name: group[0].VideoName}

		for _, f := range group {
			video.GT = append(video.GT, Instances(f))
		}

		preds := predByName[video.Name]

		if preds == nil {
			video.Pred = make([][]trackeval.Instance, len(video.GT))
		} else {
			for _, f := range preds {
				video.Pred = append(video.Pred, Instances(f))
			}
		}

		videos = append(videos, video)
	}

	return videos
}
