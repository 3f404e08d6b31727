package labelio

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleFrames = `[
  {
    "name": "b1-2.jpg",
    "videoName": "b1",
    "frameIndex": 1,
    "labels": [
      {
        "id": "7",
        "category": "car",
        "box2d": {"x1": 10, "y1": 20, "x2": 110, "y2": 220}
      }
    ]
  },
  {
    "name": "b1-1.jpg",
    "videoName": "b1",
    "frameIndex": 0,
    "labels": [
      {
        "id": "7",
        "category": "car",
        "box2d": {"x1": 0, "y1": 0, "x2": 100, "y2": 200},
        "attributes": {"crowd": false}
      },
      {
        "id": "9",
        "category": "pedestrian",
        "box2d": {"x1": 300, "y1": 300, "x2": 400, "y2": 400},
        "attributes": {"crowd": true}
      }
    ]
  },
  {
    "name": "a1-1.jpg",
    "videoName": "a1",
    "frameIndex": 0,
    "labels": []
  }
]`

func writeSample(t *testing.T, content string) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "frames.json")

	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("error writing sample: %v", err)
	}

	return file
}

func TestLoad(t *testing.T) {

	frames, err := Load(writeSample(t, sampleFrames))

	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}

	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}

	if frames[0].VideoName != "b1" || frames[0].FrameIndex != 1 {
		t.Errorf("unexpected first frame: %+v", frames[0])
	}
}

func TestLoadWrapped(t *testing.T) {

	frames, err := Load(writeSample(t, `{"frames": `+sampleFrames+`}`))

	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}

	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
}

func TestGroupAndSort(t *testing.T) {

	frames, err := Load(writeSample(t, sampleFrames))

	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}

	groups := GroupAndSort(frames)

	if len(groups) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(groups))
	}

	// groups ordered by video name, frames by index
	if groups[0][0].VideoName != "a1" {
		t.Errorf("expected video a1 first, got %s", groups[0][0].VideoName)
	}

	b1 := groups[1]

	if len(b1) != 2 || b1[0].FrameIndex != 0 || b1[1].FrameIndex != 1 {
		t.Errorf("frames of b1 not sorted by index: %+v", b1)
	}
}

func TestInstances(t *testing.T) {

	frames, err := Load(writeSample(t, sampleFrames))

	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}

	groups := GroupAndSort(frames)
	instances := Instances(groups[1][0])

	if len(instances) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(instances))
	}

	car := instances[0]

	if car.ID != "7" || car.Category != "car" || car.Crowd {
		t.Errorf("unexpected car instance: %+v", car)
	}

	if car.Box.X2 != 100 || car.Box.Y2 != 200 {
		t.Errorf("unexpected car box: %+v", car.Box)
	}

	crowd := instances[1]

	if !crowd.Crowd {
		t.Errorf("expected crowd attribute to carry over: %+v", crowd)
	}
}

func TestBuildVideos(t *testing.T) {

	gtFrames, err := Load(writeSample(t, sampleFrames))

	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}

	// predictions only cover video b1
	predFrames := []Frame{
		{VideoName: "b1", FrameIndex: 0, Labels: []Label{
			{ID: "p1", Category: "car", Box2D: &Box2D{X1: 0, Y1: 0, X2: 100, Y2: 200}},
		}},
		{VideoName: "b1", FrameIndex: 1, Labels: []Label{
			{ID: "p1", Category: "car", Box2D: &Box2D{X1: 10, Y1: 20, X2: 110, Y2: 220}},
		}},
	}

	videos := BuildVideos(gtFrames, predFrames)

	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}

	// a1 has no predictions: empty sequence of matching length
	a1 := videos[0]

	if a1.Name != "a1" || len(a1.Pred) != len(a1.GT) {
		t.Errorf("unexpected a1 video: %+v", a1)
	}

	b1 := videos[1]

	if len(b1.GT) != 2 || len(b1.Pred) != 2 {
		t.Fatalf("unexpected b1 sequences: %d gt, %d pred", len(b1.GT), len(b1.Pred))
	}

	if b1.Pred[1][0].Box.X1 != 10 {
		t.Errorf("prediction frames not ordered by index: %+v", b1.Pred[1])
	}
}

func TestInstancesPolygon(t *testing.T) {

	frame := Frame{
		VideoName:  "v",
		FrameIndex: 0,
		Labels: []Label{
			{
				ID:       "1",
				Category: "car",
				Poly2D: []Poly2D{
					{Vertices: [][]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, Closed: true},
				},
			},
		},
	}

	instances := Instances(frame)

	if len(instances) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(instances))
	}

	inst := instances[0]

	if len(inst.Poly) != 4 {
		t.Errorf("expected 4 polygon vertices, got %d", len(inst.Poly))
	}

	// box derived from polygon bounds when no box2d is present
	if inst.Box.X2 != 10 || inst.Box.Y2 != 10 {
		t.Errorf("expected box from polygon bounds, got %+v", inst.Box)
	}
}
