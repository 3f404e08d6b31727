package trackeval

import (
	"testing"
)

// processFrames feeds a fixed per-frame instance script through a fresh
// accumulator and returns its final counts
func processFrames(t *testing.T, frames [][2][]Instance) Counts {
	t.Helper()

	acc := NewMOTAccumulator(NewMatcher())

	for _, frame := range frames {
		acc.Process(frame[0], frame[1])
	}

	return acc.Finalize()
}

func TestAccumulatorPerfectTrack(t *testing.T) {

	b := box(0, 0, 10, 10)

	var frames [][2][]Instance
	for i := 0; i < 5; i++ {
		frames = append(frames, [2][]Instance{
			{{ID: "g1", Box: b}},
			{{ID: "p1", Box: b}},
		})
	}

	counts := processFrames(t, frames)

	want := Counts{
		NumGT:      5,
		NumPred:    5,
		Matches:    5,
		OverlapSum: 5,
		MT:         1,
		IDTP:       5,
	}

	if counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}
}

func TestAccumulatorSwitchAndFragmentation(t *testing.T) {

	b := box(0, 0, 10, 10)
	g := []Instance{{ID: "g1", Box: b}}

	// tracked by p1, lost for one frame, re-acquired by p2: one
	// fragmentation and one identity switch
	frames := [][2][]Instance{
		{g, {{ID: "p1", Box: b}}},
		{g, {{ID: "p1", Box: b}}},
		{g, nil},
		{g, {{ID: "p2", Box: b}}},
		{g, {{ID: "p2", Box: b}}},
	}

	counts := processFrames(t, frames)

	if counts.IDSw != 1 {
		t.Errorf("IDSw = %d, want 1", counts.IDSw)
	}

	if counts.FM != 1 {
		t.Errorf("FM = %d, want 1", counts.FM)
	}

	if counts.FN != 1 {
		t.Errorf("FN = %d, want 1", counts.FN)
	}

	if counts.Matches != 4 || counts.NumGT != 5 {
		t.Errorf("Matches/NumGT = %d/%d, want 4/5", counts.Matches, counts.NumGT)
	}

	// matched 4 of 5 present frames puts the track at exactly the 0.8
	// mostly-tracked boundary
	if counts.MT != 1 || counts.PT != 0 || counts.ML != 0 {
		t.Errorf("MT/PT/ML = %d/%d/%d, want 1/0/0", counts.MT, counts.PT, counts.ML)
	}

	// identity-level: g1 spends 2 frames with each prediction, so the
	// best identity pairing keeps 2 frames
	if counts.IDTP != 2 || counts.IDFN != 3 || counts.IDFP != 2 {
		t.Errorf("IDTP/IDFN/IDFP = %d/%d/%d, want 2/3/2",
			counts.IDTP, counts.IDFN, counts.IDFP)
	}
}

func TestAccumulatorSwitchAcrossAbsence(t *testing.T) {

	b := box(0, 0, 10, 10)

	// identity history is retained while the ground truth is absent, so
	// re-appearing under a different prediction still counts a switch,
	// but no fragmentation since no present frame went unmatched
	frames := [][2][]Instance{
		{{{ID: "g1", Box: b}}, {{ID: "p1", Box: b}}},
		{nil, nil},
		{{{ID: "g1", Box: b}}, {{ID: "p2", Box: b}}},
	}

	counts := processFrames(t, frames)

	if counts.IDSw != 1 {
		t.Errorf("IDSw = %d, want 1", counts.IDSw)
	}

	if counts.FM != 0 {
		t.Errorf("FM = %d, want 0", counts.FM)
	}

	if counts.FN != 0 || counts.FP != 0 {
		t.Errorf("FN/FP = %d/%d, want 0/0", counts.FN, counts.FP)
	}
}

func TestAccumulatorNoFragmentationWithoutResume(t *testing.T) {

	b := box(0, 0, 10, 10)
	g := []Instance{{ID: "g1", Box: b}}

	// the track is lost and never re-acquired: misses but no
	// fragmentation
	frames := [][2][]Instance{
		{g, {{ID: "p1", Box: b}}},
		{g, nil},
		{g, nil},
	}

	counts := processFrames(t, frames)

	if counts.FM != 0 {
		t.Errorf("FM = %d, want 0", counts.FM)
	}

	if counts.FN != 2 {
		t.Errorf("FN = %d, want 2", counts.FN)
	}
}

func TestAccumulatorTrackClassification(t *testing.T) {

	b := box(0, 0, 10, 10)
	far := box(50, 50, 60, 60)

	// g1 matched 5/5 frames (MT), g2 matched 1/5 (PT at the 0.2
	// boundary), g3 matched 0/5 (ML)
	var frames [][2][]Instance

	for i := 0; i < 5; i++ {
		gt := []Instance{
			{ID: "g1", Box: b},
			{ID: "g2", Box: far},
			{ID: "g3", Box: box(100, 100, 110, 110)},
		}
		pred := []Instance{{ID: "p1", Box: b}}
		if i == 0 {
			pred = append(pred, Instance{ID: "p2", Box: far})
		}
		frames = append(frames, [2][]Instance{gt, pred})
	}

	counts := processFrames(t, frames)

	if counts.MT != 1 || counts.PT != 1 || counts.ML != 1 {
		t.Errorf("MT/PT/ML = %d/%d/%d, want 1/1/1", counts.MT, counts.PT, counts.ML)
	}
}

func TestAccumulatorHistoryBound(t *testing.T) {

	b := box(0, 0, 10, 10)

	acc := NewMOTAccumulator(NewMatcher())

	// three distinct identities across the video, history may never
	// exceed that
	acc.Process([]Instance{{ID: "g1", Box: b}}, []Instance{{ID: "p1", Box: b}})
	acc.Process([]Instance{{ID: "g2", Box: b}}, []Instance{{ID: "p1", Box: b}})
	acc.Process([]Instance{{ID: "g3", Box: b}}, []Instance{{ID: "p1", Box: b}})
	acc.Process([]Instance{{ID: "g1", Box: b}}, []Instance{{ID: "p2", Box: b}})

	if len(acc.history) > 3 {
		t.Errorf("history holds %d entries for 3 identities", len(acc.history))
	}

	counts := acc.Finalize()

	if counts.IDSw != 1 {
		t.Errorf("IDSw = %d, want 1 for g1 re-appearing under p2", counts.IDSw)
	}
}
