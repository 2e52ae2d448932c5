package timeline

import (
	"math"
	"math/rand"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6
}

func TestActiveRangesWithoutRemovals(t *testing.T) {
	m := NewModel(100)
	active := m.ActiveRanges()
	if len(active) != 1 || active[0] != (Range{Start: 0, End: 100}) {
		t.Fatalf("unexpected active ranges: %+v", active)
	}
	if m.EditedDuration() != 100 {
		t.Fatalf("unexpected edited duration: %.2f", m.EditedDuration())
	}
}

func TestActiveRangesBeforeLoad(t *testing.T) {
	m := NewModel(0)
	if len(m.ActiveRanges()) != 0 {
		t.Fatalf("expected no active ranges before load")
	}
	if m.EditedDuration() != 0 {
		t.Fatalf("expected zero edited duration")
	}
	if m.AddCut(3) {
		t.Fatalf("cut must be rejected before load")
	}
}

func TestActiveRangesWithRemoval(t *testing.T) {
	m := NewModel(100)
	m.AddRemoved(Range{Start: 20, End: 40})
	active := m.ActiveRanges()
	want := []Range{{Start: 0, End: 20}, {Start: 40, End: 100}}
	if len(active) != len(want) || active[0] != want[0] || active[1] != want[1] {
		t.Fatalf("unexpected active ranges: %+v", active)
	}
	if m.EditedDuration() != 80 {
		t.Fatalf("unexpected edited duration: %.2f", m.EditedDuration())
	}
}

func TestActiveRangesEverythingRemoved(t *testing.T) {
	m := NewModel(30)
	m.AddRemoved(Range{Start: 0, End: 30})
	if len(m.ActiveRanges()) != 0 {
		t.Fatalf("expected no active ranges, got %+v", m.ActiveRanges())
	}
	if m.EditedDuration() != 0 {
		t.Fatalf("expected zero edited duration")
	}
	if len(m.KeepSegments()) != 0 {
		t.Fatalf("expected no keep segments")
	}
}

func TestAddCutKeepsSortedAndRejectsNearDuplicates(t *testing.T) {
	m := NewModel(100)
	if !m.AddCut(60) || !m.AddCut(10) {
		t.Fatalf("expected cuts to be added")
	}
	if m.AddCut(10.01) {
		t.Fatalf("expected near-duplicate cut to be rejected")
	}
	cuts := m.Cuts()
	if len(cuts) != 2 || cuts[0] != 10 || cuts[1] != 60 {
		t.Fatalf("unexpected cuts: %v", cuts)
	}
}

func TestAddCutClampsIntoTimeline(t *testing.T) {
	m := NewModel(10)
	m.AddCut(-5)
	m.AddCut(50)
	cuts := m.Cuts()
	if len(cuts) != 2 {
		t.Fatalf("unexpected cuts: %v", cuts)
	}
	if cuts[0] <= 0 || cuts[1] >= 10 {
		t.Fatalf("cuts must stay strictly inside the timeline: %v", cuts)
	}
}

func TestPickSegmentAtTime(t *testing.T) {
	m := NewModel(100)
	m.AddCut(10)
	m.AddCut(60)

	seg, ok := m.PickSegmentAtTime(5)
	if !ok || seg != (Range{Start: 0, End: 10}) {
		t.Fatalf("unexpected segment for 5: %+v %v", seg, ok)
	}
	seg, ok = m.PickSegmentAtTime(10)
	if !ok || seg != (Range{Start: 0, End: 10}) {
		t.Fatalf("exact cut hit must resolve to the left segment: %+v %v", seg, ok)
	}
	seg, ok = m.PickSegmentAtTime(60)
	if !ok || seg != (Range{Start: 10, End: 60}) {
		t.Fatalf("unexpected segment for 60: %+v %v", seg, ok)
	}
	seg, ok = m.PickSegmentAtTime(75)
	if !ok || seg != (Range{Start: 60, End: 100}) {
		t.Fatalf("unexpected segment for 75: %+v %v", seg, ok)
	}
	if _, ok := m.PickSegmentAtTime(0); ok {
		t.Fatalf("timeline start must not resolve to a segment")
	}
	if _, ok := m.PickSegmentAtTime(100); ok {
		t.Fatalf("timeline end must not resolve to a segment")
	}
	if _, ok := m.PickSegmentAtTime(120); ok {
		t.Fatalf("out of range time must not resolve to a segment")
	}
}

func TestRemovalMergeHidesCut(t *testing.T) {
	m := NewModel(100)
	m.AddCut(18)
	m.AddRemoved(Range{Start: 10, End: 20})
	m.AddRemoved(Range{Start: 15, End: 25})

	merged := m.MergedRemoved()
	if len(merged) != 1 || merged[0] != (Range{Start: 10, End: 25}) {
		t.Fatalf("unexpected merged removed: %+v", merged)
	}
	if !m.IsInRemoved(18) {
		t.Fatalf("expected cut at 18 to be hidden")
	}
	if cuts := m.Cuts(); len(cuts) != 1 || cuts[0] != 18 {
		t.Fatalf("hidden cut must stay in the list: %v", cuts)
	}
	if m.IsInRemoved(25) {
		t.Fatalf("removed ranges are closed-open")
	}
}

func TestMoveCutClampsToNeighbors(t *testing.T) {
	m := NewModel(100)
	m.AddCut(10)
	m.AddCut(60)

	if !m.MoveCut(1, 5) {
		t.Fatalf("expected move to succeed")
	}
	if got := m.Cuts()[1]; !almostEqual(got, 10+MinGap) {
		t.Fatalf("expected clamp to %.2f, got %.4f", 10+MinGap, got)
	}
	m.MoveCut(1, 500)
	if got := m.Cuts()[1]; !almostEqual(got, 100-MinGap) {
		t.Fatalf("expected clamp to %.2f, got %.4f", 100-MinGap, got)
	}
	m.MoveCut(0, -3)
	if got := m.Cuts()[0]; !almostEqual(got, MinGap) {
		t.Fatalf("expected clamp to %.2f, got %.4f", MinGap, got)
	}
	if m.MoveCut(5, 3) {
		t.Fatalf("expected invalid index to be rejected")
	}
}

func TestCutOrderingRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := NewModel(60)
	for i := 0; i < 2000; i++ {
		if rng.Intn(3) == 0 || len(m.Cuts()) == 0 {
			m.AddCut(rng.Float64() * 60)
		} else {
			m.MoveCut(rng.Intn(len(m.Cuts())), rng.Float64()*80-10)
		}
		cuts := m.Cuts()
		for j := 1; j < len(cuts); j++ {
			if cuts[j]-cuts[j-1] < MinGap-1e-9 {
				t.Fatalf("cuts too close after step %d: %v", i, cuts)
			}
		}
	}
}

func TestDeleteSelected(t *testing.T) {
	m := NewModel(100)
	m.AddCut(20)
	m.AddCut(40)

	if m.DeleteSelected() {
		t.Fatalf("delete without selection must be a no-op")
	}
	if !m.SelectAtTime(30) {
		t.Fatalf("expected segment to be selectable")
	}
	if !m.DeleteSelected() {
		t.Fatalf("expected delete to succeed")
	}
	if _, ok := m.Selected(); ok {
		t.Fatalf("selection must be cleared after delete")
	}
	if m.EditedDuration() != 80 {
		t.Fatalf("unexpected edited duration: %.2f", m.EditedDuration())
	}
}

func TestSelectionExcludesRemovedSegments(t *testing.T) {
	m := NewModel(100)
	m.AddCut(20)
	m.AddCut(40)
	m.SelectAtTime(30)
	m.DeleteSelected()

	if m.SelectAtTime(30) {
		t.Fatalf("click inside removed footage must not select")
	}
	if _, ok := m.ClampSelectionToActive(Range{Start: 22, End: 38}); ok {
		t.Fatalf("segment fully inside removed range must be rejected")
	}
	if _, ok := m.ClampSelectionToActive(Range{Start: 10, End: 30}); !ok {
		t.Fatalf("partially removed segment stays selectable")
	}
}

func TestSelectAtTimeClearsPreviousSelection(t *testing.T) {
	m := NewModel(100)
	m.AddCut(50)
	m.SelectAtTime(10)
	m.AddRemoved(Range{Start: 60, End: 70})
	if m.SelectAtTime(65) {
		t.Fatalf("expected no selection inside removed range")
	}
	if _, ok := m.Selected(); ok {
		t.Fatalf("previous selection must be cleared")
	}
}

func TestDurationConservationRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for iter := 0; iter < 200; iter++ {
		m := NewModel(120)
		for i := 0; i < rng.Intn(6); i++ {
			s := rng.Float64() * 130
			m.AddRemoved(Range{Start: s - 5, End: s + rng.Float64()*30})
		}
		want := m.Duration() - TotalLength(m.MergedRemoved())
		if !almostEqual(m.EditedDuration(), want) {
			t.Fatalf("edited duration %.6f != %.6f (removed %+v)", m.EditedDuration(), want, m.MergedRemoved())
		}
	}
}

func TestAddRemovedRejectsEmptyRange(t *testing.T) {
	m := NewModel(10)
	if m.AddRemoved(Range{Start: 5, End: 5}) {
		t.Fatalf("expected empty range to be rejected")
	}
	if m.AddRemoved(Range{Start: 12, End: 20}) {
		t.Fatalf("expected range outside duration to be rejected")
	}
	if !m.AddRemoved(Range{Start: 8, End: 20}) {
		t.Fatalf("expected overlapping range to be clamped and accepted")
	}
	if got := m.MergedRemoved()[0]; got.End != 10 {
		t.Fatalf("expected clamp to duration, got %+v", got)
	}
}

func TestNextPlayable(t *testing.T) {
	m := NewModel(100)
	m.AddRemoved(Range{Start: 20, End: 40})
	m.AddRemoved(Range{Start: 90, End: 100})

	next, stop := m.NextPlayable(25)
	if stop || !almostEqual(next, 40.001) {
		t.Fatalf("unexpected skip: %.4f %v", next, stop)
	}
	next, stop = m.NextPlayable(10)
	if stop || next != 10 {
		t.Fatalf("active position must not move: %.4f %v", next, stop)
	}
	if _, stop = m.NextPlayable(95); !stop {
		t.Fatalf("expected playback to stop inside trailing removal")
	}
}

func TestLoadResetsState(t *testing.T) {
	m := NewModel(100)
	m.AddCut(20)
	m.SelectAtTime(10)
	m.AddRemoved(Range{Start: 50, End: 60})
	m.Load(30)
	if len(m.Cuts()) != 0 || len(m.Removed()) != 0 {
		t.Fatalf("expected empty model after load")
	}
	if _, ok := m.Selected(); ok {
		t.Fatalf("expected selection cleared after load")
	}
	if m.Duration() != 30 {
		t.Fatalf("unexpected duration: %.2f", m.Duration())
	}
}
