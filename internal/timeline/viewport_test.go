package timeline

import (
	"math/rand"
	"testing"
)

func assertContained(t *testing.T, v Viewport, edited float64) {
	t.Helper()
	if v.Start() < -1e-9 {
		t.Fatalf("viewport start negative: %.6f", v.Start())
	}
	if v.Start()+v.Duration(edited) > edited+1e-9 {
		t.Fatalf("viewport exceeds edited duration: start=%.6f dur=%.6f edited=%.6f", v.Start(), v.Duration(edited), edited)
	}
}

func TestViewportZoomIsClamped(t *testing.T) {
	v := NewViewport()
	v.SetZoom(40)
	if v.Zoom() != MaxZoom {
		t.Fatalf("expected zoom clamp to %.0f, got %.2f", MaxZoom, v.Zoom())
	}
	v.SetZoom(0.2)
	if v.Zoom() != MinZoom {
		t.Fatalf("expected zoom clamp to %.0f, got %.2f", MinZoom, v.Zoom())
	}
}

func TestViewportZoomAtPreservesAnchor(t *testing.T) {
	v := NewViewport()
	v.SetZoom(2)
	v.ScrollTo(50, 100) // [25, 75]
	anchor := 40.0
	before := (anchor - v.Start()) / v.Duration(100)

	v.ZoomAt(4, anchor, 100)
	after := (anchor - v.Start()) / v.Duration(100)
	if !almostEqual(before, after) {
		t.Fatalf("anchor screen position moved: %.4f -> %.4f", before, after)
	}
	assertContained(t, v, 100)
}

func TestViewportZoomAtCentersOutsideAnchor(t *testing.T) {
	v := NewViewport()
	v.SetZoom(4) // [0, 25]
	v.ZoomAt(5, 80, 100)
	mid := v.Start() + v.Duration(100)/2
	if !almostEqual(mid, 80) {
		t.Fatalf("expected window centered on 80, got mid=%.4f", mid)
	}
}

func TestViewportScrollTo(t *testing.T) {
	v := NewViewport()
	v.SetZoom(4)
	v.ScrollTo(100, 100)
	if !almostEqual(v.Start(), 75) {
		t.Fatalf("expected start 75, got %.4f", v.Start())
	}
	if !almostEqual(v.ScrollPercent(100), 100) {
		t.Fatalf("unexpected scroll percent: %.2f", v.ScrollPercent(100))
	}
	v.ScrollTo(-20, 100)
	if v.Start() != 0 {
		t.Fatalf("expected start 0, got %.4f", v.Start())
	}
}

func TestViewportClampAfterShrink(t *testing.T) {
	v := NewViewport()
	v.SetZoom(2)
	v.ScrollTo(100, 100) // [50, 100]
	v.Clamp(60)
	assertContained(t, v, 60)
	if !almostEqual(v.Start(), 30) {
		t.Fatalf("expected start 30 after shrink, got %.4f", v.Start())
	}
}

func TestViewportFollowHysteresis(t *testing.T) {
	v := NewViewport()
	v.SetZoom(10) // 10s window on 100s
	if v.Follow(5, 100) {
		t.Fatalf("playhead inside the inner window must not scroll")
	}
	if !v.Follow(9.5, 100) {
		t.Fatalf("playhead in the right margin must scroll")
	}
	if !almostEqual(v.Start(), 4.5) {
		t.Fatalf("expected window centered on playhead, got start %.4f", v.Start())
	}
	if v.Follow(9.5, 100) {
		t.Fatalf("centered playhead must not scroll again")
	}
}

func TestViewportContainmentRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	v := NewViewport()
	for i := 0; i < 3000; i++ {
		edited := rng.Float64() * 200
		switch rng.Intn(4) {
		case 0:
			v.ZoomAt(rng.Float64()*14, rng.Float64()*edited, edited)
		case 1:
			v.ScrollTo(rng.Float64()*140-20, edited)
		case 2:
			v.Follow(rng.Float64()*edited, edited)
		default:
			v.Clamp(edited)
		}
		assertContained(t, v, edited)
	}
}
