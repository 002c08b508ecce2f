package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(200, 100, 200)

	if cam.X != 0 || cam.Z != 0 {
		t.Errorf("expected camera at origin, got (%f, %f)", cam.X, cam.Z)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	if p := cam.LookAt(); p.X != 0 || p.Z != 0 || p.Y != 0 {
		t.Errorf("LookAt = %+v", p)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(200, 100, 200)
	cam.MoveTo(30, -20)
	cam.SetZoom(2)

	testCases := []struct{ sx, sy float32 }{
		{100, 50}, // center
		{10, 10},  // top-left
		{190, 90}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wz := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wz)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wz, sx, sy)
		}
	}

	if wx, wz := cam.ScreenToWorld(100, 50); wx != 30 || wz != -20 {
		t.Errorf("screen center maps to (%f, %f), want (30, -20)", wx, wz)
	}
}

func TestPanStaysInWorld(t *testing.T) {
	cam := New(200, 100, 200)

	// Visible half-width is 100 at zoom 1, so the center may travel to ±100
	cam.Pan(-1000, 0)
	if cam.X != -100 {
		t.Errorf("expected X clamped to -100, got %f", cam.X)
	}

	cam.Pan(0, 1000)
	if cam.Z != 150 {
		t.Errorf("expected Z clamped to 150, got %f", cam.Z)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(200, 100, 200)

	// MinZoom = max(200/400, 100/400) = 0.5
	if cam.MinZoom != 0.5 {
		t.Errorf("expected MinZoom 0.5, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1)
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(10.0)
	if cam.Zoom != 4.0 {
		t.Errorf("expected zoom clamped to 4.0, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(200, 100, 200)

	// Visible range at zoom 1: x in [-100, 100], z in [-50, 50]
	if !cam.IsVisible(0, 0, 1) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(150, 120, 1) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(0, 60, 12) {
		t.Error("edge point with large radius should be visible")
	}

	cam.MoveTo(80, 0)
	if !cam.IsVisible(150, 0, 1) || cam.IsVisible(-50, 0, 1) {
		t.Error("visibility should follow the camera")
	}
}

func TestOrbit(t *testing.T) {
	cam := New(100, 100, 200)

	cam.Orbit(0, 50, 120)
	if math.Abs(float64(cam.X-50)) > 1e-3 || math.Abs(float64(cam.Z)) > 1e-3 {
		t.Errorf("orbit at t=0: (%f, %f)", cam.X, cam.Z)
	}

	cam.Orbit(30, 50, 120)
	if math.Abs(float64(cam.X)) > 1e-3 || math.Abs(float64(cam.Z-50)) > 1e-3 {
		t.Errorf("orbit at quarter period: (%f, %f)", cam.X, cam.Z)
	}
}

func TestReset(t *testing.T) {
	cam := New(200, 100, 200)
	cam.MoveTo(50, 20)
	cam.SetZoom(2.5)

	cam.Reset()

	if cam.X != 0 || cam.Z != 0 {
		t.Errorf("expected origin, got (%f, %f)", cam.X, cam.Z)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
