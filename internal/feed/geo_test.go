package feed

import "testing"

func TestDistanceZeroForSamePoint(t *testing.T) {
	p := Location{Lat: 52.5111, Lon: 13.4430}
	if d := Distance(p, p); d != 0 {
		t.Errorf("Expected zero distance, got %f", d)
	}
}

func TestDistanceBerlinLandmarks(t *testing.T) {
	mitte := Location{Lat: 52.5200, Lon: 13.4050}
	berghain := Location{Lat: 52.5111, Lon: 13.4430}

	d := Distance(mitte, berghain)
	if d < 2.0 || d > 4.0 {
		t.Errorf("Expected roughly 3 km between Mitte and Berghain, got %f", d)
	}
	if back := Distance(berghain, mitte); back != d {
		t.Errorf("Expected symmetric distance, got %f and %f", d, back)
	}
}
