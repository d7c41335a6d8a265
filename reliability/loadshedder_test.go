package reliability

import "testing"

func TestLoadShedderShedsAboveThreshold(t *testing.T) {
	l := NewLoadShedder(0.8)

	if l.ShouldShed(0.8) {
		t.Fatal("did not expect shedding exactly at the threshold")
	}
	if !l.ShouldShed(0.81) {
		t.Fatal("expected shedding just above the threshold")
	}
	if l.ShouldShed(0.5) {
		t.Fatal("did not expect shedding well below the threshold")
	}
}
