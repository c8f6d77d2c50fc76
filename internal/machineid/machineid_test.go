package machineid

import "testing"

func TestDetect_NeverEmpty(t *testing.T) {
	name := Detect()
	if name == "" {
		t.Fatal("Detect() returned an empty string")
	}
}
