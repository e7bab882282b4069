package plex

import "testing"

func TestParsePriority(t *testing.T) {
	for p := Lowest; p <= Monitor; p++ {
		got, err := ParsePriority(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePriority(%q) = %v, %v", p.String(), got, err)
		}
	}
	if got, err := ParsePriority("hIgHeSt"); err != nil || got != Highest {
		t.Errorf("ParsePriority(hIgHeSt) = %v, %v", got, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("ParsePriority(urgent) succeeded")
	}
	if Priority(6).Valid() || Priority(-1).Valid() {
		t.Error("out of range priority is valid")
	}
}
