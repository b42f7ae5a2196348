package models

import (
	"encoding/json"
	"testing"
)

func TestRecompute(t *testing.T) {
	tests := []struct {
		name         string
		completed    []bool
		wantProgress int
		wantStatus   string
		wantCurrent  int
	}{
		{"no steps", nil, 0, ProcessPending, 0},
		{"none done", []bool{false, false, false}, 0, ProcessPending, 0},
		{"one of three", []bool{true, false, false}, 33, ProcessInProgress, 1},
		{"two of three", []bool{true, true, false}, 67, ProcessInProgress, 2},
		{"gap", []bool{true, false, true}, 67, ProcessInProgress, 1},
		{"all done", []bool{true, true, true}, 100, ProcessCompleted, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &LegalProcess{}
			for i, done := range tt.completed {
				p.Steps = append(p.Steps, ProcessStep{ID: string(rune('a' + i)), Completed: done})
			}
			p.Recompute()
			if p.Progress != tt.wantProgress {
				t.Errorf("progress = %d, want %d", p.Progress, tt.wantProgress)
			}
			if p.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", p.Status, tt.wantStatus)
			}
			if p.CurrentStep != tt.wantCurrent {
				t.Errorf("currentStep = %d, want %d", p.CurrentStep, tt.wantCurrent)
			}
		})
	}
}

func TestTemplatesAreIndependentCopies(t *testing.T) {
	a, ok := TemplateFor("divorcio")
	if !ok {
		t.Fatal("divorcio template missing")
	}
	if len(a.Steps) != 8 {
		t.Fatalf("divorcio steps = %d, want 8", len(a.Steps))
	}
	a.Steps[0].Completed = true

	b, _ := TemplateFor("divorcio")
	if b.Steps[0].Completed {
		t.Error("mutating a returned template leaked into the next call")
	}
	if _, ok := TemplateFor("desconocido"); ok {
		t.Error("unknown type should have no template")
	}
}

func TestCoordinateUnmarshal(t *testing.T) {
	var req EmergencyRequest
	body := `{"latitude": -0.1807, "longitude": "-78.4678"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	lat, ok := req.Latitude.Float()
	if !ok || lat != -0.1807 {
		t.Errorf("latitude = %v (%v)", lat, ok)
	}
	lng, ok := req.Longitude.Float()
	if !ok || lng != -78.4678 {
		t.Errorf("longitude = %v (%v)", lng, ok)
	}

	loc := Location{Latitude: lat, Longitude: lng}
	if got, want := loc.MapsLink(), "https://maps.google.com/maps?q=-0.1807,-78.4678"; got != want {
		t.Errorf("MapsLink = %q, want %q", got, want)
	}
}
