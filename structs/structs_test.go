package structs

import (
	"encoding/json"
	"testing"
)

func TestDirectionTables(t *testing.T) {
	tests := []struct {
		d        Direction
		opposite Direction
		dx, dy   int
	}{
		{Up, Down, 0, -1},
		{Down, Up, 0, 1},
		{Left, Right, -1, 0},
		{Right, Left, 1, 0},
	}
	for _, tt := range tests {
		if got := tt.d.Opposite(); got != tt.opposite {
			t.Errorf("%v.Opposite() = %v, want %v", tt.d, got, tt.opposite)
		}
		dx, dy := tt.d.Delta()
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("%v.Delta() = (%d,%d), want (%d,%d)", tt.d, dx, dy, tt.dx, tt.dy)
		}
		if next := (Cell{X: 3, Y: 3}).Add(tt.d); next != (Cell{X: 3 + tt.dx, Y: 3 + tt.dy}) {
			t.Errorf("Add(%v) = %v", tt.d, next)
		}
	}
	if Direction(0).Valid() || Direction(9).Opposite() != 0 {
		t.Error("Expected invalid directions to have no table entries")
	}
}

func TestParse(t *testing.T) {
	if d, ok := ParseDirection(" Left "); !ok || d != Left {
		t.Errorf("ParseDirection = %v, %v", d, ok)
	}
	if _, ok := ParseDirection("north"); ok {
		t.Error("Expected unknown direction rejected")
	}
	if c, ok := ParseCommand("restart"); !ok || c != CmdRestart {
		t.Errorf("ParseCommand = %v, %v", c, ok)
	}
	if d, ok := CmdDown.Direction(); !ok || d != Down {
		t.Errorf("CmdDown.Direction() = %v, %v", d, ok)
	}
	if _, ok := CmdQuit.Direction(); ok {
		t.Error("Quit is not a turn")
	}
}

func TestSnapshotJSON(t *testing.T) {
	snap := Snapshot{Width: 4, Height: 3, Body: []Cell{{X: 1, Y: 2}}, Heading: Right}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out["heading"] != "right" {
		t.Errorf("Expected heading \"right\", got %v", out["heading"])
	}
	if _, ok := (Snapshot{}).Head(); ok {
		t.Error("Expected empty snapshot to have no head")
	}
}

func TestSnapshotRoundTripHeading(t *testing.T) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(`{"heading":"down","body":[{"x":1,"y":1}]}`), &snap); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if snap.Heading != Down {
		t.Errorf("Expected down, got %v", snap.Heading)
	}
}

func TestSnapshotInBounds(t *testing.T) {
	snap := Snapshot{Width: 10, Height: 8}
	tests := []struct {
		c    Cell
		want bool
	}{
		{Cell{X: 0, Y: 0}, true},
		{Cell{X: 9, Y: 7}, true},
		{Cell{X: 10, Y: 3}, false},
		{Cell{X: 3, Y: 8}, false},
		{Cell{X: -1, Y: 3}, false},
	}
	for _, tt := range tests {
		if got := snap.InBounds(tt.c); got != tt.want {
			t.Errorf("InBounds(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}
