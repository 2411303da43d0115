package narration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 100)

	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Entry", 80, "Entry"},
		{long, 80, long[:80]},
		{"Плант на B", 5, "Плант"},
		{long, 0, long},
		{"", 80, ""},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestLabelKeepsFullNarration(t *testing.T) {
	m := Moment{Narration: strings.Repeat("x", 120)}

	if len(m.Label()) != DefaultLabelWidth {
		t.Errorf("Expected label of %d chars, got %d", DefaultLabelWidth, len(m.Label()))
	}
	if len(m.Narration) != 120 {
		t.Errorf("Narration must stay intact, got %d chars", len(m.Narration))
	}
}

func TestToPositionDefaults(t *testing.T) {
	entry := PlayerSnapshotEntry{PlayerID: "p1", TeamID: "t1", Side: SideAttack, X: 0.4, Y: 0.6, IsAlive: true, Health: 87}

	p := entry.ToPosition()
	if p.Agent != "" {
		t.Errorf("Expected empty agent, got %q", p.Agent)
	}
	if p.HasFacing || p.FacingAngle != 0 {
		t.Errorf("Expected no facing angle, got %v/%f", p.HasFacing, p.FacingAngle)
	}
	if p.X != 0.4 || p.Y != 0.6 || p.Health != 87 || !p.IsAlive {
		t.Errorf("Unexpected mapping: %+v", p)
	}

	angle := 90.0
	entry.FacingAngle = &angle
	entry.Agent = "Sova"
	p = entry.ToPosition()
	if !p.HasFacing || p.FacingAngle != 90 || p.Agent != "Sova" {
		t.Errorf("Optional fields not carried: %+v", p)
	}
}

func TestSnapshotPositionsNeverNil(t *testing.T) {
	if got := (Snapshot{}).Positions(); got == nil {
		t.Error("Expected empty, non-nil slice")
	}
}

func TestScriptWriteRead(t *testing.T) {
	angle := 45.0
	script := &Script{
		Version: "1.0",
		Map:     "ascent",
		Moments: []Moment{
			{Index: 0, Focus: Point{X: 0.2, Y: 0.3}, Zoom: 2, Narration: "Entry", HighlightPlayers: []string{"p1"}},
			{Index: 1, Focus: Point{X: 0.5, Y: 0.5}, Zoom: 1.5, Narration: "Trade"},
		},
		Snapshots: []Snapshot{
			{Time: 12, Players: []PlayerSnapshotEntry{{PlayerID: "p1", Side: SideAttack, FacingAngle: &angle}}},
		},
	}

	path := filepath.Join(t.TempDir(), "round.yaml")
	if err := WriteScript(script, path); err != nil {
		t.Fatalf("WriteScript failed: %v", err)
	}

	got, err := ReadScript(path)
	if err != nil {
		t.Fatalf("ReadScript failed: %v", err)
	}

	if got.Map != "ascent" || len(got.Moments) != 2 || len(got.Snapshots) != 1 {
		t.Fatalf("Round trip mismatch: %+v", got)
	}
	if got.Moments[0].HighlightPlayers[0] != "p1" {
		t.Errorf("Highlight lost: %+v", got.Moments[0])
	}
	if got.Snapshots[0].Players[0].FacingAngle == nil || *got.Snapshots[0].Players[0].FacingAngle != 45 {
		t.Errorf("Facing angle lost")
	}
}

func TestReadScriptMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("moments: [ {"), 0644)

	if _, err := ReadScript(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestFindLatestScript(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		filepath.Join(dir, "round_2026-02-12_10-00-00.yaml"),
		filepath.Join(dir, "round_2026-02-11_15-30-00.yml"),
		filepath.Join(dir, "round_2026-02-13_01-00-00.yaml"),
	}
	for i, f := range files {
		os.WriteFile(f, []byte("version: \"1.0\"\n"), 0644)
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	latest, err := FindLatestScript(dir)
	if err != nil {
		t.Fatalf("FindLatestScript failed: %v", err)
	}
	if latest != files[len(files)-1] {
		t.Errorf("Expected %s, got %s", files[len(files)-1], latest)
	}

	if _, err := FindLatestScript(t.TempDir()); err == nil {
		t.Error("Expected error for empty directory")
	}
}

func TestGenerateScriptPath(t *testing.T) {
	path := GenerateScriptPath("output", "track")

	if filepath.Dir(path) != "output" {
		t.Errorf("Path should be in output: %s", path)
	}
	if !strings.HasPrefix(filepath.Base(path), "track_") || filepath.Ext(path) != ".yaml" {
		t.Errorf("Unexpected name: %s", path)
	}
}
