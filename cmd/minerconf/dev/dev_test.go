package devcmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSnapshot(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "rig.json")
	if err := os.WriteFile(good, []byte(`{"platforms":[{"name":"AMD","devices":[{"type":"GPU","chip":"Pitcairn","coreClock":1000,"clusters":20}]}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{`), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := loadSnapshot(good)
	if err != nil {
		t.Fatalf("loadSnapshot() error = %v", err)
	}
	if d := snap.Platforms[0].Devices[0]; d.Chip != "Pitcairn" || d.EstimatedThroughput() != 20000 {
		t.Fatalf("device = %+v", d)
	}

	for _, path := range []string{bad, filepath.Join(dir, "missing.json")} {
		if _, err := loadSnapshot(path); err == nil {
			t.Errorf("loadSnapshot(%s) succeeded", path)
		}
	}
}

func TestRejectsUnknownReloadMode(t *testing.T) {
	cmd := Cmd()
	cmd.SetArgs([]string{"mock-controller", "--reload", "sideways"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("mock-controller --reload sideways succeeded")
	}
}
