package probecmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"minerconf/internal/hardware"
)

func snapshot(devices ...hardware.Device) hardware.Snapshot {
	return hardware.Snapshot{Platforms: []hardware.Platform{{Name: "AMD APP", Devices: devices}}}
}

func TestClassify(t *testing.T) {
	snap := snapshot(
		hardware.Device{Type: "CPU", Chip: "x86", CoreClock: 100, Clusters: 1},
		hardware.Device{Type: "GPU", Chip: "Tahiti", CoreClock: 1000, Clusters: 32},
		hardware.Device{Type: "GPU", Chip: "Capeverde", CoreClock: 850, Clusters: 8},
		hardware.Device{Type: "GPU", Chip: "Twin", CoreClock: 850, Clusters: 8},
	)
	rows, slowest := classify(snap)
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if rows[0].eligible {
		t.Error("CPU marked eligible")
	}
	if slowest != 2 || !rows[2].slowest || rows[3].slowest {
		t.Fatalf("slowest = %d, want the first of the tied devices (2)", slowest)
	}
}

func TestRender(t *testing.T) {
	snap := snapshot(
		hardware.Device{Type: "CPU", Chip: "x86", CoreClock: 3600, Clusters: 8},
		hardware.Device{Type: "GPU", Chip: "Tahiti", CoreClock: 1700, Clusters: 8, GlobalMemBytes: 3 << 30},
	)

	tests := []struct {
		name    string
		all     bool
		want    []string
		notWant []string
	}{
		{name: "eligible only", want: []string{"Tahiti", "3.0 GiB", "13,600", "2.00× faster than reference", "128"}, notWant: []string{"x86"}},
		{name: "all", all: true, want: []string{"Tahiti", "x86", "skipped"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := render(&out, snap, hardware.DefaultReference(), tt.all); err != nil {
				t.Fatalf("render() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out.String(), w) {
					t.Errorf("output contains %q:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestRenderNoDevices(t *testing.T) {
	var out bytes.Buffer
	err := render(&out, snapshot(hardware.Device{Type: "CPU", Chip: "x86", CoreClock: 1, Clusters: 1}), hardware.DefaultReference(), false)
	if !errors.Is(err, hardware.ErrNoDevices) {
		t.Fatalf("render() error = %v, want ErrNoDevices", err)
	}
}
