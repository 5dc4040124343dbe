package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: " warn ", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}

	for _, tc := range tests {
		got, err := parseLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseLevel(%q) error = nil, want error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}

func TestConfigureWriterEnvOverride(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv(EnvLevel, "debug")

	var buf bytes.Buffer
	if err := ConfigureWriter(&buf, LevelWarn); err != nil {
		t.Fatalf("ConfigureWriter() error = %v", err)
	}
	slog.Debug("probe started")
	if !strings.Contains(buf.String(), "probe started") {
		t.Fatalf("debug record missing from output %q", buf.String())
	}
}
