package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	tests := []struct {
		name  string
		value string
	}{
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"BuildTime", info.BuildTime},
		{"GoVersion", info.GoVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("%s field should not be empty", tt.name)
			}
		})
	}

	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	got := fill(Info{Version: "dev", Commit: "unknown", BuildTime: "unknown"}, bi)
	if got.Version != "v1.2.3" {
		t.Errorf("Version = %q, want v1.2.3", got.Version)
	}
	if got.Commit != "0123456789ab" {
		t.Errorf("Commit = %q, want short revision", got.Commit)
	}
	if got.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("BuildTime = %q", got.BuildTime)
	}
}

func TestFill_InjectedValuesWin(t *testing.T) {
	bi := &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffff"}},
	}

	in := Info{Version: "v9.0.0", Commit: "abc123", BuildTime: "today"}
	if got := fill(in, bi); got != in {
		t.Errorf("fill() = %+v, want injected values kept %+v", got, in)
	}

	dev := fill(Info{Version: "dev", Commit: "unknown", BuildTime: "unknown"}, bi)
	if dev.Version != "dev" {
		t.Errorf("(devel) module version should keep dev, got %q", dev.Version)
	}
}

func TestString(t *testing.T) {
	info := Info{Version: "v1.0.0", Commit: "abc", BuildTime: "now", GoVersion: "go1.24"}
	want := "v1.0.0 (abc) built at now with go1.24"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if s := String(); !strings.Contains(s, " built at ") {
		t.Errorf("String() = %q, want version format", s)
	}
}

func TestLogAttrs(t *testing.T) {
	attrs := Info{Version: "v1"}.LogAttrs()
	if len(attrs) != 8 {
		t.Fatalf("LogAttrs() len = %d, want 8", len(attrs))
	}
	if attrs[0] != "version" || attrs[1] != "v1" {
		t.Errorf("LogAttrs()[0:2] = %v", attrs[:2])
	}
}
