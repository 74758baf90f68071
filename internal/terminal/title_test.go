package terminal

import (
	"bytes"
	"testing"
)

func TestTitle(t *testing.T) {
	fields := TitleFields{Org: "Runnable", Repo: "runnable/api", Branch: "master", Name: "api"}

	tests := []struct {
		name   string
		format string
		fields TitleFields
		want   string
	}{
		{
			name:   "default format",
			format: "Runnable: {repo}:{branch}",
			fields: fields,
			want:   "Runnable: runnable/api:master",
		},
		{
			name:   "short repo",
			format: "{short_repo}:{branch}",
			fields: fields,
			want:   "api:master",
		},
		{
			name:   "org and name",
			format: "{org} ({name})",
			fields: fields,
			want:   "Runnable (api)",
		},
		{
			name:   "repo without owner",
			format: "{short_repo}",
			fields: TitleFields{Repo: "api"},
			want:   "api",
		},
		{
			name:   "unknown placeholder kept",
			format: "{repo} {nope}",
			fields: fields,
			want:   "runnable/api {nope}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.format, tt.fields); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetTabTitle(t *testing.T) {
	var buf bytes.Buffer
	SetTabTitle(&buf, "api:master")
	if got := buf.String(); got != "\033]1;api:master\007" {
		t.Errorf("SetTabTitle() wrote %q", got)
	}
}

func TestIsSupportedTerminal(t *testing.T) {
	tests := []struct {
		termProgram string
		term        string
		want        bool
	}{
		{"ghostty", "", true},
		{"", "xterm-256color", true},
		{"", "xterm-kitty", true},
		{"", "dumb", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Setenv("TERM_PROGRAM", tt.termProgram)
		t.Setenv("TERM", tt.term)
		if got := IsSupportedTerminal(); got != tt.want {
			t.Errorf("IsSupportedTerminal() with TERM_PROGRAM=%q TERM=%q = %v, want %v", tt.termProgram, tt.term, got, tt.want)
		}
	}
}
