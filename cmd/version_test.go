package cmd

import "testing"

func TestIsOutdated(t *testing.T) {
	tests := []struct {
		current string
		latest  string
		want    bool
		wantErr bool
	}{
		{"1.2.0", "v1.3.0", true, false},
		{"v1.3.0", "1.3.0", false, false},
		{"1.4.0", "v1.3.9", false, false},
		{"0.0.0-dev", "v0.1.0", true, false},
		{"1.0.0-rc.1", "1.0.0", true, false},
		{"banana", "v1.0.0", false, true},
		{"1.0.0", "latest", false, true},
	}

	for _, tt := range tests {
		got, err := isOutdated(tt.current, tt.latest)
		if (err != nil) != tt.wantErr {
			t.Errorf("isOutdated(%q, %q) error = %v, wantErr %v", tt.current, tt.latest, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("isOutdated(%q, %q) = %v, want %v", tt.current, tt.latest, got, tt.want)
		}
	}
}
