package fsprovider

import "testing"

func TestIsIncluded(t *testing.T) {
	cases := []struct {
		name     string
		relative string
		filter   string
		included bool
	}{
		{"plain file", "a.txt", "", true},
		{"nested file", "sub/a.txt", "", true},
		{"hidden file", ".cache", "", false},
		{"hidden directory segment", "sub/.git/config", "", false},
		{"dotdot segment", "../escape", "", false},
		{"dotdot in middle of segment", "a..b/file.txt", "", false},
		{"embedded dot not hidden", "a.b.txt", "", true},
		{"filter match", "models/cube.mesh", "**/*.mesh", true},
		{"filter mismatch", "models/cube.mesh", "**/*.mat", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := isIncluded(c.relative, c.filter); got != c.included {
				t.Errorf("isIncluded(%q, %q) = %v, want %v", c.relative, c.filter, got, c.included)
			}
		})
	}
}
