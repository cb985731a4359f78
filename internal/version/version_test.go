package version

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		// semver, prefix optional
		{"3.2.1", "3.2.1", 0},
		{"v3.2.1", "3.2.1", 0},
		{"3.2.1", "3.10.0", -1},
		{"1.1.101", "1.1.99", 1},
		{"3.2.1-rc1", "3.2.1", -1},
		{"3.2", "3.2.0", 0},

		// non-semver falls back to segment ordering
		{"1.0~rc1", "1.0", -1},
		{"1.0~alpha", "1.0~beta", -1},
		{"1.01", "1.1", 0},
		{"1.0a", "1.0", 1},
		{"2.4.0.1", "2.4.0.10", -1},
		{"", "", 0},
		{"1", "", 1},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := Compare(tt.b, tt.a); got != -tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
		}
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		have, want string
		ok         bool
	}{
		{"3.2.1", "3.2.1", true},
		{"v3.2.1", "3.2.1", true},
		{"3.2.2", "3.2.1", false},
		{"3.4.0", ">=3.2.1", true},
		{"3.1.0", ">= 3.2.1", false},
		{"3.2.1", ">3.2.1", false},
		{"anything", "", true},
	}
	for _, tt := range tests {
		if got := Satisfies(tt.have, tt.want); got != tt.ok {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.have, tt.want, got, tt.ok)
		}
	}
}
