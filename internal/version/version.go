// Package version orders the version strings used by recipes and their
// dependencies. Upstream tags are not always semver ("1.1.101", "3.2.1",
// "1.0~rc1"), so comparison falls back to a strverscmp-like ordering.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Compare returns -1, 0 or +1 depending on whether a < b, a == b or a > b.
// When both strings are semantic versions, with or without the "v" prefix,
// semver precedence applies. Otherwise numeric runs compare by value and
// '~' sorts before everything, including the end of the string.
func Compare(a, b string) int {
	if sa, sb := toSemver(a), toSemver(b); sa != "" && sb != "" {
		return semver.Compare(sa, sb)
	}
	return sign(verrevcmp(a, b))
}

// Satisfies reports whether have meets the constraint want. An empty
// constraint accepts anything, ">=" and ">" prefixes are honoured, and a bare
// version must match exactly.
func Satisfies(have, want string) bool {
	want = strings.TrimSpace(want)
	switch {
	case want == "":
		return true
	case strings.HasPrefix(want, ">="):
		return Compare(have, strings.TrimSpace(want[2:])) >= 0
	case strings.HasPrefix(want, ">"):
		return Compare(have, strings.TrimSpace(want[1:])) > 0
	}
	return Compare(have, want) == 0
}

// toSemver returns v in canonical "vX.Y.Z" form, or "" if v is not semver.
func toSemver(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

func verrevcmp(a, b string) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		for (i < len(a) && !isDigit(a[i])) || (j < len(b) && !isDigit(b[j])) {
			var ca, cb byte
			if i < len(a) {
				ca = a[i]
			}
			if j < len(b) {
				cb = b[j]
			}
			if oa, ob := order(ca), order(cb); oa != ob {
				return oa - ob
			}
			i++
			j++
		}

		for i < len(a) && a[i] == '0' {
			i++
		}
		for j < len(b) && b[j] == '0' {
			j++
		}

		firstDiff := 0
		for i < len(a) && j < len(b) && isDigit(a[i]) && isDigit(b[j]) {
			if firstDiff == 0 {
				firstDiff = int(a[i]) - int(b[j])
			}
			i++
			j++
		}
		// a longer digit run is the larger number
		if i < len(a) && isDigit(a[i]) {
			return 1
		}
		if j < len(b) && isDigit(b[j]) {
			return -1
		}
		if firstDiff != 0 {
			return firstDiff
		}
	}
	return 0
}

// order ranks a non-digit byte: '~' first, then end of string and digits,
// then letters, then everything else.
func order(c byte) int {
	switch {
	case isDigit(c), c == 0:
		return 0
	case c == '~':
		return -1
	case isAlpha(c):
		return int(c)
	}
	return int(c) + 256
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
