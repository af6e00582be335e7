package common

import (
	"hash/fnv"
	"strings"
	"unicode"
)

// GeneratePackageID converts a package name into a numeric ID.  Zero is
// reserved for the package currently being compiled so the hash is never
// allowed to produce it.
func GeneratePackageID(name string) uint {
	h := fnv.New32a()
	h.Write([]byte(name))

	id := uint(h.Sum32())
	if id == 0 {
		return 1
	}

	return id
}

// IsValidIdentifier returns whether or not a given string would be a valid
// identifier (eg. as a package name or namespace segment).
func IsValidIdentifier(idstr string) bool {
	if idstr == "" {
		return false
	}

	for i, c := range idstr {
		if c == '_' || unicode.IsLetter(c) {
			continue
		} else if i > 0 && unicode.IsDigit(c) {
			continue
		}

		return false
	}

	return true
}

// JoinPath formats a namespace path for display.
func JoinPath(segments []string) string {
	return strings.Join(segments, ".")
}

// SplitPath splits a dotted path into its segments.  The empty string yields
// an empty path.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}

	return strings.Split(path, ".")
}

// PathsEqual compares two namespace paths.
func PathsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
