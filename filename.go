package vcvars

import "strings"

// sanitizeFilename maps a variable name to a filename that is legal on
// every mainstream filesystem. Reserved characters and control bytes become
// underscores; trailing dots and spaces (rejected by Windows) are trimmed.
// The mapping is not strictly injective: two names that collapse to the same
// filename would share a cache file. Environment variable names in practice
// never collide this way.
func sanitizeFilename(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, name)

	mapped = strings.TrimRight(mapped, ". ")
	if mapped == "" {
		return "_"
	}
	return mapped
}
