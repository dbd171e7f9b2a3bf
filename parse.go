package vcvars

import "strings"

// separatorLine is echoed between vcvarsall's own (discarded) output and the
// environment dump, marking where parsing begins.
const separatorLine = "====================_unique_separator_for_vcvars_env_dump"

// errorMarker prefixes vcvarsall.bat's output when it fails internally.
const errorMarker = "[ERROR:"

// escapeCmdMeta escapes a path for use on a cmd.exe command line: ^ is
// doubled and & is caret-escaped, both being command separators otherwise.
// % cannot be escaped this way; a path containing two %s around the name of
// an existing variable breaks the command regardless.
func escapeCmdMeta(path string) string {
	path = strings.ReplaceAll(path, "^", "^^")
	return strings.ReplaceAll(path, "&", "^&")
}

// splitLines splits captured cmd.exe output into lines, tolerating both CRLF
// and bare LF endings. Lines are unbounded: an INCLUDE or PATH value of any
// length comes through intact.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// parseEnvDump extracts NAME=value pairs from captured cmd.exe output. Lines
// before the separator are ignored. The separator is prefix-matched because
// cmd.exe appends a trailing space to the echoed line. After it, each line
// is split on its first '='; keys are uppercased; lines without '=' are
// skipped. Output with no separator yields an empty map.
func parseEnvDump(text, separator string) map[string]string {
	env := make(map[string]string)
	collect := false

	for _, line := range splitLines(text) {
		if !collect {
			collect = strings.HasPrefix(line, separator)
			continue
		}
		if name, value, ok := strings.Cut(line, "="); ok {
			env[strings.ToUpper(name)] = value
		}
	}
	return env
}

// joinLines flattens multi-line output into one readable error message,
// joining lines with a literal backslash-n.
func joinLines(text string) string {
	return strings.Join(splitLines(text), `\n`)
}
