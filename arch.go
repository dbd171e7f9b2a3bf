package vcvars

import (
	"fmt"
	"strings"
)

// ArchTokens selects the spelling of the vcvarsall.bat architecture token
// for x64 hosts. The vcvarsall usage table lists two valid spellings for
// those rows (e.g. "x64_x86" and "x86" both target 32-bit from a 64-bit
// host); which one a given toolchain prefers has never been pinned down, so
// the choice is configurable.
type ArchTokens int

const (
	// NativeTokens uses the host-native spellings: x64, x64_x86, x64_arm,
	// x64_arm64.
	NativeTokens ArchTokens = iota
	// X86PrefixedTokens uses the x86-hosted spellings on x64 hosts: x86,
	// x86_x64, x86_arm, x86_arm64.
	X86PrefixedTokens
)

// normalizeArch folds GOARCH spellings and the x86_64/aarch64 spellings into
// one family name. Unknown inputs map to "".
func normalizeArch(arch string) string {
	switch strings.ToLower(arch) {
	case "x86", "386", "i386", "i686":
		return "x86"
	case "x64", "x86_64", "amd64":
		return "x64"
	case "arm":
		return "arm"
	case "arm64", "aarch64":
		return "arm64"
	}
	return ""
}

// archToken maps a (host, target) architecture pair to the positional token
// vcvarsall.bat expects. Pairs outside the table fail with
// ErrUnsupportedArch; there is no fallback.
func archToken(host, target string, form ArchTokens) (string, error) {
	var token string
	switch normalizeArch(host) {
	case "x86":
		switch normalizeArch(target) {
		case "x86":
			token = "x86"
		case "x64":
			token = "x86_x64"
		case "arm":
			token = "x86_arm"
		case "arm64":
			token = "x86_arm64"
		}
	case "x64":
		native := form == NativeTokens
		switch normalizeArch(target) {
		case "x86":
			token = pick(native, "x64_x86", "x86")
		case "x64":
			token = pick(native, "x64", "x86_x64")
		case "arm":
			token = pick(native, "x64_arm", "x86_arm")
		case "arm64":
			token = pick(native, "x64_arm64", "x86_arm64")
		}
	}
	if token == "" {
		return "", fmt.Errorf("%w: host %q, target %q", ErrUnsupportedArch, host, target)
	}
	return token, nil
}

func pick(first bool, a, b string) string {
	if first {
		return a
	}
	return b
}
