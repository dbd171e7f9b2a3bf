package vcvars

import (
	"errors"
	"testing"
)

func TestArchToken(t *testing.T) {
	tests := []struct {
		host   string
		target string
		form   ArchTokens
		want   string
	}{
		// x86 host
		{"386", "386", NativeTokens, "x86"},
		{"386", "amd64", NativeTokens, "x86_x64"},
		{"386", "arm", NativeTokens, "x86_arm"},
		{"386", "arm64", NativeTokens, "x86_arm64"},
		// x64 host, native spellings
		{"amd64", "386", NativeTokens, "x64_x86"},
		{"amd64", "amd64", NativeTokens, "x64"},
		{"amd64", "arm", NativeTokens, "x64_arm"},
		{"amd64", "arm64", NativeTokens, "x64_arm64"},
		// x64 host, x86-prefixed spellings
		{"amd64", "386", X86PrefixedTokens, "x86"},
		{"amd64", "amd64", X86PrefixedTokens, "x86_x64"},
		{"amd64", "arm", X86PrefixedTokens, "x86_arm"},
		{"amd64", "arm64", X86PrefixedTokens, "x86_arm64"},
		// alternate spellings fold into the same families
		{"x86_64", "aarch64", NativeTokens, "x64_arm64"},
		{"x86", "x86_64", NativeTokens, "x86_x64"},
		{"AMD64", "X86", NativeTokens, "x64_x86"},
	}
	for _, tc := range tests {
		got, err := archToken(tc.host, tc.target, tc.form)
		if err != nil {
			t.Errorf("archToken(%q, %q, %v) unexpected error: %v", tc.host, tc.target, tc.form, err)
			continue
		}
		if got != tc.want {
			t.Errorf("archToken(%q, %q, %v) = %q, want %q", tc.host, tc.target, tc.form, got, tc.want)
		}
	}
}

func TestArchToken_Unsupported(t *testing.T) {
	pairs := [][2]string{
		{"amd64", "riscv64"},
		{"386", "mips"},
		{"arm64", "arm64"}, // arm64 hosts are not in the table
		{"", "amd64"},
		{"amd64", ""},
	}
	for _, pair := range pairs {
		_, err := archToken(pair[0], pair[1], NativeTokens)
		if !errors.Is(err, ErrUnsupportedArch) {
			t.Errorf("archToken(%q, %q) error = %v, want ErrUnsupportedArch", pair[0], pair[1], err)
		}
	}
}
