package vcvars

import (
	"strings"
	"testing"
)

func TestParseEnvDump(t *testing.T) {
	t.Run("collects only after separator", func(t *testing.T) {
		dump := "**********************************************************************\r\n" +
			"** Visual Studio 2022 Developer Command Prompt v17.8.3\r\n" +
			"PREAMBLE=should not be collected\r\n" +
			separatorLine + " \r\n" + // cmd.exe appends a trailing space
			"FOO=bar\r\n" +
			"BADLINE\r\n" +
			"path=C:\\first;C:\\second\r\n" +
			"EMPTY=\r\n"

		env := parseEnvDump(dump, separatorLine)

		if got := env["FOO"]; got != "bar" {
			t.Fatalf("FOO = %q, want %q", got, "bar")
		}
		if got := env["PATH"]; got != `C:\first;C:\second` {
			t.Fatalf("PATH = %q, want %q", got, `C:\first;C:\second`)
		}
		if got, ok := env["EMPTY"]; !ok || got != "" {
			t.Fatalf("EMPTY = %q (present=%v), want empty string", got, ok)
		}
		if _, ok := env["PREAMBLE"]; ok {
			t.Fatalf("PREAMBLE collected from before the separator")
		}
		if len(env) != 3 {
			t.Fatalf("len(env) = %d, want 3 (BADLINE must be ignored): %v", len(env), env)
		}
	})

	t.Run("separator without trailing space", func(t *testing.T) {
		env := parseEnvDump(separatorLine+"\r\nA=1\r\n", separatorLine)
		if got := env["A"]; got != "1" {
			t.Fatalf("A = %q, want %q", got, "1")
		}
	})

	t.Run("value containing equals sign", func(t *testing.T) {
		env := parseEnvDump(separatorLine+"\r\nVAR=a=b\r\n", separatorLine)
		if got := env["VAR"]; got != "a=b" {
			t.Fatalf("VAR = %q, want %q (split on first '=' only)", got, "a=b")
		}
	})

	t.Run("oversized value comes through intact", func(t *testing.T) {
		// Far beyond any fixed line buffer; nothing after it may be lost.
		long := strings.Repeat(`C:\very\long\include\path;`, 100_000)
		dump := separatorLine + "\r\nINCLUDE=" + long + "\r\nAFTER=ok\r\n"

		env := parseEnvDump(dump, separatorLine)
		if got := env["INCLUDE"]; got != long {
			t.Fatalf("INCLUDE truncated: got %d bytes, want %d", len(got), len(long))
		}
		if got := env["AFTER"]; got != "ok" {
			t.Fatalf("AFTER = %q, want %q (variables after a long line were dropped)", got, "ok")
		}
	})

	t.Run("no separator yields empty map", func(t *testing.T) {
		env := parseEnvDump("FOO=bar\r\nBAZ=qux\r\n", separatorLine)
		if len(env) != 0 {
			t.Fatalf("len(env) = %d, want 0", len(env))
		}
	})
}

func TestEscapeCmdMeta(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`C:\Program Files\Microsoft Visual Studio`, `C:\Program Files\Microsoft Visual Studio`},
		{`C:\Tools^Here\vcvarsall.bat`, `C:\Tools^^Here\vcvarsall.bat`},
		{`C:\A & B\vcvarsall.bat`, `C:\A ^& B\vcvarsall.bat`},
		{`^&`, `^^^&`},
		{"", ""},
	}
	for _, tc := range tests {
		if got := escapeCmdMeta(tc.in); got != tc.want {
			t.Errorf("escapeCmdMeta(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestJoinLines(t *testing.T) {
	got := joinLines("[ERROR:vcvarsall.bat] Invalid architecture\r\nUsage: vcvarsall.bat [arch]\r\n")
	want := `[ERROR:vcvarsall.bat] Invalid architecture\nUsage: vcvarsall.bat [arch]`
	if got != want {
		t.Fatalf("joinLines = %q, want %q", got, want)
	}
}
