// Package vcvars resolves the environment variables that vcvarsall.bat
// injects into a shell session (INCLUDE, LIB, VisualStudioVersion, ...) and
// makes them queryable from a Go build step without paying for the batch
// script on every invocation.
//
// A Vcvars instance runs vcvarsall.bat in a cmd.exe child process at most
// once and serves every lookup from the captured environment. GetCached
// additionally persists each value to a per-variable file under the build
// output directory, so later process invocations skip the child process
// entirely.
//
// Use filepath.SplitList to split a list variable like INCLUDE before
// feeding it to a compiler invocation.
package vcvars

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"
)

// runFunc spawns a child process and returns its captured standard output.
// A non-zero exit status is not an error: vcvarsall.bat exits 0 even when it
// fails, so exit codes carry no signal here. Only spawn failures surface.
type runFunc func(exe string, args ...string) ([]byte, error)

func runCommand(exe string, args ...string) ([]byte, error) {
	cmd := exec.Command(exe, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, err
	}
	return stdout.Bytes(), nil
}

// Vcvars resolves the post-vcvarsall environment. The zero value is not
// usable; construct instances with New. Instances are not safe for
// concurrent use.
type Vcvars struct {
	envMap map[string]string

	vswhereArgs []string
	targetArch  string
	tokens      ArchTokens
	outDir      string

	hostArch string
	run      runFunc
	store    cacheStore
}

// Option configures a Vcvars instance.
type Option func(*Vcvars)

// WithVswhereArgs replaces the default "-latest" installation selector
// passed to vswhere.exe. The replacement is wholesale: the given arguments
// substitute "-latest" rather than merging with it. Useful for pinning a
// version range, e.g. WithVswhereArgs("-version", "[17.0,18.0)").
//
// Run `vswhere -help` for the supported selectors.
func WithVswhereArgs(args ...string) Option {
	return func(v *Vcvars) { v.vswhereArgs = args }
}

// WithTargetArch sets the target architecture instead of reading it from the
// VCVARS_TARGET_ARCH environment variable. Both GOARCH spellings (386,
// amd64, arm, arm64) and the x86/x86_64/arm/aarch64 spellings are accepted.
func WithTargetArch(arch string) Option {
	return func(v *Vcvars) { v.targetArch = arch }
}

// WithArchTokens selects which spelling of the vcvarsall architecture token
// is used for x64 hosts. See ArchTokens.
func WithArchTokens(form ArchTokens) Option {
	return func(v *Vcvars) { v.tokens = form }
}

// WithOutDir sets the base output directory for GetCached instead of reading
// it from the VCVARS_OUT_DIR environment variable. The directory must exist.
func WithOutDir(dir string) Option {
	return func(v *Vcvars) { v.outDir = dir }
}

// New creates a Vcvars instance. The expensive discovery-and-run sequence is
// deferred until the first Get or cache-missing GetCached call.
func New(opts ...Option) *Vcvars {
	v := &Vcvars{
		hostArch: runtime.GOARCH,
		run:      runCommand,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewFromConfig creates a Vcvars instance configured from a settings file.
// See LoadConfig for the supported formats.
func NewFromConfig(path string) (*Vcvars, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return New(opts...), nil
}

// Get returns the value of the named variable from the vcvarsall
// environment, building the in-memory environment map first if this instance
// has not done so yet. Lookups are case-insensitive. A missing variable
// yields ErrVarNotFound naming the requested spelling.
func (v *Vcvars) Get(name string) (string, error) {
	m, err := v.ensureEnvMap()
	if err != nil {
		return "", err
	}
	value, ok := m[strings.ToUpper(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrVarNotFound, name)
	}
	return value, nil
}

// ensureEnvMap builds the environment map on first use. A failed build is
// not memoized; the next call retries the whole discovery-and-run sequence.
func (v *Vcvars) ensureEnvMap() (map[string]string, error) {
	if v.envMap == nil {
		m, err := v.makeEnvMap()
		if err != nil {
			return nil, err
		}
		v.envMap = m
	}
	return v.envMap, nil
}

func (v *Vcvars) makeEnvMap() (map[string]string, error) {
	tools, err := locateTools()
	if err != nil {
		return nil, err
	}

	target, err := v.resolveTargetArch()
	if err != nil {
		return nil, err
	}
	token, err := archToken(v.hostArch, target, v.tokens)
	if err != nil {
		return nil, err
	}

	root, err := v.installationRoot(tools.vswhere)
	if err != nil {
		return nil, err
	}

	// Usage: https://learn.microsoft.com/en-us/cpp/build/building-on-the-command-line
	script := filepath.Join(root, "VC", "Auxiliary", "Build", "vcvarsall.bat")
	if !isRegularFile(script) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, script)
	}

	// Chain vcvarsall, a sentinel echo and a full environment dump into one
	// cmd.exe invocation. Escaping % by doubling it does not work in cmd.exe;
	// only ^ and & are handled.
	out, err := v.run(tools.cmd,
		"/C",
		escapeCmdMeta(script), token, "&&",
		"echo."+separatorLine, "&&",
		"set",
	)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCouldntRun, tools.cmd, err)
	}
	stdout := strings.ToValidUTF8(string(out), "�")

	// vcvarsall.bat exits 0 even when it fails; the error marker in its
	// output is the only reliable failure signal.
	if strings.HasPrefix(stdout, errorMarker) {
		return nil, fmt.Errorf("%w: %s", ErrVcvarsFailed, joinLines(stdout))
	}
	return parseEnvDump(stdout, separatorLine), nil
}

func (v *Vcvars) resolveTargetArch() (string, error) {
	if v.targetArch != "" {
		return v.targetArch, nil
	}
	target, ok := os.LookupEnv(targetArchEnv)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingEnvVar, targetArchEnv)
	}
	return target, nil
}

// installationRoot asks vswhere.exe for the installation path of the
// selected Visual Studio instance. Preview installations are eligible.
func (v *Vcvars) installationRoot(vswhere string) (string, error) {
	args := []string{"-prerelease"}
	if len(v.vswhereArgs) > 0 {
		args = append(args, v.vswhereArgs...)
	} else {
		args = append(args, "-latest")
	}
	args = append(args, "-property", "installationPath", "-utf8")

	out, err := v.run(vswhere, args...)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrCouldntRun, vswhere, err)
	}
	if !utf8.Valid(out) {
		// vswhere is documented to emit valid UTF-8 under -utf8.
		panic("vcvars: vswhere.exe emitted invalid UTF-8 despite -utf8")
	}
	return strings.TrimSpace(string(out)), nil
}
