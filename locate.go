package vcvars

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables read at resolution time. The first two are supplied
// by Windows itself; the latter two are the build orchestrator's slots.
const (
	programFilesX86Env = "ProgramFiles(x86)"
	winDirEnv          = "WINDIR"
	targetArchEnv      = "VCVARS_TARGET_ARCH"
	outDirEnv          = "VCVARS_OUT_DIR"
)

// toolPaths holds the discovered executables. Recomputed on every build of
// the environment map, never persisted.
type toolPaths struct {
	vswhere string
	cmd     string
}

// locateTools computes the vswhere.exe and cmd.exe paths from their
// well-known locations. Microsoft documents the vswhere location as fixed:
// https://github.com/Microsoft/vswhere/wiki/Installing
func locateTools() (toolPaths, error) {
	programFiles, ok := os.LookupEnv(programFilesX86Env)
	if !ok {
		return toolPaths{}, fmt.Errorf("%w: %s", ErrMissingEnvVar, programFilesX86Env)
	}
	winDir, ok := os.LookupEnv(winDirEnv)
	if !ok {
		return toolPaths{}, fmt.Errorf("%w: %s", ErrMissingEnvVar, winDirEnv)
	}

	vswhere := filepath.Join(programFiles, "Microsoft Visual Studio", "Installer", "vswhere.exe")
	if !isRegularFile(vswhere) {
		return toolPaths{}, fmt.Errorf("%w: %s", ErrFileNotFound, vswhere)
	}

	return toolPaths{
		vswhere: vswhere,
		cmd:     filepath.Join(winDir, "System32", "cmd.exe"),
	}, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
