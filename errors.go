package vcvars

import "errors"

var (
	ErrMissingEnvVar   = errors.New("vcvars: required environment variable not set")
	ErrFileNotFound    = errors.New("vcvars: file not found")
	ErrUnsupportedArch = errors.New("vcvars: unsupported host or target architecture")
	ErrCouldntRun      = errors.New("vcvars: couldn't run")
	ErrVcvarsFailed    = errors.New("vcvars: vcvarsall.bat failed")
	ErrCacheFailed     = errors.New("vcvars: cache I/O failed")
	ErrVarNotFound     = errors.New("vcvars: variable not found")
	ErrBadConfig       = errors.New("vcvars: bad config")
)
