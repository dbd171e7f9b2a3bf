package vcvars

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Config is the optional settings file for a Vcvars instance, letting a
// repository pin a Visual Studio version range or architecture without code
// changes. The format is chosen by file extension: .json, .yaml/.yml, .toml
// or .ini (keys in the default section, vswhere_args comma-separated).
//
// Example (vcvars.toml):
//
//	vswhere_args = ["-version", "[17.0,18.0)"]
//	target_arch = "arm64"
//	arch_tokens = "x86-prefixed"
//	out_dir = "${TEMP}/build-out"
type Config struct {
	// VswhereArgs fully replaces the "-latest" selector passed to vswhere.
	VswhereArgs []string `json:"vswhere_args" yaml:"vswhere_args" toml:"vswhere_args"`
	// TargetArch overrides the VCVARS_TARGET_ARCH environment variable.
	TargetArch string `json:"target_arch" yaml:"target_arch" toml:"target_arch"`
	// ArchTokens is "native" (default) or "x86-prefixed"; see ArchTokens.
	ArchTokens string `json:"arch_tokens" yaml:"arch_tokens" toml:"arch_tokens"`
	// OutDir overrides the VCVARS_OUT_DIR environment variable. Environment
	// references like ${TEMP} are expanded.
	OutDir string `json:"out_dir" yaml:"out_dir" toml:"out_dir"`
}

type configDecoder func(data []byte, cfg *Config) error

var configDecoders = map[string]configDecoder{
	".json": decodeJSONConfig,
	".yaml": decodeYAMLConfig,
	".yml":  decodeYAMLConfig,
	".toml": decodeTOMLConfig,
	".ini":  decodeINIConfig,
}

// LoadConfig reads and decodes a settings file. The path may reference
// environment variables (e.g. "${USERPROFILE}/vcvars.yaml").
func LoadConfig(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	data, err := os.ReadFile(path)
	return decodeConfig(path, data, err)
}

// LoadConfigFS is LoadConfig reading from fsys instead of the host
// filesystem, for settings embedded with go:embed or served from a test
// fstest.MapFS. The format is chosen by extension, as with LoadConfig.
func LoadConfigFS(fsys fs.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(fsys, path)
	return decodeConfig(path, data, err)
}

func decodeConfig(path string, data []byte, readErr error) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := configDecoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrBadConfig, ext)
	}

	if readErr != nil {
		if errors.Is(readErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrBadConfig, path, readErr)
	}

	cfg := &Config{}
	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadConfig, path, err)
	}
	return cfg, nil
}

// Options converts the config into functional options for New. Unset fields
// produce no option, so config files can be partial.
func (c *Config) Options() ([]Option, error) {
	var opts []Option
	if len(c.VswhereArgs) > 0 {
		opts = append(opts, WithVswhereArgs(c.VswhereArgs...))
	}
	if c.TargetArch != "" {
		opts = append(opts, WithTargetArch(c.TargetArch))
	}
	switch c.ArchTokens {
	case "", "native":
	case "x86-prefixed":
		opts = append(opts, WithArchTokens(X86PrefixedTokens))
	default:
		return nil, fmt.Errorf("%w: unknown arch_tokens value %q", ErrBadConfig, c.ArchTokens)
	}
	if c.OutDir != "" {
		opts = append(opts, WithOutDir(os.ExpandEnv(c.OutDir)))
	}
	return opts, nil
}

func decodeJSONConfig(data []byte, cfg *Config) error {
	return json.Unmarshal(data, cfg)
}

func decodeYAMLConfig(data []byte, cfg *Config) error {
	return yaml.Unmarshal(data, cfg)
}

func decodeTOMLConfig(data []byte, cfg *Config) error {
	return toml.Unmarshal(data, cfg)
}

func decodeINIConfig(data []byte, cfg *Config) error {
	f, err := ini.Load(data)
	if err != nil {
		return err
	}
	section := f.Section("")
	if key := section.Key("vswhere_args"); key.String() != "" {
		cfg.VswhereArgs = key.Strings(",")
	}
	cfg.TargetArch = section.Key("target_arch").String()
	cfg.ArchTokens = section.Key("arch_tokens").String()
	cfg.OutDir = section.Key("out_dir").String()
	return nil
}
