// Package config loads the HCL configuration file for the base16sh server and
// CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "base16sh.hcl"

// Config is the resolved configuration. Every field has a usable default.
type Config struct {
	Server   Server
	Data     Data
	Resolver Resolver
	Log      Log
}

// Server holds HTTP listener settings.
type Server struct {
	Listen          string
	ShutdownTimeout time.Duration
}

// Data locates the scheme and template trees.
type Data struct {
	Schemes   string
	Templates string
}

// Resolver tunes scheme name resolution.
type Resolver struct {
	Threshold float64
}

// Log configures commonlog. An empty File logs to stderr.
type Log struct {
	Verbosity int
	File      string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Listen:          "127.0.0.1:3000",
			ShutdownTimeout: 10 * time.Second,
		},
		Data: Data{
			Schemes:   "data/schemes",
			Templates: "data/templates",
		},
		Resolver: Resolver{Threshold: 0.8},
		Log:      Log{Verbosity: 1},
	}
}

// fileConfig mirrors the HCL layout. Attributes are pointers so that only the
// values present in the file override the defaults.
type fileConfig struct {
	Server   *serverBlock   `hcl:"server,block"`
	Data     *dataBlock     `hcl:"data,block"`
	Resolver *resolverBlock `hcl:"resolver,block"`
	Log      *logBlock      `hcl:"log,block"`
}

type serverBlock struct {
	Listen          *string `hcl:"listen,optional"`
	ShutdownTimeout *string `hcl:"shutdown_timeout,optional"`
}

type dataBlock struct {
	Schemes   *string `hcl:"schemes,optional"`
	Templates *string `hcl:"templates,optional"`
}

type resolverBlock struct {
	Threshold *float64 `hcl:"threshold,optional"`
}

type logBlock struct {
	Verbosity *int    `hcl:"verbosity,optional"`
	File      *string `hcl:"file,optional"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(src, path)
}

// LoadOrDefault behaves like Load but returns the defaults when path does
// not exist.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes HCL source on top of the defaults. filename is used in
// diagnostics only.
func Parse(src []byte, filename string) (Config, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	var raw fileConfig
	if diags := gohcl.DecodeBody(file.Body, buildEvalContext(), &raw); diags.HasErrors() {
		return Config{}, fmt.Errorf("decoding config: %s", diags.Error())
	}

	cfg := Default()
	if err := raw.apply(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (f *fileConfig) apply(cfg *Config) error {
	if s := f.Server; s != nil {
		setIf(&cfg.Server.Listen, s.Listen)
		if s.ShutdownTimeout != nil {
			d, err := time.ParseDuration(*s.ShutdownTimeout)
			if err != nil {
				return fmt.Errorf("server.shutdown_timeout: %w", err)
			}
			cfg.Server.ShutdownTimeout = d
		}
	}
	if d := f.Data; d != nil {
		setIf(&cfg.Data.Schemes, d.Schemes)
		setIf(&cfg.Data.Templates, d.Templates)
	}
	if r := f.Resolver; r != nil {
		setIf(&cfg.Resolver.Threshold, r.Threshold)
	}
	if l := f.Log; l != nil {
		setIf(&cfg.Log.Verbosity, l.Verbosity)
		setIf(&cfg.Log.File, l.File)
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Server.Listen == "":
		return fmt.Errorf("server.listen must not be empty")
	case c.Server.ShutdownTimeout < 0:
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	case c.Data.Schemes == "":
		return fmt.Errorf("data.schemes must not be empty")
	case c.Data.Templates == "":
		return fmt.Errorf("data.templates must not be empty")
	case c.Resolver.Threshold <= 0 || c.Resolver.Threshold > 1:
		return fmt.Errorf("resolver.threshold must be in (0, 1], got %v", c.Resolver.Threshold)
	}
	return nil
}

func buildEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": makeEnvFunc(),
		},
	}
}

// makeEnvFunc creates an HCL function that reads an environment variable.
// Usage: env("NAME", "fallback")
func makeEnvFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Returns the value of an environment variable, or the fallback when it is unset or empty",
		Params: []function.Parameter{
			{
				Name: "name",
				Type: cty.String,
			},
			{
				Name: "fallback",
				Type: cty.String,
			},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			if v := os.Getenv(args[0].AsString()); v != "" {
				return cty.StringVal(v), nil
			}
			return args[1], nil
		},
	})
}
