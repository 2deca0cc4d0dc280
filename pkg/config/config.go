// Package config loads codematrix configuration files.
//
// A file may be TOML or YAML, chosen by extension. Values present in the
// file override [Default]; absent keys keep their default. Unknown keys are
// rejected so typos surface instead of silently falling back.
//
//	# codematrix.toml
//	[layout]
//	column_width = 800
//	row_strategy = "guillotine"
//
//	[layout.class]
//	width = 180
//	height = 40
//
//	[render]
//	formats = ["svg", "png"]
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/layout"
)

// FileNames are the names [Discover] looks for, in order.
var FileNames = []string{"codematrix.toml", "codematrix.yaml", "codematrix.yml"}

// Visualization types.
const (
	VizMatrix   = "matrix"
	VizNodelink = "nodelink"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatJSON, FormatPNG, FormatPDF}

// Config is the full configuration file.
type Config struct {
	Layout layout.Config `json:"layout" toml:"layout" yaml:"layout"`
	Render Render        `json:"render" toml:"render" yaml:"render"`
	Cache  Cache         `json:"cache" toml:"cache" yaml:"cache"`
}

// Render selects what the render command produces.
type Render struct {
	VizType string   `json:"type" toml:"type" yaml:"type"`
	Formats []string `json:"formats" toml:"formats" yaml:"formats"`
	// ShowEdges draws call edges between placed boxes in matrix SVGs.
	ShowEdges bool `json:"show_edges" toml:"show_edges" yaml:"show_edges"`
}

// Cache selects the cache backend. An empty URL means the file cache.
type Cache struct {
	URL string `json:"url" toml:"url" yaml:"url"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: layout.DefaultConfig(),
		Render: Render{VizType: VizMatrix, Formats: []string{FormatSVG}},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	return c.Render.Validate()
}

// Validate checks the viz type and formats.
func (r Render) Validate() error {
	switch r.VizType {
	case "", VizMatrix, VizNodelink:
	default:
		return errors.New(errors.ErrCodeInvalidVizType, "unknown visualization type %q (must be matrix or nodelink)", r.VizType)
	}
	for _, f := range r.Formats {
		if !slices.Contains(Formats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (must be svg, json, png or pdf)", f)
		}
	}
	return nil
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return Config{}, err
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data in the format named by ext (".toml", ".yaml" or
// ".yml") over the defaults and validates the result.
func Parse(data []byte, ext string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml")
		}
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported config extension %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Discover returns the first of [FileNames] present in dir, or "".
func Discover(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// Marshal encodes c as TOML.
func Marshal(c Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
