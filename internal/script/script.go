// Package script replays editing actions from YAML or TOML files against an
// editor session, for headless automation and regression scenarios.
package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownAction is returned for a step whose action is not recognised.
	ErrUnknownAction = errors.New("unknown action")
	// ErrInvalidStep is returned for a step with missing or malformed parameters.
	ErrInvalidStep = errors.New("invalid step")
	// ErrUnsupportedFormat is returned for script files that are neither YAML nor TOML.
	ErrUnsupportedFormat = errors.New("unsupported script format")
	// ErrExpectation is returned when a step's expect block does not hold.
	ErrExpectation = errors.New("expectation failed")
)

// Script is an ordered list of editing steps.
type Script struct {
	Name  string `yaml:"name" toml:"name"`
	Steps []Step `yaml:"steps" toml:"steps"`
}

// Step is one action and its parameters. Parameters not used by an action
// are ignored.
type Step struct {
	Action string `yaml:"action" toml:"action"`

	Mode     string      `yaml:"mode,omitempty" toml:"mode,omitempty"`         // mode, gizmo
	Face     []int       `yaml:"face,omitempty" toml:"face,omitempty"`         // layer, object, face
	Object   []int       `yaml:"object,omitempty" toml:"object,omitempty"`     // layer, object
	At       []float32   `yaml:"at,omitempty" toml:"at,omitempty"`             // x, y, z
	Delta    []float32   `yaml:"delta,omitempty" toml:"delta,omitempty"`       // x, y, z
	Axis     []float32   `yaml:"axis,omitempty" toml:"axis,omitempty"`         // x, y, z
	Angle    float32     `yaml:"angle,omitempty" toml:"angle,omitempty"`       // degrees
	Factor   []float32   `yaml:"factor,omitempty" toml:"factor,omitempty"`     // one uniform value or x, y, z
	Color    []float32   `yaml:"color,omitempty" toml:"color,omitempty"`       // r, g, b, a
	Opacity  *float32    `yaml:"opacity,omitempty" toml:"opacity,omitempty"`   // default 1
	Tile     []float32   `yaml:"tile,omitempty" toml:"tile,omitempty"`         // min u, min v, max u, max v
	Distance *float32    `yaml:"distance,omitempty" toml:"distance,omitempty"` // extrude, default from prefs
	Count    int         `yaml:"count,omitempty" toml:"count,omitempty"`       // undo, redo repeats
	Additive bool        `yaml:"additive,omitempty" toml:"additive,omitempty"`
	Name     string      `yaml:"name,omitempty" toml:"name,omitempty"`
	Expect   *Expectancy `yaml:"expect,omitempty" toml:"expect,omitempty"`
}

// Expectancy checks scene counters after a step.
type Expectancy struct {
	Faces   *int `yaml:"faces,omitempty" toml:"faces,omitempty"`
	Objects *int `yaml:"objects,omitempty" toml:"objects,omitempty"`
	Undo    *int `yaml:"undo,omitempty" toml:"undo,omitempty"`
	Redo    *int `yaml:"redo,omitempty" toml:"redo,omitempty"`
}

// Load reads a script file, choosing the format by extension.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes a script. ext is a file extension such as ".yaml" or ".toml".
func Parse(data []byte, ext string) (*Script, error) {
	var s Script
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	case ".toml":
		err = toml.Unmarshal(data, &s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
