// Package config loads operator construction parameters from JSON or YAML
// files. Omitted keys fall back to the built-in defaults, so partial files
// are safe.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/fluidsht/internal/sht"
	"github.com/banshee-data/fluidsht/internal/sht/norm"
	"github.com/banshee-data/fluidsht/internal/sht/operators"
)

// DefaultConfigPath is the path to the canonical operator defaults file.
const DefaultConfigPath = "config/operators.defaults.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// OperatorConfig mirrors operators.Options with optional fields. The keys
// match the parameter names accepted on the command line.
type OperatorConfig struct {
	Backend  *string  `json:"backend,omitempty" yaml:"backend,omitempty"`
	Nlat     *int     `json:"nlat,omitempty" yaml:"nlat,omitempty"`
	Nlon     *int     `json:"nlon,omitempty" yaml:"nlon,omitempty"`
	Lmax     *int     `json:"lmax,omitempty" yaml:"lmax,omitempty"`
	Mmax     *int     `json:"mmax,omitempty" yaml:"mmax,omitempty"`
	Mres     *int     `json:"mres,omitempty" yaml:"mres,omitempty"`
	Norm     *string  `json:"norm,omitempty" yaml:"norm,omitempty"`
	CSPhase  *bool    `json:"cs_phase,omitempty" yaml:"cs_phase,omitempty"`
	GridType *string  `json:"grid_type,omitempty" yaml:"grid_type,omitempty"`
	Radius   *float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyOperatorConfig returns an OperatorConfig with all fields set to nil.
func EmptyOperatorConfig() *OperatorConfig {
	return &OperatorConfig{}
}

// DefaultOperatorConfig returns a config with every field set to its default.
func DefaultOperatorConfig() *OperatorConfig {
	return &OperatorConfig{
		Backend:  ptrString("default"),
		Lmax:     ptrInt(sht.DefaultLmax),
		Mres:     ptrInt(1),
		Norm:     ptrString(norm.Default.String()),
		CSPhase:  ptrBool(true),
		GridType: ptrString(sht.Gaussian.String()),
		Radius:   ptrFloat64(sht.DefaultRadius),
	}
}

// LoadOperatorConfig loads an OperatorConfig from a .json, .yaml or .yml file
// of at most 1MB, then validates it.
func LoadOperatorConfig(path string) (*OperatorConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyOperatorConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory or
// one of its parents. Panics if the file cannot be loaded, intended for test
// setup.
func MustLoadDefaultConfig() *OperatorConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/sht/operators/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadOperatorConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the values that can be checked without building a grid.
// Grid compatibility is checked by operators.New.
func (c *OperatorConfig) Validate() error {
	counts := []struct {
		name string
		v    *int
	}{{"nlat", c.Nlat}, {"nlon", c.Nlon}, {"mmax", c.Mmax}, {"mres", c.Mres}}
	for _, f := range counts {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", f.name, *f.v)
		}
	}
	if c.Lmax != nil && *c.Lmax < 1 {
		return fmt.Errorf("lmax must be at least 1, got %d", *c.Lmax)
	}
	if r := c.Radius; r != nil && (!(*r > 0) || math.IsInf(*r, 0)) {
		return fmt.Errorf("radius must be positive and finite, got %g", *r)
	}
	if c.Norm != nil {
		if _, err := norm.Parse(*c.Norm); err != nil {
			return err
		}
	}
	if c.GridType != nil {
		if _, err := sht.ParseGridType(*c.GridType); err != nil {
			return err
		}
	}
	return nil
}

// GetBackend returns the backend selector or "default".
func (c *OperatorConfig) GetBackend() string {
	if c.Backend == nil || *c.Backend == "" {
		return "default"
	}
	return *c.Backend
}

// GetNlat returns nlat, or 0 to derive it from lmax.
func (c *OperatorConfig) GetNlat() int {
	if c.Nlat == nil {
		return 0
	}
	return *c.Nlat
}

// GetNlon returns nlon, or 0 to derive it from mmax.
func (c *OperatorConfig) GetNlon() int {
	if c.Nlon == nil {
		return 0
	}
	return *c.Nlon
}

// GetLmax returns lmax or the default.
func (c *OperatorConfig) GetLmax() int {
	if c.Lmax == nil {
		return sht.DefaultLmax
	}
	return *c.Lmax
}

// GetMmax returns mmax, or 0 for lmax/mres.
func (c *OperatorConfig) GetMmax() int {
	if c.Mmax == nil {
		return 0
	}
	return *c.Mmax
}

// GetMres returns mres or 1.
func (c *OperatorConfig) GetMres() int {
	if c.Mres == nil || *c.Mres == 0 {
		return 1
	}
	return *c.Mres
}

// GetNorm returns the normalization name or the default.
func (c *OperatorConfig) GetNorm() string {
	if c.Norm == nil || *c.Norm == "" {
		return norm.Default.String()
	}
	return *c.Norm
}

// GetCSPhase returns cs_phase or true.
func (c *OperatorConfig) GetCSPhase() bool {
	if c.CSPhase == nil {
		return true
	}
	return *c.CSPhase
}

// GetGridType returns the grid type name or "gaussian".
func (c *OperatorConfig) GetGridType() string {
	if c.GridType == nil || *c.GridType == "" {
		return sht.Gaussian.String()
	}
	return *c.GridType
}

// GetRadius returns the sphere radius or 1.
func (c *OperatorConfig) GetRadius() float64 {
	if c.Radius == nil {
		return sht.DefaultRadius
	}
	return *c.Radius
}

// Options converts the config to construction options for operators.New.
func (c *OperatorConfig) Options() operators.Options {
	cs := c.GetCSPhase()
	return operators.Options{
		Backend:  c.GetBackend(),
		Nlat:     c.GetNlat(),
		Nlon:     c.GetNlon(),
		Lmax:     c.GetLmax(),
		Mmax:     c.GetMmax(),
		Mres:     c.GetMres(),
		Norm:     c.GetNorm(),
		CSPhase:  &cs,
		GridType: c.GetGridType(),
		Radius:   c.GetRadius(),
	}
}
