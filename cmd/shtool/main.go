// Command shtool inspects and exercises the spherical harmonic operators:
// it reports grid parameters, checks transform round trips, decomposes
// analytic flows and draws fields and spectra.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/banshee-data/fluidsht/internal/config"
	"github.com/banshee-data/fluidsht/internal/monitoring"
	"github.com/banshee-data/fluidsht/internal/sht/operators"
)

var (
	// Global flags
	verbose    bool
	configPath string
	backend    string
	lmax       int
	normName   string
	gridType   string
	radius     float64

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shtool",
	Short: "Spherical harmonic operator toolkit",
	Long: `shtool builds 2-D spherical harmonic operators from a config file and
command line overrides, then runs transforms, Helmholtz decompositions and
spectra on them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		monitoring.UseZap(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVarP(&configPath, "config", "c", "", "Operator config file (.json, .yaml)")
	pf.StringVar(&backend, "backend", "", "Backend selector, e.g. sht2d.with_direct")
	pf.IntVar(&lmax, "lmax", 0, "Truncation degree")
	pf.StringVar(&normName, "norm", "", "Normalization: fourpi, orthonormal, schmidt, unnormalized")
	pf.StringVar(&gridType, "grid", "", "Grid type: gaussian or regular")
	pf.Float64Var(&radius, "radius", 0, "Sphere radius")

	rootCmd.AddCommand(infoCmd, roundTripCmd, decomposeCmd, spectrumCmd, plotCmd, reportCmd, versionCmd)
}

// loadConfig reads --config, or the built-in defaults, and applies the
// operator flags that were set on the command line.
func loadConfig(cmd *cobra.Command) (*config.OperatorConfig, error) {
	cfg := config.DefaultOperatorConfig()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadOperatorConfig(configPath); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = &backend
	}
	if flags.Changed("lmax") {
		cfg.Lmax = &lmax
	}
	if flags.Changed("norm") {
		cfg.Norm = &normName
	}
	if flags.Changed("grid") {
		cfg.GridType = &gridType
	}
	if flags.Changed("radius") {
		cfg.Radius = &radius
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newOperators(cmd *cobra.Command) (*operators.Operators2D, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	oper, err := operators.New(cfg.Options())
	if err != nil {
		return nil, err
	}
	logger.Debug("operators ready",
		zap.String("backend", oper.TypeSHT()),
		zap.Stringer("convention", oper.Convention()),
		zap.Int("nlat", oper.Nlat()),
		zap.Int("nlon", oper.Nlon()),
		zap.Int("nlm", oper.NLM()))
	return oper, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
