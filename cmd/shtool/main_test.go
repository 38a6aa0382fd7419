package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/banshee-data/fluidsht/internal/config"
	"github.com/banshee-data/fluidsht/internal/sht"
	"github.com/banshee-data/fluidsht/internal/version"
)

// setup points the commands at a config file in a temp dir and returns a
// command whose output is captured.
func setup(t *testing.T, cfgYAML string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	logger = zap.NewNop()
	dir := t.TempDir()
	path := filepath.Join(dir, "operators.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfgYAML), 0o644))

	oldPath, oldFlow := configPath, flowName
	t.Cleanup(func() { configPath, flowName = oldPath, oldFlow })
	configPath = path
	flowName = "rh"

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out
}

func TestLoadConfig_Defaults(t *testing.T) {
	configPath = ""
	cfg, err := loadConfig(&cobra.Command{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultOperatorConfig(), cfg)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	configPath = ""
	cmd := &cobra.Command{}
	cmd.Flags().IntVar(&lmax, "lmax", 0, "")
	cmd.Flags().StringVar(&normName, "norm", "", "")
	require.NoError(t, cmd.Flags().Set("lmax", "9"))
	require.NoError(t, cmd.Flags().Set("norm", "schmidt"))
	t.Cleanup(func() { lmax, normName = 0, "" })

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.GetLmax())
	assert.Equal(t, "schmidt", cfg.GetNorm())
	assert.Equal(t, "gaussian", cfg.GetGridType())
}

func TestLoadConfig_Invalid(t *testing.T) {
	configPath = ""
	cmd := &cobra.Command{}
	cmd.Flags().Float64Var(&radius, "radius", 0, "")
	require.NoError(t, cmd.Flags().Set("radius", "-2"))
	t.Cleanup(func() { radius = 0 })

	_, err := loadConfig(cmd)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestNewOperators_ConfigError(t *testing.T) {
	cmd, _ := setup(t, "nlat: 15\nlmax: 15\n")
	_, err := newOperators(cmd)
	assert.ErrorIs(t, err, sht.ErrConfiguration)
}

func TestInfo(t *testing.T) {
	cmd, out := setup(t, "lmax: 8\nbackend: sht2d.with_direct\n")
	require.NoError(t, infoCmd.RunE(cmd, nil))

	s := out.String()
	assert.Contains(t, s, "sht2d.with_direct")
	assert.Contains(t, s, "gaussian nlat=9 nlon=17")
	assert.Contains(t, s, "nlm=45")
}

func TestRoundTrip(t *testing.T) {
	for _, cfg := range []string{
		"lmax: 10\n",
		"lmax: 10\ngrid_type: regular\nnorm: orthonormal\n",
		"lmax: 10\nbackend: sht2d.with_direct\nnorm: unnormalized\ncs_phase: false\n",
		"lmax: 10\nbackend: sht2d.with_direct\nnorm: schmidt\n",
	} {
		t.Run(strings.ReplaceAll(cfg, "\n", " "), func(t *testing.T) {
			cmd, out := setup(t, cfg)
			rtSeed, rtTol, rtJSON = 7, 1e-10, ""
			require.NoError(t, runRoundTrip(cmd, nil))
			assert.Contains(t, out.String(), "PASS")
		})
	}
}

func TestRoundTrip_JSONReport(t *testing.T) {
	cmd, out := setup(t, "lmax: 6\n")
	rtSeed, rtTol, rtJSON = 3, 1e-10, "-"
	t.Cleanup(func() { rtJSON = "" })
	require.NoError(t, runRoundTrip(cmd, nil))

	var r roundTripReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	_, err := uuid.Parse(r.RunID)
	assert.NoError(t, err)
	assert.True(t, r.Passed)
	assert.Equal(t, "sht2d.with_gonum", r.Backend)
	assert.Equal(t, 28, r.NLM)
	names := make([]string, len(r.Checks))
	for i, c := range r.Checks {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"sht(isht)", "vsh(vec)", "divrot(vec)", "invlap(lap)"}, names)
}

func TestRoundTrip_Failure(t *testing.T) {
	cmd, out := setup(t, "lmax: 6\n")
	path := filepath.Join(t.TempDir(), "report.json")
	rtSeed, rtTol, rtJSON = 3, -1, path
	t.Cleanup(func() { rtJSON, rtTol = "", 1e-10 })

	assert.ErrorIs(t, runRoundTrip(cmd, nil), errChecksFailed)
	assert.Contains(t, out.String(), "FAIL")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var r roundTripReport
	require.NoError(t, json.Unmarshal(data, &r))
	assert.False(t, r.Passed)
}

func TestDecompose(t *testing.T) {
	for _, flow := range []string{"solid", "rh"} {
		t.Run(flow, func(t *testing.T) {
			cmd, out := setup(t, "lmax: 12\nradius: 6371220\n")
			flowName = flow
			require.NoError(t, runDecompose(cmd, nil))
			s := out.String()
			assert.Contains(t, s, "flow            "+flow)
			assert.Contains(t, s, "max |div|")
			assert.Contains(t, s, "vorticity error")
		})
	}
}

func TestDecompose_Errors(t *testing.T) {
	cmd, _ := setup(t, "lmax: 3\n")
	assert.ErrorContains(t, runDecompose(cmd, nil), "needs lmax >= 5")

	flowName = "vortex"
	assert.ErrorContains(t, runDecompose(cmd, nil), "unknown flow")
}

func TestDecompose_OrdersMustHoldWave(t *testing.T) {
	cmd, out := setup(t, "lmax: 8\nmres: 3\n")
	assert.ErrorContains(t, runDecompose(cmd, nil), "zonal wavenumber 4")
	assert.Empty(t, out.String())

	cmd, out = setup(t, "lmax: 8\nmres: 2\n")
	require.NoError(t, runDecompose(cmd, nil))
	assert.Contains(t, out.String(), "vorticity error")
}

func TestAnalysis(t *testing.T) {
	cmd, _ := setup(t, "lmax: 10\nradius: 2\n")
	oper, err := newOperators(cmd)
	require.NoError(t, err)
	a, err := analyzeFlow(oper, "rh")
	require.NoError(t, err)

	assert.Less(t, maxAbs(a.divergence), 1e-12*maxAbs(a.vorticity))
	assert.Less(t, maxAbsDiff(a.vorticity, a.flow.Vorticity), 1e-9*maxAbs(a.flow.Vorticity))

	// ψ has no l = 0 part, so its Laplacian is the vorticity.
	psiLM := oper.SHT(a.streamfunction, nil)
	assert.Less(t, maxAbsDiff(oper.ISHT(oper.LaplacianSH(psiLM, false, nil), nil), a.vorticity),
		1e-9*maxAbs(a.vorticity))

	series := a.spectra()
	require.Len(t, series, 3)
	for _, s := range series {
		assert.Len(t, s.Values, 11)
	}
	// The wave lives at l = 1 (solid-body part) and l = 5.
	rotational := series[0].Values
	assert.Greater(t, rotational[1], 0.0)
	assert.Greater(t, rotational[5], 0.0)
	assert.Less(t, rotational[3], 1e-20*rotational[5])

	for _, name := range []string{"u", "v", "vorticity", "divergence", "streamfunction"} {
		f, err := a.field(name)
		require.NoError(t, err)
		assert.NoError(t, f.Validate())
	}
	_, err = a.field("pressure")
	assert.Error(t, err)
}

func TestSpectrum(t *testing.T) {
	cmd, out := setup(t, "lmax: 8\n")
	dir := t.TempDir()
	specHTML = filepath.Join(dir, "spectrum.html")
	specPNG = filepath.Join(dir, "spectrum.png")
	specJSON = filepath.Join(dir, "spectrum.json")
	t.Cleanup(func() { specHTML, specPNG, specJSON = "", "", "" })

	require.NoError(t, runSpectrum(cmd, nil))
	assert.Contains(t, out.String(), "rotational energy")
	assert.Equal(t, 1+9, strings.Count(out.String(), "\n"))

	for _, p := range []string{specHTML, specPNG, specJSON} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	data, err := os.ReadFile(specJSON)
	require.NoError(t, err)
	var r spectrumReport
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, "rh", r.Flow)
	assert.Len(t, r.Spectra["enstrophy"], 9)
}

func TestPlot(t *testing.T) {
	cmd, out := setup(t, "lmax: 8\n")
	assert.ErrorContains(t, runPlot(cmd, nil), "nothing to do")

	dir := t.TempDir()
	plotField = "streamfunction"
	plotPNG = filepath.Join(dir, "psi.png")
	plotHTML = filepath.Join(dir, "psi.html")
	t.Cleanup(func() { plotField, plotPNG, plotHTML = "vorticity", "", "" })

	require.NoError(t, runPlot(cmd, nil))
	assert.Contains(t, out.String(), "psi.png")
	assert.FileExists(t, plotPNG)
	assert.FileExists(t, plotHTML)

	plotField = "pressure"
	assert.Error(t, runPlot(cmd, nil))
}

func TestReport(t *testing.T) {
	cmd, _ := setup(t, "lmax: 8\n")
	reportOut = filepath.Join(t.TempDir(), "report.html")
	t.Cleanup(func() { reportOut = "" })

	require.NoError(t, runReport(cmd, nil))
	data, err := os.ReadFile(reportOut)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rh flow on sht2d.with_gonum")
}

func TestReport_DefaultName(t *testing.T) {
	cmd, out := setup(t, "lmax: 6\n")
	t.Chdir(t.TempDir())
	reportOut = ""

	require.NoError(t, runReport(cmd, nil))
	assert.Equal(t, "wrote report_rh_sht2d.with_gonum.html\n", out.String())
	assert.FileExists(t, "report_rh_sht2d.with_gonum.html")
}

func TestOutputsOutsideWorkspaceRejected(t *testing.T) {
	cmd, _ := setup(t, "lmax: 6\n")
	reportOut = "/proc/self/report.html"
	t.Cleanup(func() { reportOut = "" })
	assert.ErrorContains(t, runReport(cmd, nil), "must be within")
}

func TestExecute_Version(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, version.String()+"\n", out.String())
	assert.NotNil(t, logger)
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"decompose", "info", "plot", "report", "roundtrip", "spectrum", "version"}
	var got []string
	for _, c := range rootCmd.Commands() {
		if c.Name() == "help" || c.Name() == "completion" {
			continue
		}
		got = append(got, c.Name())
	}
	assert.ElementsMatch(t, want, got)
}
