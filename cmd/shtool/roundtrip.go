package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banshee-data/fluidsht/internal/security"
	"github.com/banshee-data/fluidsht/internal/sht/operators"
)

var (
	rtSeed uint64
	rtTol  float64
	rtJSON string
)

var roundTripCmd = &cobra.Command{
	Use:   "roundtrip",
	Short: "Check transform round trips on random band-limited fields",
	Long: `roundtrip draws random spectral coefficients, synthesizes them and
analyses the result again for the scalar transform, the vector transform,
the divergence/vorticity path and the Laplacian pair. Errors are measured
in orthonormal units relative to the largest input coefficient.`,
	RunE: runRoundTrip,
}

func init() {
	roundTripCmd.Flags().Uint64Var(&rtSeed, "seed", 1, "Random seed")
	roundTripCmd.Flags().Float64Var(&rtTol, "tol", 1e-10, "Maximum relative error")
	roundTripCmd.Flags().StringVar(&rtJSON, "json", "", "Write a JSON report to this path (- for stdout)")
}

type checkResult struct {
	Name     string  `json:"name"`
	MaxError float64 `json:"max_error"`
	Passed   bool    `json:"passed"`
}

type roundTripReport struct {
	RunID      string        `json:"run_id"`
	Backend    string        `json:"backend"`
	Convention string        `json:"convention"`
	GridType   string        `json:"grid_type"`
	Nlat       int           `json:"nlat"`
	Nlon       int           `json:"nlon"`
	Lmax       int           `json:"lmax"`
	NLM        int           `json:"nlm"`
	Seed       uint64        `json:"seed"`
	Tolerance  float64       `json:"tolerance"`
	Checks     []checkResult `json:"checks"`
	Passed     bool          `json:"passed"`
}

var errChecksFailed = errors.New("round trip checks failed")

func runRoundTrip(cmd *cobra.Command, args []string) error {
	oper, err := newOperators(cmd)
	if err != nil {
		return err
	}
	report := roundTrip(oper, rtSeed, rtTol)
	logger.Info("round trip finished",
		zap.String("run_id", report.RunID),
		zap.String("backend", report.Backend),
		zap.Bool("passed", report.Passed))

	out := cmd.OutOrStdout()
	if rtJSON != "" {
		if err := writeJSON(out, rtJSON, report); err != nil {
			return err
		}
	}
	if rtJSON != "-" {
		printRoundTrip(out, report)
	}
	if !report.Passed {
		return errChecksFailed
	}
	return nil
}

// roundTrip runs every check with coefficients drawn from one seeded source.
func roundTrip(oper *operators.Operators2D, seed uint64, tol float64) roundTripReport {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	g := oper.Grid()
	report := roundTripReport{
		RunID:      uuid.NewString(),
		Backend:    oper.TypeSHT(),
		Convention: oper.Convention().String(),
		GridType:   oper.GridType().String(),
		Nlat:       oper.Nlat(),
		Nlon:       oper.Nlon(),
		Lmax:       oper.Lmax(),
		NLM:        oper.NLM(),
		Seed:       seed,
		Tolerance:  tol,
		Passed:     true,
	}
	add := func(name string, e float64) {
		ok := e <= tol
		report.Checks = append(report.Checks, checkResult{Name: name, MaxError: e, Passed: ok})
		report.Passed = report.Passed && ok
	}

	random := func(dropMean bool) []complex128 {
		a := balanced(oper, oper.CreateArraySHRandom(src))
		if dropMean {
			a[g.Index(0, 0)] = 0
		}
		return a
	}

	a := random(false)
	add("sht(isht)", relDiff(oper, oper.SHT(oper.ISHT(a, nil), nil), a))

	uD, uR := random(true), random(true)
	u, v := oper.VecFromVSH(uD, uR, nil, nil)
	gotD, gotR := oper.VSHFromVec(u, v, nil, nil)
	add("vsh(vec)", max(relDiff(oper, gotD, uD), relDiff(oper, gotR, uR)))

	div, rot := random(true), random(true)
	u, v = oper.VecFromDivRotSH(div, rot, u, v)
	gotDiv, gotRot := oper.DivRotSHFromVec(u, v, gotD, gotR)
	add("divrot(vec)", max(relDiff(oper, gotDiv, div), relDiff(oper, gotRot, rot)))

	lap := oper.InvLaplacianSH(oper.LaplacianSH(div, false, nil), false, nil)
	add("invlap(lap)", relDiff(oper, lap, div))
	return report
}

// balanced rescales coefficients to unit orthonormal amplitude so that every
// normalization exercises the same spatial field magnitudes.
func balanced(oper *operators.Operators2D, a []complex128) []complex128 {
	g, n := oper.Grid(), oper.Convention().Norm
	ls, ms := g.Degrees(), g.Orders()
	for i := range a {
		a[i] /= complex(n.Scale(ls[i], ms[i]), 0)
	}
	return a
}

// relDiff is max |got−want| over max |want|, both in orthonormal units.
func relDiff(oper *operators.Operators2D, got, want []complex128) float64 {
	g, n := oper.Grid(), oper.Convention().Norm
	ls, ms := g.Degrees(), g.Orders()
	var diff, ref float64
	for i := range want {
		s := n.Scale(ls[i], ms[i])
		diff = max(diff, s*cmplx.Abs(got[i]-want[i]))
		ref = max(ref, s*cmplx.Abs(want[i]))
	}
	if ref == 0 {
		return diff
	}
	if math.IsNaN(diff) {
		return math.Inf(1)
	}
	return diff / ref
}

func printRoundTrip(w io.Writer, r roundTripReport) {
	fmt.Fprintf(w, "run %s  %s  %s %s nlat=%d nlon=%d lmax=%d\n",
		r.RunID, r.Backend, r.Convention, r.GridType, r.Nlat, r.Nlon, r.Lmax)
	for _, c := range r.Checks {
		mark := color.GreenString("✓")
		if !c.Passed {
			mark = color.RedString("✗")
		}
		fmt.Fprintf(w, "%s %-12s %.3e\n", mark, c.Name, c.MaxError)
	}
	if r.Passed {
		fmt.Fprintln(w, color.GreenString("PASS"))
	} else {
		fmt.Fprintln(w, color.RedString("FAIL")+color.YellowString(" (tol %.1e)", r.Tolerance))
	}
}

// writeJSON writes v indented to path, or to w when path is "-".
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = w.Write(data)
		return err
	}
	if err := security.ValidateOutputPath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
