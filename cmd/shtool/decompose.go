package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/fluidsht/internal/flows"
)

var flowName string

var decomposeCmd = &cobra.Command{
	Use:   "decompose",
	Short: "Decompose an analytic flow into divergence and vorticity",
	RunE:  runDecompose,
}

func init() {
	for _, c := range []*cobra.Command{decomposeCmd, spectrumCmd, plotCmd, reportCmd} {
		c.Flags().StringVar(&flowName, "flow", "rh", fmt.Sprintf("Analytic flow %v", flows.Names()))
	}
}

func runDecompose(cmd *cobra.Command, args []string) error {
	oper, err := newOperators(cmd)
	if err != nil {
		return err
	}
	a, err := analyzeFlow(oper, flowName)
	if err != nil {
		return err
	}

	vort := a.vorticity.RawMatrix().Data
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "flow            %s\n", a.flow.Name)
	fmt.Fprintf(w, "backend         %s (%s)\n", oper.TypeSHT(), oper.Convention())
	fmt.Fprintf(w, "max |div|       %.6e\n", maxAbs(a.divergence))
	fmt.Fprintf(w, "vorticity       [%.6e, %.6e]\n", floats.Min(vort), floats.Max(vort))
	fmt.Fprintf(w, "vorticity error %.6e\n", maxAbsDiff(a.vorticity, a.flow.Vorticity))
	fmt.Fprintf(w, "mean KE         %.6e\n", floats.Sum(oper.SpectrumFromVSH(a.uD, a.uR)))
	return nil
}
