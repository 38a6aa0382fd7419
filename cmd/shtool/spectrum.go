package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/banshee-data/fluidsht/internal/plotting"
	"github.com/banshee-data/fluidsht/internal/security"
)

var (
	specHTML string
	specPNG  string
	specJSON string
)

var spectrumCmd = &cobra.Command{
	Use:   "spectrum",
	Short: "Print the energy and enstrophy spectra of an analytic flow",
	RunE:  runSpectrum,
}

func init() {
	spectrumCmd.Flags().StringVar(&specHTML, "html", "", "Write an interactive chart to this path")
	spectrumCmd.Flags().StringVar(&specPNG, "png", "", "Write a PNG plot to this path")
	spectrumCmd.Flags().StringVar(&specJSON, "json", "", "Write the spectra as JSON to this path (- for stdout)")
}

type spectrumReport struct {
	Flow    string               `json:"flow"`
	Backend string               `json:"backend"`
	Spectra map[string][]float64 `json:"spectra"`
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	oper, err := newOperators(cmd)
	if err != nil {
		return err
	}
	a, err := analyzeFlow(oper, flowName)
	if err != nil {
		return err
	}
	series := a.spectra()
	title := fmt.Sprintf("%s flow, lmax %d", a.flow.Name, oper.Lmax())
	w := cmd.OutOrStdout()

	if specJSON != "" {
		r := spectrumReport{Flow: a.flow.Name, Backend: oper.TypeSHT(), Spectra: map[string][]float64{}}
		for _, s := range series {
			r.Spectra[s.Name] = s.Values
		}
		if err := writeJSON(w, specJSON, r); err != nil {
			return err
		}
	}
	if specPNG != "" {
		if err := security.ValidateOutputPath(specPNG); err != nil {
			return err
		}
		if err := plotting.SaveSpectrumPlot(specPNG, title, series...); err != nil {
			return err
		}
		logger.Sugar().Infof("wrote %s", specPNG)
	}
	if specHTML != "" {
		if err := writeFile(specHTML, func(f *os.File) error {
			return plotting.WriteSpectrumHTML(f, title, series...)
		}); err != nil {
			return err
		}
		logger.Sugar().Infof("wrote %s", specHTML)
	}
	if specJSON == "-" {
		return nil
	}

	fmt.Fprintf(w, "%4s", "l")
	for _, s := range series {
		fmt.Fprintf(w, " %18s", s.Name)
	}
	fmt.Fprintln(w)
	for l := 0; l <= oper.Lmax(); l++ {
		fmt.Fprintf(w, "%4d", l)
		for _, s := range series {
			fmt.Fprintf(w, " %18.6e", s.Values[l])
		}
		fmt.Fprintln(w)
	}
	return nil
}
