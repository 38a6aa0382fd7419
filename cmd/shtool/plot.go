package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/banshee-data/fluidsht/internal/plotting"
	"github.com/banshee-data/fluidsht/internal/security"
)

var (
	plotField string
	plotPNG   string
	plotHTML  string
	reportOut string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Draw one field of an analytic flow",
	RunE:  runPlot,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an HTML page with every field and spectrum of an analytic flow",
	RunE:  runReport,
}

func init() {
	plotCmd.Flags().StringVar(&plotField, "field", "vorticity", "u, v, vorticity, divergence or streamfunction")
	plotCmd.Flags().StringVar(&plotPNG, "png", "", "Write a PNG heat map to this path")
	plotCmd.Flags().StringVar(&plotHTML, "html", "", "Write an interactive chart to this path")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Output path (default report_<flow>_<backend>.html)")
}

func runPlot(cmd *cobra.Command, args []string) error {
	if plotPNG == "" && plotHTML == "" {
		return errors.New("nothing to do: set --png and/or --html")
	}
	oper, err := newOperators(cmd)
	if err != nil {
		return err
	}
	a, err := analyzeFlow(oper, flowName)
	if err != nil {
		return err
	}
	field, err := a.field(plotField)
	if err != nil {
		return err
	}

	if plotPNG != "" {
		if err := security.ValidateOutputPath(plotPNG); err != nil {
			return err
		}
		if err := plotting.SaveFieldPlot(field, plotPNG); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", plotPNG)
	}
	if plotHTML != "" {
		if err := writeFile(plotHTML, func(f *os.File) error { return plotting.WriteFieldHTML(f, field) }); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", plotHTML)
	}
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	oper, err := newOperators(cmd)
	if err != nil {
		return err
	}
	a, err := analyzeFlow(oper, flowName)
	if err != nil {
		return err
	}
	var fields []plotting.Field
	for _, name := range []string{"u", "v", "vorticity", "streamfunction"} {
		f, err := a.field(name)
		if err != nil {
			return err
		}
		fields = append(fields, f)
	}
	title := fmt.Sprintf("%s flow on %s", a.flow.Name, oper.TypeSHT())
	out := reportOut
	if out == "" {
		out = security.SanitizeFilename(fmt.Sprintf("report_%s_%s", a.flow.Name, oper.TypeSHT())) + ".html"
	}
	if err := writeFile(out, func(f *os.File) error {
		return plotting.WriteReportHTML(f, title, fields, a.spectra())
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}

func writeFile(path string, render func(*os.File) error) error {
	if err := security.ValidateOutputPath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
