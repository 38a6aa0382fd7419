package plotting

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// AssetsHost is where rendered pages load the echarts scripts from. Empty
// keeps the go-echarts default.
var AssetsHost = ""

// Blue–white–red, matching the PNG palette.
var divergingColors = []string{"#3b4cc0", "#6f92f3", "#aac7fd", "#dddddd", "#f7b89c", "#e7745b", "#b40426"}

func initOpts(title, width, height string) opts.Initialization {
	return opts.Initialization{PageTitle: title, Width: width, Height: height, AssetsHost: AssetsHost}
}

// FieldChart builds a scatter chart of f with one point per grid node,
// coloured by value.
func FieldChart(f Field) (*charts.Scatter, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	lo, hi := f.Range()

	data := make([]opts.ScatterData, 0, len(f.Lats)*len(f.Lons))
	for i, lat := range f.Lats {
		for j, lon := range f.Lons {
			data = append(data, opts.ScatterData{Value: []interface{}{lon, lat, f.Values.At(i, j)}})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(f.Name, "1000px", "560px")),
		charts.WithTitleOpts(opts.Title{Title: f.Name, Subtitle: fmt.Sprintf("nlat=%d nlon=%d min=%.4g max=%.4g", len(f.Lats), len(f.Lons), lo, hi)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: 360, Name: "Longitude (°)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -90, Max: 90, Name: "Latitude (°)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: divergingColors},
		}),
	)
	scatter.AddSeries(f.Name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	return scatter, nil
}

// SpectrumChart builds a line chart of the series against degree on a
// logarithmic value axis.
func SpectrumChart(title string, series ...Series) *charts.Line {
	n := 0
	for _, s := range series {
		n = max(n, len(s.Values))
	}
	degrees := make([]int, n)
	for l := range degrees {
		degrees[l] = l
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(title, "1000px", "480px")),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Degree l", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Energy", Type: "log"}),
	)
	line.SetXAxis(degrees)
	for _, s := range series {
		data := make([]opts.LineData, len(s.Values))
		for l, v := range s.Values {
			if v > 0 {
				data[l] = opts.LineData{Value: v}
			} else {
				// A log axis cannot place zero; leave a gap.
				data[l] = opts.LineData{Value: "-"}
			}
		}
		line.AddSeries(s.Name, data)
	}
	return line
}

// WriteFieldHTML renders the field chart as a standalone page.
func WriteFieldHTML(w io.Writer, f Field) error {
	scatter, err := FieldChart(f)
	if err != nil {
		return err
	}
	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render field chart: %w", err)
	}
	return nil
}

// WriteSpectrumHTML renders the spectrum chart as a standalone page.
func WriteSpectrumHTML(w io.Writer, title string, series ...Series) error {
	if err := SpectrumChart(title, series...).Render(w); err != nil {
		return fmt.Errorf("failed to render spectrum chart: %w", err)
	}
	return nil
}

// WriteReportHTML renders every field and the spectra on one page.
func WriteReportHTML(w io.Writer, title string, fields []Field, spectra []Series) error {
	page := components.NewPage()
	page.PageTitle = title
	if AssetsHost != "" {
		page.SetAssetsHost(AssetsHost)
	}
	for _, f := range fields {
		scatter, err := FieldChart(f)
		if err != nil {
			return err
		}
		page.AddCharts(scatter)
	}
	if len(spectra) > 0 {
		page.AddCharts(SpectrumChart(title+" spectrum", spectra...))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
