package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/enerlab/psufit/pkg/curve"
	"github.com/enerlab/psufit/pkg/types"
)

type opts struct {
	// model
	rated float64

	// outputs
	pretty   bool
	points   int
	csvPath  string
	jsonPath string
	htmlPath string
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "psufit EFF10 EFF20 EFF50 EFF100",
		Short: "Power-supply input-power curve fitting tool",
		Long: `psufit derives a quadratic model of power-supply input power as a
function of output power from the four standard efficiency measurements
(at 10%, 20%, 50% and 100% load).

Without --rated the fit is normalized: loads are fractions of rated
output power and the result is unit-agnostic. With --rated the load axis
is in watts. The fitted coefficients a, b, c of

	P_in(x) = a*x^2 + b*x + c

are printed space-separated on a single line.

Examples:
  psufit 0.8634 0.9063 0.9149 0.8828
  psufit -r 750 --html report.html 0.8634 0.9063 0.9149 0.8828`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(o, args, cmd.Flags().Changed("rated"))
		},
	}

	root.Flags().Float64VarP(&o.rated, "rated", "r", 0, "rated output power in watts (absolute mode; default normalized)")
	root.Flags().BoolVar(&o.pretty, "pretty", false, "print the measured samples and fit summary as a table")
	root.Flags().IntVar(&o.points, "points", 20, "number of curve samples in report outputs")
	root.Flags().StringVar(&o.csvPath, "csv", "", "write sampled curve points to CSV file")
	root.Flags().StringVar(&o.jsonPath, "json", "", "write sampled curve points to JSON file")
	root.Flags().StringVar(&o.htmlPath, "html", "", "write sampled curve points and summary to HTML file")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(o opts, args []string, ratedSet bool) error {
	var effs [4]float64
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("efficiency argument %d: %w", i+1, err)
		}
		effs[i] = v
	}
	m := curve.Measurement{E10: effs[0], E20: effs[1], E50: effs[2], E100: effs[3]}

	// Absolute mode whenever --rated was given, even with a non-positive
	// value: that must reach validation and fail, not fall back to
	// normalized mode.
	absolute := ratedSet
	rated := o.rated
	if !ratedSet {
		rated = 1
	}
	if o.points <= 0 {
		return fmt.Errorf("points must be > 0")
	}

	params, err := curve.Fit(m, rated)
	if err != nil {
		return err
	}

	// The result line. Everything else is opt-in.
	fmt.Println(params)

	samples, err := m.Samples(rated)
	if err != nil {
		return err
	}

	if o.pretty {
		printTable(samples, params, rated, absolute)
	}

	if o.csvPath == "" && o.jsonPath == "" && o.htmlPath == "" {
		return nil
	}

	pts := params.Points(rated, o.points)

	if o.csvPath != "" {
		if err := writeCSV(o.csvPath, pts); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	if o.jsonPath != "" {
		if err := writeJSON(o.jsonPath, pts); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}
	if o.htmlPath != "" {
		if err := writeHTML(o.htmlPath, samples, pts, params, rated, absolute); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
	}
	return nil
}

func fmtPower(v float64, absolute bool) string {
	if absolute {
		return types.Watts(v).Humanized()
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func printTable(samples []curve.Sample, params curve.Params, rated float64, absolute bool) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nLOAD\tP_in (measured)\tP_in (model)\tEFF (measured)\tEFF (model)")
	fmt.Fprintln(tw, "----\t---------------\t------------\t--------------\t-----------")
	for _, s := range samples {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%.4f\n",
			fmtPower(s.Load, absolute),
			fmtPower(s.InputPower, absolute),
			fmtPower(params.At(s.Load), absolute),
			s.Load/s.InputPower,
			params.Efficiency(s.Load),
		)
	}
	tw.Flush()

	q := params.Quality(samples)
	fmt.Println()
	fmt.Printf("fit over %d samples (rated %s):\n", len(samples), fmtPower(rated, absolute))
	fmt.Printf("- a:            %g\n", params.A)
	fmt.Printf("- b:            %g\n", params.B)
	fmt.Printf("- c:            %g\n", params.C)
	fmt.Printf("- rss:          %g\n", q.RSS)
	fmt.Printf("- residual var: %g\n", q.ResidualVar)
}

func writeCSV(path string, pts []curve.Point) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"load", "input_power", "efficiency"}); err != nil {
		return err
	}
	for _, p := range pts {
		rec := []string{
			strconv.FormatFloat(p.Load, 'g', -1, 64),
			strconv.FormatFloat(p.InputPower, 'g', -1, 64),
			strconv.FormatFloat(p.Efficiency, 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, pts []curve.Point) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	b, err := json.MarshalIndent(pts, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}

func writeHTML(path string, samples []curve.Sample, pts []curve.Point, params curve.Params, rated float64, absolute bool) error {
	type measured struct {
		Load       string
		InputPower string
		Efficiency float64
	}
	type view struct {
		Params   curve.Params
		Result   string
		Rated    string
		Absolute bool
		Quality  curve.Quality
		Measured []measured
		Points   []curve.Point
	}

	data := view{
		Params:   params,
		Result:   params.String(),
		Rated:    fmtPower(rated, absolute),
		Absolute: absolute,
		Quality:  params.Quality(samples),
		Points:   pts,
	}
	for _, s := range samples {
		data.Measured = append(data.Measured, measured{
			Load:       fmtPower(s.Load, absolute),
			InputPower: fmtPower(s.InputPower, absolute),
			Efficiency: s.Load / s.InputPower,
		})
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

var tpl = template.Must(template.New("rep").Parse(`<!doctype html>
<html lang="en"><meta charset="utf-8">
<title>PSU Curve Fit Report</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Helvetica,Arial,sans-serif;margin:20px}
h1,h2{margin:0 0 8px}
table{border-collapse:collapse;width:100%;font-size:14px}
th,td{border:1px solid #ddd;padding:6px 8px;text-align:right}
th:first-child,td:first-child{text-align:left}
ul{margin:6px 0 14px;padding-left:20px}
code{background:#f5f5f5;padding:2px 4px;border-radius:4px}
.small{color:#555}
</style>

<h1>PSU Curve Fit Report</h1>

<p class="small">
Model: <code>P_in(x) = a&middot;x&sup2; + b&middot;x + c</code> &nbsp;|&nbsp;
Rated: {{.Rated}} &nbsp;|&nbsp;
{{if .Absolute}}absolute mode{{else}}normalized mode{{end}}
</p>

<h2>Fit</h2>
<ul>
<li>a: {{.Params.A}}</li>
<li>b: {{.Params.B}}</li>
<li>c: {{.Params.C}}</li>
<li>result line: <code>{{.Result}}</code></li>
<li>RSS: {{printf "%g" .Quality.RSS}}</li>
<li>Residual variance: {{printf "%g" .Quality.ResidualVar}}</li>
</ul>

<h2>Measured samples</h2>
<table>
<thead><tr><th>load</th><th>P_in</th><th>efficiency</th></tr></thead>
<tbody>
{{range .Measured}}
<tr>
<td style="text-align:left">{{.Load}}</td>
<td>{{.InputPower}}</td>
<td>{{printf "%.4f" .Efficiency}}</td>
</tr>
{{end}}
</tbody>
</table>

<h2>Fitted curve ({{len .Points}} points)</h2>
<table>
<thead><tr><th>load</th><th>P_in (model)</th><th>efficiency (model)</th></tr></thead>
<tbody>
{{range .Points}}
<tr>
<td style="text-align:left">{{printf "%.6g" .Load}}</td>
<td>{{printf "%.6g" .InputPower}}</td>
<td>{{printf "%.4f" .Efficiency}}</td>
</tr>
{{end}}
</tbody>
</table>
</html>`))
