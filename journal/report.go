package journal

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

// RunReport summarises one session for the Org journal.
type RunReport struct {
	RunID    string
	Created  time.Time
	Title    string
	Type     string
	Strategy string
	Tickers  []string

	Start time.Time
	End   time.Time

	Fills int

	InitialCash float64
	FinalEquity float64
	NetPnL      float64
	ReturnPct   float64
	Sharpe      float64
	MaxDDPct    float64

	Notes []string
}

var reportFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "(open)"
		}
		return t.Format("2006-01-02")
	},
}

var reportTemplate = template.Must(template.New("report").Funcs(reportFuncs).Parse(RunReportTemplate))

// Org renders the report.
func (r *RunReport) Org() (string, error) {
	buf := new(bytes.Buffer)
	if err := reportTemplate.Execute(buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteOrg renders the report to path.
func (r *RunReport) WriteOrg(path string) error {
	s, err := r.Org()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0o644)
}

const RunReportTemplate = `* SESSION: {{if .Title}}{{.Title}}{{else}}(untitled){{end}} {{.Strategy}}
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:TYPE:        {{.Type}}
:STRATEGY:    {{.Strategy}}
:TICKERS:     {{range $i, $t := .Tickers}}{{if $i}} {{end}}{{$t}}{{end}}
:START_DATE:  {{date .Start}}
:END_DATE:    {{date .End}}
:START_CASH:  {{printf "%.2f" .InitialCash}}
:END_EQUITY:  {{printf "%.2f" .FinalEquity}}
:NET_PNL:     {{printf "%.2f" .NetPnL}}
:RETURN_PCT:  {{printf "%.2f" .ReturnPct}}
:SHARPE:      {{printf "%.4f" .Sharpe}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDDPct}}
:FILLS:       {{.Fills}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net PnL:          *{{printf "%.2f" .NetPnL}}*
- Return:           *{{printf "%.2f" .ReturnPct}}%*
- Sharpe Ratio:     *{{printf "%.4f" .Sharpe}}*
- Max Drawdown:     *{{printf "%.2f" .MaxDDPct}}%*
{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
