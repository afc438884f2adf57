// Package export renders reports as console tables.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

// column widths of the detail table
const (
	nameWidth  = 28
	valueWidth = 14
	descWidth  = 48
)

const reportTemplate = `
{{.Title}}
Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05"}}
{{range .Sections}}
=== {{.Title}} ===
{{range $key, $value := .Summary}}
{{$key}}: {{$value}}
{{end}}
{{if .Details}}{{rule}}
{{row "Name" "Value" "Description"}}
{{rule}}
{{range .Details}}{{row .Name .Value .Description}}
{{end}}{{rule}}
{{end}}{{end}}
`

// Reporter writes reports to a console, one detail table per section.
type Reporter struct {
	writer io.Writer
	tmpl   *template.Template
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	funcs := template.FuncMap{
		"row": func(name, value, desc string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s |",
				nameWidth, name, valueWidth, value, descWidth, desc)
		},
		"rule": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", nameWidth+2),
				strings.Repeat("-", valueWidth+2),
				strings.Repeat("-", descWidth+2))
		},
	}
	return &Reporter{
		writer: writer,
		tmpl:   template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate)),
	}
}

func (r *Reporter) Handle(report *domain.Report) error {
	if err := r.tmpl.Execute(r.writer, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
