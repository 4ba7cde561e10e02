// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/colsync/internal/cmd/constants"
	"github.com/agentstation/colsync/internal/cmd/table"
	"github.com/agentstation/colsync/pkg/apply"
	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/schema"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = constants.FormatTable
	// FormatJSON represents JSON output format.
	FormatJSON Format = constants.FormatJSON
	// FormatYAML represents YAML output format.
	FormatYAML Format = constants.FormatYAML
	// FormatWide represents wide table output format.
	FormatWide Format = constants.FormatWide
)

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatTable, FormatWide:
		return &TableFormatter{Wide: format == FormatWide}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// TableFormatter outputs table format.
type TableFormatter struct {
	Wide bool
}

// Format outputs data in table format. Decision rows, apply results and
// table lists have dedicated layouts; other structs render as key/value pairs.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case table.Data:
		return render(w, v)
	case []decision.Row:
		return render(w, table.DecisionsToTableData(v, f.Wide))
	case *decision.Document:
		return render(w, table.DecisionsToTableData(v.Rows, f.Wide))
	case *apply.Result:
		return render(w, table.ResultToTableData(v))
	case []schema.TableID:
		return render(w, table.TablesToTableData(v))
	default:
		if d, ok := structToTableData(data); ok {
			return render(w, d)
		}
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}
}

func render(w io.Writer, data table.Data) error {
	config := tablewriter.Config{}

	if len(data.ColumnAlignment) > 0 {
		twAlign := make([]tw.Align, len(data.ColumnAlignment))
		for i, align := range data.ColumnAlignment {
			switch align {
			case table.AlignLeft:
				twAlign[i] = tw.AlignLeft
			case table.AlignCenter:
				twAlign[i] = tw.AlignCenter
			case table.AlignRight:
				twAlign[i] = tw.AlignRight
			default:
				twAlign[i] = tw.Skip
			}
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: twAlign}
		config.Row.Alignment = tw.CellAlignment{PerColumn: twAlign}
	}

	t := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		t.Header(headers...)
	}

	for _, row := range data.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := t.Append(cells...); err != nil {
			return err
		}
	}

	return t.Render()
}

// structToTableData renders a struct (or pointer to one) as a Property/Value table.
func structToTableData(data any) (table.Data, bool) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return table.Data{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return table.Data{}, false
	}

	caser := cases.Title(language.English)
	typ := v.Type()
	rows := make([][]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
			if idx := strings.Index(tag, ","); idx > 0 {
				tag = tag[:idx]
			}
			name = caser.String(strings.ReplaceAll(tag, "_", " "))
		}
		rows = append(rows, []string{name, fmt.Sprintf("%v", v.Field(i).Interface())})
	}

	return table.Data{Headers: []string{"Property", "Value"}, Rows: rows}, true
}

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}

	// Default to JSON for pipes/redirects
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, FormatWide, "":
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, wide", s)
	}
}

// Print formats data to w using the explicit format or the detected default.
func Print(w io.Writer, explicitFormat string, data any) error {
	format, err := ParseFormat(explicitFormat)
	if err != nil {
		return err
	}
	return NewFormatter(DetectFormat(string(format))).Format(w, data)
}

// IsTable reports whether the resolved format renders tables.
func IsTable(explicitFormat string) bool {
	f := DetectFormat(explicitFormat)
	return f == FormatTable || f == FormatWide
}
