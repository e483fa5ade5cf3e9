package output

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"
	json "github.com/json-iterator/go"
	"github.com/zfogg/socialcommerce/cli/pkg/config"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

var out io.Writer = color.Output

// SetWriter redirects all output, used by tests. nil restores stdout.
func SetWriter(w io.Writer) {
	if w == nil {
		w = color.Output
	}
	out = w
}

// Writer returns the current output writer
func Writer() io.Writer {
	return out
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	switch config.GetString("output.format") {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	return format == "json" || format == "table" || format == "text"
}

// IsJSON reports whether machine-readable output was requested
func IsJSON() bool {
	return GetOutputFormat() == FormatJSON
}

// Print outputs data in the configured format with optional title
func Print(title string, data interface{}) error {
	if GetOutputFormat() == FormatJSON {
		return printJSON(data)
	}
	if title != "" {
		fmt.Fprintf(out, "%s:\n", title)
	}
	return printJSON(data)
}

// PrintList outputs rows as a table in text and table formats, and items as
// JSON in json format.
func PrintList(items interface{}, columns []string, rows [][]string) error {
	if GetOutputFormat() == FormatJSON {
		return printJSON(items)
	}
	printTable(columns, rows)
	return nil
}

// Field is one labelled value of a record
type Field struct {
	Key   string
	Value interface{}
}

// PrintRecord outputs a single record in the configured format. Text keeps
// field order; json emits an object.
func PrintRecord(title string, fields []Field) error {
	switch GetOutputFormat() {
	case FormatJSON:
		obj := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			obj[f.Key] = f.Value
		}
		return printJSON(obj)
	case FormatTable:
		rows := make([][]string, 0, len(fields))
		for _, f := range fields {
			rows = append(rows, []string{f.Key, fmt.Sprintf("%v", f.Value)})
		}
		printTable([]string{"Field", "Value"}, rows)
		return nil
	default:
		if title != "" {
			color.New(color.Bold).Fprintf(out, "%s\n", title)
		}
		for _, f := range fields {
			color.New(color.Bold).Fprint(out, f.Key+": ")
			fmt.Fprintf(out, "%v\n", f.Value)
		}
		return nil
	}
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(out, msg+"\n", args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(out, "Error: "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(out, msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(out, "Warning: "+msg+"\n", args...)
}

func printJSON(data interface{}) error {
	s, err := FormatAsPrettyJSON(data)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, s)
	return nil
}

func printTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)

	for i, h := range headers {
		bold.Fprint(w, h)
		if i < len(headers)-1 {
			fmt.Fprint(w, "\t")
		}
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprint(w, cell)
			if i < len(row)-1 {
				fmt.Fprint(w, "\t")
			}
		}
		fmt.Fprintln(w)
	}

	w.Flush()
}

// FormatAsJSON converts data to a compact JSON string
func FormatAsJSON(data interface{}) (string, error) {
	b, err := json.ConfigCompatibleWithStandardLibrary.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FormatAsPrettyJSON converts data to an indented JSON string
func FormatAsPrettyJSON(data interface{}) (string, error) {
	b, err := json.ConfigCompatibleWithStandardLibrary.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SortedFields turns a map into fields ordered by key
func SortedFields(m map[string]interface{}) []Field {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, Field{Key: k, Value: m[k]})
	}
	return fields
}
