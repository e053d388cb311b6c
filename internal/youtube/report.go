package youtube

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// FieldWidth is the width every header and cell is right-justified to.
const FieldWidth = 30

// ColumnType is the declared data type of a report column.
type ColumnType int

const (
	// ColumnString is used for STRING and for any type not listed here.
	ColumnString ColumnType = iota
	ColumnInteger
	ColumnFloat
)

// ParseColumnType maps an API dataType to a ColumnType. Unknown types
// render as strings.
func ParseColumnType(dataType string) ColumnType {
	switch strings.ToUpper(dataType) {
	case "INTEGER":
		return ColumnInteger
	case "FLOAT":
		return ColumnFloat
	default:
		return ColumnString
	}
}

func (t ColumnType) String() string {
	switch t {
	case ColumnString:
		return "STRING"
	case ColumnInteger:
		return "INTEGER"
	case ColumnFloat:
		return "FLOAT"
	default:
		return "ColumnType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Column is a report column header.
type Column struct {
	Name string
	Type ColumnType
}

// Report is a tabular analytics result.
type Report struct {
	Title   string
	Columns []Column
	Rows    [][]any
}

// PrintReport writes the "Report: <title>" line followed by the rendered table.
func PrintReport(w io.Writer, r *Report) error {
	if _, err := fmt.Fprintf(w, "Report: %s\n", r.Title); err != nil {
		return err
	}
	return WriteReport(w, r)
}

// WriteReport renders the table. Headers and cells are right-justified in
// FieldWidth-wide fields and each cell is formatted by its column type. A
// report without rows renders as a single "No results found." line.
func WriteReport(w io.Writer, r *Report) error {
	if r == nil || len(r.Rows) == 0 {
		_, err := io.WriteString(w, "No results found.\n")
		return err
	}

	var b strings.Builder
	for _, col := range r.Columns {
		fmt.Fprintf(&b, "%*s", FieldWidth, col.Name)
	}
	b.WriteByte('\n')

	for _, row := range r.Rows {
		for i, col := range r.Columns {
			var cell any
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(formatCell(col.Type, cell))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func formatCell(t ColumnType, v any) string {
	switch t {
	case ColumnInteger:
		if n, ok := toInt64(v); ok {
			return fmt.Sprintf("%*d", FieldWidth, n)
		}
		return fmt.Sprintf("%*v", FieldWidth, v)
	case ColumnFloat:
		if f, ok := toFloat64(v); ok {
			return fmt.Sprintf("%*f", FieldWidth, f)
		}
		return fmt.Sprintf("%*v", FieldWidth, v)
	case ColumnString:
		return fmt.Sprintf("%*s", FieldWidth, stringCell(v))
	default:
		panic(fmt.Sprintf("youtube: unhandled column type %v", t))
	}
}

func stringCell(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// toInt64 truncates numeric cells toward zero.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
