package report

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"coerce/internal/coerce"
	"coerce/internal/value"
)

// Table is a grid of cells rendered with box-drawing borders. Column widths
// are measured in terminal cells, so wide runes stay aligned.
type Table struct {
	Header []string
	Rows   [][]string
}

// Render writes the table. Rows shorter than the header are padded.
func (t *Table) Render(w io.Writer) error {
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}

	var b strings.Builder
	rule := func(left, mid, right string) {
		b.WriteString(left)
		for i, wd := range widths {
			if i > 0 {
				b.WriteString(mid)
			}
			b.WriteString(strings.Repeat("─", wd+2))
		}
		b.WriteString(right)
		b.WriteByte('\n')
	}
	line := func(cells []string) {
		b.WriteString("│")
		for i, wd := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteByte(' ')
			b.WriteString(runewidth.FillRight(cell, wd))
			b.WriteString(" │")
		}
		b.WriteByte('\n')
	}

	rule("┌", "┬", "┐")
	line(t.Header)
	rule("├", "┼", "┤")
	for _, row := range t.Rows {
		line(row)
	}
	rule("└", "┴", "┘")

	_, err := io.WriteString(w, b.String())
	return err
}

// CoercionTable tabulates typeof, Number(), Boolean() and String() for each
// value. labels name the rows; failed conversions show their error code.
func CoercionTable(e *coerce.Engine, labels []string, values []value.Value) *Table {
	t := &Table{Header: []string{"value", "typeof", "Number()", "Boolean()", "String()"}}
	for i, v := range values {
		label := labelFor(labels, values, i)
		num := cellOrError(e.ToNumber(v))
		str := "<error>"
		if s, err := e.ToText(v); err == nil {
			str = printable(s)
		} else if code, ok := coerce.CodeOf(err); ok {
			str = code.Name()
		}
		boolean := "false"
		if e.ToBoolean(v) {
			boolean = "true"
		}
		t.Rows = append(t.Rows, []string{label, coerce.TypeOf(v), num, boolean, str})
	}
	return t
}

// EqualityMatrix tabulates LooseEquals between every pair of values:
// "==" marks loose equality, "===" strict equality, "!" an error.
func EqualityMatrix(e *coerce.Engine, labels []string, values []value.Value) *Table {
	t := &Table{Header: []string{""}}
	for i := range values {
		t.Header = append(t.Header, labelFor(labels, values, i))
	}
	for i, a := range values {
		row := []string{labelFor(labels, values, i)}
		for _, b := range values {
			cell := ""
			switch eq, err := e.LooseEquals(a, b); {
			case err != nil:
				cell = "!"
			case e.StrictEquals(a, b):
				cell = "==="
			case eq:
				cell = "=="
			}
			row = append(row, cell)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func labelFor(labels []string, values []value.Value, i int) string {
	if i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return values[i].String()
}

func cellOrError(n float64, err error) string {
	if err != nil {
		if code, ok := coerce.CodeOf(err); ok {
			return code.Name()
		}
		return "<error>"
	}
	return coerce.FormatNumber(n)
}

// printable quotes strings that would otherwise be invisible in a cell.
func printable(s string) string {
	if s == "" || strings.TrimSpace(s) != s || strings.ContainsAny(s, "\n\r\t") {
		return `"` + strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(s) + `"`
	}
	return s
}
