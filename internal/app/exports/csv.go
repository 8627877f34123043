package exports

import (
	"bytes"
	"strings"
)

// cell is one CSV value. Text cells are always quoted; plain cells (booleans, dates, numbers)
// are written verbatim.
type cell struct {
	value string
	text  bool
}

func text(s string) cell  { return cell{value: s, text: true} }
func plain(s string) cell { return cell{value: s} }

// table renders rows with CRLF line endings and RFC 4180 quoting.
type table struct {
	buf bytes.Buffer
}

func (t *table) header(cols []string) {
	cells := make([]cell, len(cols))
	for i, c := range cols {
		cells[i] = plain(c)
	}
	t.row(cells)
}

func (t *table) row(cells []cell) {
	for i, c := range cells {
		if i > 0 {
			t.buf.WriteByte(',')
		}
		if c.text {
			t.buf.WriteByte('"')
			t.buf.WriteString(strings.ReplaceAll(c.value, `"`, `""`))
			t.buf.WriteByte('"')
			continue
		}
		t.buf.WriteString(c.value)
	}
	t.buf.WriteString("\r\n")
}

func (t *table) bytes() []byte {
	return t.buf.Bytes()
}
