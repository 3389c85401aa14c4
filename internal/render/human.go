package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/wesm/smsbackup/internal/smsdb"
)

// Column labels shared by the human and csv headers.
const (
	labelDate = "Date"
	labelFrom = "From"
	labelTo   = "To"
	labelText = "Text"
)

// Human writes a column-aligned table:
//
//	Date                | From           | To | Text
//	2011-03-13 07:06:40 | (555) 123-4567 | Me | hi
//
// Dates are left-aligned; From and To are right-aligned. Widths are terminal
// cells, so wide characters in names line up. Continuation lines of
// multi-line text are indented to the Text column. No messages means no
// output, not even a header.
func Human(w io.Writer, msgs []smsdb.Message, header bool) error {
	if len(msgs) == 0 {
		return nil
	}

	dateW := runewidth.StringWidth(labelDate)
	fromW := runewidth.StringWidth(labelFrom)
	toW := runewidth.StringWidth(labelTo)
	for _, m := range msgs {
		dateW = max(dateW, runewidth.StringWidth(m.Date))
		fromW = max(fromW, runewidth.StringWidth(m.From))
		toW = max(toW, runewidth.StringWidth(m.To))
	}
	// Three " | " separators.
	indent := "\n" + strings.Repeat(" ", dateW+fromW+toW+9)

	bw := bufio.NewWriter(w)
	if header {
		bw.WriteString(padRight(labelDate, dateW))
		bw.WriteString(" | ")
		bw.WriteString(padRight(labelFrom, fromW))
		bw.WriteString(" | ")
		bw.WriteString(padRight(labelTo, toW))
		bw.WriteString(" | ")
		bw.WriteString(labelText)
		bw.WriteByte('\n')
	}
	for _, m := range msgs {
		bw.WriteString(padRight(m.Date, dateW))
		bw.WriteString(" | ")
		bw.WriteString(padLeft(m.From, fromW))
		bw.WriteString(" | ")
		bw.WriteString(padLeft(m.To, toW))
		bw.WriteString(" | ")
		bw.WriteString(strings.ReplaceAll(m.Text, "\n", indent))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// padRight pads s with spaces to fill width terminal cells.
func padRight(s string, width int) string {
	if sw := runewidth.StringWidth(s); sw < width {
		return s + strings.Repeat(" ", width-sw)
	}
	return s
}

// padLeft right-aligns s in width terminal cells.
func padLeft(s string, width int) string {
	if sw := runewidth.StringWidth(s); sw < width {
		return strings.Repeat(" ", width-sw) + s
	}
	return s
}
