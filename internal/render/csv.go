package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/wesm/smsbackup/internal/smsdb"
)

// CSV writes one record per message in the spreadsheet dialect: every field
// is quoted, embedded quotes are doubled and records end with CRLF.
// Newlines inside a field are kept as-is.
func CSV(w io.Writer, msgs []smsdb.Message, header bool) error {
	bw := bufio.NewWriter(w)
	if header {
		writeRecord(bw, labelDate, labelFrom, labelTo, labelText)
	}
	for _, m := range msgs {
		writeRecord(bw, m.Date, m.From, m.To, m.Text)
	}
	return bw.Flush()
}

// quoteEscaper doubles embedded quotes.
var quoteEscaper = strings.NewReplacer(`"`, `""`)

func writeRecord(bw *bufio.Writer, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteByte('"')
		quoteEscaper.WriteString(bw, f)
		bw.WriteByte('"')
	}
	bw.WriteString("\r\n")
}
