package render

import (
	"encoding/json"
	"io"

	"github.com/wesm/smsbackup/internal/smsdb"
)

// JSON writes msgs as an indented array of {"date","from","text","to"}
// objects. Non-ASCII text and HTML characters are written unescaped. An
// empty list is written as [].
func JSON(w io.Writer, msgs []smsdb.Message) error {
	if msgs == nil {
		msgs = []smsdb.Message{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(msgs)
}
