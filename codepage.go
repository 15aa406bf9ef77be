package mpx

import (
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// codePages maps the header record's code page names to encodings. Text in
// an unknown code page is read as UTF-8.
var codePages = map[string]encoding.Encoding{
	"ANSI": charmap.Windows1252,
	"850":  charmap.CodePage850,
	"437":  charmap.CodePage437,
	"MAC":  charmap.Macintosh,
}

func codePage(name string) (encoding.Encoding, bool) {
	enc, ok := codePages[strings.ToUpper(strings.TrimSpace(name))]
	return enc, ok
}

func decodeReader(name string, r io.Reader) io.Reader {
	if enc, ok := codePage(name); ok {
		return enc.NewDecoder().Reader(r)
	}
	return r
}

// encodeWriter replaces characters the code page cannot hold rather than
// failing the write.
func encodeWriter(name string, w io.Writer) io.Writer {
	if enc, ok := codePage(name); ok {
		return encoding.ReplaceUnsupported(enc.NewEncoder()).Writer(w)
	}
	return w
}
