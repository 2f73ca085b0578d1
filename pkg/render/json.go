package render

import (
	"io"

	"github.com/goccy/go-json"
)

// WriteJSON writes v as indented JSON followed by a newline. HTML
// characters in URLs and constraints are left unescaped.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
