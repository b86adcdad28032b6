package common

import (
	"encoding/json"
	"io"
)

// Dump writes v as indented JSON.
func Dump(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}
