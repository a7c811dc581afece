package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/amishk599/offermatch/internal/ranking"
)

// Reporter publishes the outcome of a ranking run.
type Reporter interface {
	Report(summary ranking.Summary) error
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
