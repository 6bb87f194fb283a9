package surface

import (
	"encoding/json"
	"io"

	"github.com/citescope/citescope/pkg/engine"
)

// JSONRenderer marshals the report to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, report *engine.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
