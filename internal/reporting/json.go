package reporting

import "encoding/json"

// RenderJSON renders the full report as indented JSON.
func RenderJSON(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
