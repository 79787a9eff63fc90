package render

import "encoding/json"

// Renderer turns a view name and its context into response bytes. The
// core never touches HTML or templates directly; a template-backed
// implementation can be swapped in by the outer application.
type Renderer interface {
	Render(view string, data interface{}) ([]byte, error)
	ContentType() string
}

// JSONRenderer is the default renderer: it serializes the view context
// as a JSON document tagged with the view name.
type JSONRenderer struct{}

// NewJSONRenderer creates a new JSON renderer
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render implements Renderer
func (r *JSONRenderer) Render(view string, data interface{}) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"view":    view,
		"context": data,
	})
}

// ContentType implements Renderer
func (r *JSONRenderer) ContentType() string {
	return "application/json; charset=utf-8"
}
