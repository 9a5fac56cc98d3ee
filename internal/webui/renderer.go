package webui

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"campusmarket/internal/domain/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer serves the embedded page templates through echo's Renderer
// interface. Every page template is looked up by its define name.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	templates, err := template.New("webui").Funcs(template.FuncMap{
		"price":    formatPrice,
		"shortfmt": formatTimestamp,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

func formatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

func formatTimestamp(ts entity.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("Jan 2, 2006 3:04 PM")
}
