// Package web holds the server-rendered pages of the terrace calendar and
// the echo renderer that executes them.
package web

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terrace-reservation/internal/calendar"
	"github.com/iliyamo/terrace-reservation/internal/datefmt"
)

//go:embed templates/*.html
var files embed.FS

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"longDate":        func(v any) string { return datefmt.LongDate(v) },
	"weekdayLongDate": func(v any) string { return datefmt.WeekdayLongDate(v) },
	"shortDate":       func(v any) string { return datefmt.ShortDate(v) },
	"slotClass": func(s calendar.Slot) string {
		return "slot slot-" + s.State.String()
	},
}

// NewRenderer parses every page template.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("pages").Funcs(funcs).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: t}, nil
}

// Render executes the named template with data.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}
