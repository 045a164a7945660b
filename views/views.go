package views

import (
	"embed"
	"html/template"

	"github.com/yeremiapane/reservation-app/utils"
)

//go:embed templates/*.html
var files embed.FS

// FuncMap is shared by every page. formatTime fails the render on a
// malformed stored time.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": utils.FormatDate,
		"formatTime": utils.FormatTime,
	}
}

// Templates parses all embedded pages and partials.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(files, "templates/*.html")
}
