package view

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "layout"

// Skins lists the HTML skins shipped with the widget.
var Skins = []string{"classic", "card"}

// TemplateRenderer renders a View as an HTML page with one of the embedded skins.
type TemplateRenderer struct {
	engine *html.Engine
	skin   string
}

func NewTemplateRenderer(skin string) (*TemplateRenderer, error) {
	if !isSkin(skin) {
		return nil, fmt.Errorf("unknown skin %q", skin)
	}

	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open templates: %w", err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &TemplateRenderer{engine: engine, skin: skin}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, v View) error {
	return r.engine.Render(w, r.skin, v, layoutTemplate)
}

func (r *TemplateRenderer) Skin() string {
	return r.skin
}

func isSkin(name string) bool {
	for _, s := range Skins {
		if s == name {
			return true
		}
	}
	return false
}
