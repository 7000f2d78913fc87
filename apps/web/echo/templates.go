package echoweb

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// renderer holds one template set per page, each paired with the shared
// base layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() *renderer {
	r := &renderer{pages: make(map[string]*template.Template)}

	paths, err := fs.Glob(templateFS, "templates/*.gohtml")
	if err != nil {
		panic(err) // embedded; cannot happen
	}
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".gohtml")
		if name == "base" {
			continue
		}
		r.pages[name] = template.Must(template.ParseFS(templateFS, "templates/base.gohtml", path))
	}
	return r
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// render executes a page template, decorating the data with the session
// user so the layout can show the nav and the notification badge.
func (s *server) render(ctx echo.Context, code int, name string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	if sess := currentSession(ctx); sess != nil {
		if usr, ok := sess.store.User(); ok {
			data["SessionUser"] = usr
		}
	}
	return ctx.Render(code, name, data)
}
