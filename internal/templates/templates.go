// Package templates renders the application's HTML pages from an
// embedded template set.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed html/*.html
var files embed.FS

var pageNames = []string{
	"login.html",
	"register.html",
	"task_list.html",
	"task_detail.html",
	"task_form.html",
	"task_confirm_delete.html",
}

var pages = make(map[string]*template.Template, len(pageNames))

func init() {
	for _, name := range pageNames {
		pages[name] = template.Must(template.ParseFS(files, "html/"+name))
	}
}

// Render executes the named page into w with the given status code.
// The page is rendered into a buffer first so that a template error
// never produces a half-written response.
func Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}
