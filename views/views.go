// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/ballotbox/session"
)

//go:embed templates/*.html
var files embed.FS

// Page is the data every template receives.
type Page struct {
	Title string
	User  *session.Data // nil when signed out
	Error string
	Now   time.Time
	Data  any
}

var funcs = template.FuncMap{
	"datetime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04 MST")
	},
	"inputtime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02T15:04")
	},
	"relative": func(t, now time.Time) string {
		return humanize.RelTime(t, now, "ago", "from now")
	},
	"count": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"plural": func(n int, singular, plural string) string {
		if n == 1 {
			return singular
		}
		return plural
	},
	"percent": func(n, total int) string {
		if total == 0 {
			return "0%"
		}
		return humanize.FtoaWithDigits(float64(n)*100/float64(total), 1) + "%"
	},
	"join": strings.Join,
}

var pages = map[string]*template.Template{}

func init() {
	entries, err := files.ReadDir("templates")
	if err != nil {
		panic(err)
	}
	for _, e := range entries {
		name := e.Name()
		if name == "layout.html" {
			continue
		}
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name))
	}
}

// Render writes page name wrapped in the layout. Rendering happens into a
// buffer so a template error still yields a clean 500.
func Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tmpl, ok := pages[name]
	if !ok {
		slog.Error("unknown template", "template", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if page.User == nil {
		if data, ok := session.FromContext(r.Context()); ok {
			page.User = &data
		}
	}
	if page.Now.IsZero() {
		page.Now = time.Now().UTC()
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
