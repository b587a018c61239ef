// Package render turns page view-models into HTML.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"

	"github.com/baticonnect/portal/internal/core/domain"
	"github.com/baticonnect/portal/internal/core/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names.
const (
	PageFeed         = "feed"
	PageLogin        = "login"
	PageRegisterRole = "register_role"
	PageRegister     = "register"
	PageProfile      = "profile"
	PageMessages     = "messages"
	PageAdmin        = "admin"
	PageError        = "error"
)

var pages = []string{
	PageFeed, PageLogin, PageRegisterRole, PageRegister,
	PageProfile, PageMessages, PageAdmin, PageError,
}

// Renderer implements echo.Renderer. Each page is parsed together with the
// base layout into its own template set.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// New parses every embedded page template.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("base.html").Funcs(Funcs()).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("render: parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the named page into w.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("render: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}

// Funcs is the template function map.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": Markdown,
		"ago":      Ago,
		"errorMsg": domain.UserMessage,
		"path":     service.Path,
		"initial":  Initial,
		"rating":   func(r float64) string { return fmt.Sprintf("%.1f", r) },
		"state":    func(s service.LoadState) string { return s.String() },
	}
}

var (
	markdownOnce sync.Once
	markdownMD   goldmark.Markdown
)

// Markdown renders user-written text (bios, project descriptions). Raw HTML
// in the source is not passed through.
func Markdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	markdownOnce.Do(func() { markdownMD = goldmark.New() })

	var buf bytes.Buffer
	if err := markdownMD.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// Ago renders a timestamp relative to now ("3 minutes ago"); zero renders
// as the empty string.
func Ago(ts domain.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return humanize.Time(ts.Time)
}

// Initial is the avatar placeholder letter for a name.
func Initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}
