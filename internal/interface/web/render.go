// Package web renders the server-side pages. Every page is parsed together
// with the layout and the navigation bar into its own template set.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/qixeo/qixeo-web/internal/interface/middleware"
	"github.com/qixeo/qixeo-web/internal/interface/web/nav"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Renderer.Instance.
const (
	PageHome           = "home"
	PageContact        = "contact"
	PageSignIn         = "signin"
	PageForgotPassword = "forgot_password"
	PageResetPassword  = "reset_password"
	PageUsers          = "users"
	PageUserDetail     = "user_detail"
	PageNotFound       = "not_found"
)

var pageNames = []string{
	PageHome, PageContact, PageSignIn, PageForgotPassword,
	PageResetPassword, PageUsers, PageUserDetail, PageNotFound,
}

// Page is the data handed to every template.
type Page struct {
	Title   string
	AppName string
	LogoURL string
	Nav     nav.Shell
	Data    any
}

// Site carries the branding shared by all pages.
type Site struct {
	AppName string
	LogoURL string
}

// NewPage builds the view model for the current request.
func (s Site) NewPage(c *gin.Context, title string, data any) Page {
	return Page{
		Title:   title,
		AppName: s.AppName,
		LogoURL: s.LogoURL,
		Nav:     nav.NewShell(middleware.CurrentSession(c), c.Request.URL.Path),
		Data:    data,
	}
}

// Renderer implements gin's render.HTMLRender over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/nav.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse page %q: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// MustRenderer panics when the embedded templates do not parse.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Instance renders the layout of the named page; unknown names render the
// not-found page.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		t = r.pages[PageNotFound]
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}

// Static returns the embedded stylesheet directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
