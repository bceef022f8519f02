package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/qixeo/qixeo-web/internal/interface/http"
)

// PageModule serves the static pages and the health probe.
type PageModule struct {
	Pages *handlers.PageHandler
}

func NewPageModule(pages *handlers.PageHandler) *PageModule {
	return &PageModule{Pages: pages}
}

func (m *PageModule) Register(rg *gin.RouterGroup) {}

func (m *PageModule) RegisterPages(rg *gin.RouterGroup) {
	rg.GET("/", m.Pages.Home)
	rg.GET("/contact", m.Pages.ContactPage)
	rg.GET("/health", m.Pages.Health)
}
