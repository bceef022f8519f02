package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qixeo/qixeo-web/internal/container"
	"github.com/qixeo/qixeo-web/internal/interface/middleware"
)

// DebugModule exposes expvar counters (password reset totals, memstats)
// at /api/debug/vars to private networks.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.GET("/debug/vars", middleware.RestrictToPrivateIP(), rl, gin.WrapH(expvar.Handler()))
}
