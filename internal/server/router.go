package server

import (
	"net/http"
	"time"

	"vidjot/internal/config"
	"vidjot/internal/metrics"
	"vidjot/internal/mw"
	"vidjot/internal/session"
	"vidjot/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// SetupRouter wires middleware, page routes and the chat socket endpoint.
func SetupRouter(cfg config.Config, h *Handler, sessions *session.Manager, hub *ws.Hub, templatesGlob string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.RateLimit(rate.Every(time.Second/20), 40))

	r.LoadHTMLGlob(templatesGlob)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The hub tracks connection-scoped identity only; it sits outside the
	// session middleware on purpose.
	r.GET("/ws", ws.Serve(hub))

	pages := r.Group("")
	pages.Use(sessions.Middleware())

	pages.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/showLogin") })
	pages.GET("/showLogin", h.ShowLogin)
	pages.GET("/showRegister", h.ShowRegister)
	pages.GET("/showForgot", h.ShowForgot)
	pages.GET("/chat", session.RequireUser("/showLogin"), h.ShowChat)

	user := pages.Group("/user")
	user.POST("/register", h.Register)
	user.POST("/login", h.Login)
	user.GET("/logout", h.Logout)
	user.GET("/updateAccount/:id", session.RequireUser("/showLogin"), h.ShowUpdateAccount)
	user.POST("/update", session.RequireUser("/showLogin"), h.UpdateProfile)
	user.POST("/showForgot", h.RequestReset)
	user.GET("/reset-password/:id/:token", h.ShowReset)
	user.POST("/reset-password/:id/:token", h.SubmitReset)

	r.Static("/static", "./web/static")

	return r
}
