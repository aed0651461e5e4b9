package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers every route on a fresh gin engine. Reads of
// articles, article deletion and the auth endpoints are public; the rest
// go through RequireAuth.
func NewRouter(h *Handler, tokens TokenParser, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	guard := RequireAuth(tokens)

	articles := r.Group("/articles")
	articles.GET("", h.ListArticles)
	articles.GET("/:id", h.GetArticle)
	articles.DELETE("/:id", h.DeleteArticle)
	articles.POST("", guard, h.CreateArticle)
	articles.PUT("/:id", guard, h.UpdateArticle)

	users := r.Group("/users", guard)
	users.GET("", h.ListUsers)
	users.POST("", h.CreateUser)
	users.GET("/:id", h.GetUser)
	users.PUT("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return r
}
