// Package handlers: this file implements the landing page and liveness
// probe (spec §6 `GET /`; §4 supplemented health endpoint). Neither touches
// persistence or authentication.
package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// RootHandler serves the static landing page. The front-end itself is out
// of scope for this service (spec §1); this handler only owns the route
// and the documented 404-if-missing behavior.
type RootHandler struct {
	templatePath string
}

// NewRootHandler constructs a RootHandler reading templatePath on each
// request (the page is tiny and changes only with a redeploy, so there is
// no need to cache it in memory).
func NewRootHandler(templatePath string) *RootHandler {
	return &RootHandler{templatePath: templatePath}
}

// RegisterRoutes registers the public root routes.
func (h *RootHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", h.Index)
	router.GET("/healthz", h.Healthz)
}

// Index serves the landing page, or 404 if its template file is missing
// (spec §6: "404 if template missing").
func (h *RootHandler) Index(c *gin.Context) {
	content, err := os.ReadFile(h.templatePath)
	if err != nil {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte("<h1>Error: template not found</h1>"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", content)
}

// Healthz is a dependency-free liveness probe (supplemented from the
// original's health route; not in spec.md's route table but not excluded).
func (h *RootHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "codesandbox"})
}
