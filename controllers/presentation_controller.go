package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathacharan30/nutricompare-atme/config"
)

type PresentationController struct {
	Presentation *config.Presentation
}

func NewPresentationController(pres *config.Presentation) *PresentationController {
	return &PresentationController{Presentation: pres}
}

// GET /api/presentation/themes/:name  (unknown names resolve to the default)
func (h *PresentationController) Theme(c *gin.Context) {
	name, tokens := h.Presentation.Theme(c.Param("name"))
	c.JSON(http.StatusOK, gin.H{"name": name, "tokens": tokens})
}

// GET /api/presentation/locales/:code
func (h *PresentationController) Locale(c *gin.Context) {
	c.JSON(http.StatusOK, h.Presentation.Locale(c.Param("code")))
}

// GET /api/presentation/locales
func (h *PresentationController) Locales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default":   h.Presentation.DefaultLocale,
		"available": h.Presentation.LocaleCodes(),
	})
}
