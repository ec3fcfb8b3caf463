package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathacharan30/nutricompare-atme/apperrors"
	"github.com/mathacharan30/nutricompare-atme/config"
	"github.com/mathacharan30/nutricompare-atme/models"
	"github.com/mathacharan30/nutricompare-atme/services"
)

type ScoreController struct {
	Presentation *config.Presentation
}

func NewScoreController(pres *config.Presentation) *ScoreController {
	return &ScoreController{Presentation: pres}
}

// Pointers so a missing field is told apart from zero.
type scoreRequest struct {
	SugarG           *float64 `json:"sugar_g" binding:"required,gte=0"`
	CaloriesKcal     *float64 `json:"calories_kcal" binding:"required,gte=0"`
	VitaminCMg       *float64 `json:"vitamin_c_mg" binding:"required,gte=0"`
	HasPreservatives *bool    `json:"has_preservatives" binding:"required"`
}

// POST /api/score
func (h *ScoreController) Score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ParseValidationErrors(err))
		return
	}

	facts := models.NutritionFacts{
		SugarG:           *req.SugarG,
		CaloriesKcal:     *req.CaloriesKcal,
		VitaminCMg:       *req.VitaminCMg,
		HasPreservatives: *req.HasPreservatives,
	}
	locale := h.Presentation.Locale(localeTag(c))
	c.JSON(http.StatusOK, services.Score(facts, locale))
}
