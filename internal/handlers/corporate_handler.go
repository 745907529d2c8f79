package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maidscentre/internal/models"
	"maidscentre/internal/services"
)

type CorporateHandler struct {
	service services.CorporateService
}

func NewCorporateHandler(service services.CorporateService) *CorporateHandler {
	return &CorporateHandler{service: service}
}

// @Summary   Профиль компании
// @Tags      Corporate
// @Security  BearerAuth
// @Produce   json
// @Success   200  {object}  models.CorporateProfile
// @Router    /corporate/profile [get]
func (h *CorporateHandler) GetProfile(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	p, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "[corporate][profile]", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary   Обновить профиль компании
// @Tags      Corporate
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     body  body      models.CorporateProfile  true  "company_name, industry, locations"
// @Success   200   {object}  models.CorporateProfile
// @Router    /corporate/profile [put]
func (h *CorporateHandler) UpdateProfile(c *gin.Context) {
	var req models.CorporateProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	p, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, "[corporate][profile][update]", err)
		return
	}
	c.JSON(http.StatusOK, p)
}
