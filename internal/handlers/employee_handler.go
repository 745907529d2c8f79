package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maidscentre/internal/models"
	"maidscentre/internal/services"
)

type EmployeeHandler struct {
	service services.EmployeeService
}

func NewEmployeeHandler(service services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

type employeeProfileResponse struct {
	Profile  *models.EmployeeProfile `json:"profile"`
	Strength models.ProfileStrength  `json:"strength"`
}

// @Summary   Мой профиль сотрудника
// @Tags      Employee
// @Security  BearerAuth
// @Produce   json
// @Success   200  {object}  employeeProfileResponse
// @Router    /employee/profile [get]
func (h *EmployeeHandler) GetProfile(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	emp, err := h.service.GetOwnProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "[employee][profile]", err)
		return
	}
	c.JSON(http.StatusOK, employeeProfileResponse{Profile: emp, Strength: services.ComputeProfileStrength(emp)})
}

// @Summary      Обновить профиль сотрудника
// @Description  Рейтинг, проверки и бейджи здесь не меняются
// @Tags         Employee
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      models.EmployeeProfile  true  "Профиль"
// @Success      200   {object}  employeeProfileResponse
// @Router       /employee/profile [put]
func (h *EmployeeHandler) UpdateProfile(c *gin.Context) {
	var req models.EmployeeProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	emp, err := h.service.UpdateOwnProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, "[employee][profile][update]", err)
		return
	}
	c.JSON(http.StatusOK, employeeProfileResponse{Profile: emp, Strength: services.ComputeProfileStrength(emp)})
}
