package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"maidscentre/internal/models"
	"maidscentre/internal/services"
)

// AccessHandler — просмотр профилей, найм и оплаты, всё через access-гейт.
type AccessHandler struct {
	access services.AccessService
}

func NewAccessHandler(access services.AccessService) *AccessHandler {
	return &AccessHandler{access: access}
}

// @Summary      Профиль сотрудника
// @Description  Без оплаченного доступа тратит один бесплатный просмотр; когда они закончились — 402
// @Tags         Access
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Employee ID"
// @Success      200  {object}  services.ProfileView
// @Failure      402  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /client/employees/{id} [get]
func (h *AccessHandler) ViewEmployee(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := getUserAndRole(c)
	view, err := h.access.ViewProfile(c.Request.Context(), userID, int(id))
	if err != nil {
		respondError(c, "[access][view]", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type hireRequest struct {
	HireType models.HireType `json:"hire_type" binding:"required"`
}

// @Summary      Нанять сотрудника
// @Description  С действующим доступом — котировка сразу; без — намерение сохраняется и сначала оплачивается доступ
// @Tags         Access
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Employee ID"
// @Param        body  body      hireRequest  true  "long-term | once-off"
// @Success      200   {object}  services.PaymentStep
// @Failure      409   {object}  map[string]string
// @Router       /client/employees/{id}/hire [post]
func (h *AccessHandler) AttemptHire(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req hireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	step, err := h.access.AttemptHire(c.Request.Context(), userID, int(id), req.HireType)
	if err != nil {
		respondError(c, "[access][hire]", err)
		return
	}
	c.JSON(http.StatusOK, step)
}

type payAccessRequest struct {
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// @Summary   Оплатить доступ
// @Tags      Access
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     body  body      payAccessRequest  true  "Код подтверждения платежа"
// @Success   201   {object}  services.PaymentStep
// @Failure   400   {object}  map[string]string
// @Failure   409   {object}  map[string]string
// @Router    /client/payments/access [post]
func (h *AccessHandler) PayAccess(c *gin.Context) {
	var req payAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	step, err := h.access.PayAccess(c.Request.Context(), userID, req.ConfirmationCode)
	if err != nil {
		respondError(c, "[access][pay]", err)
		return
	}
	log.Printf("[access][pay] userID=%d next=%s", userID, step.NextStep)
	c.JSON(http.StatusCreated, step)
}

type payHireRequest struct {
	EmployeeID       int             `json:"employee_id" binding:"required"`
	HireType         models.HireType `json:"hire_type" binding:"required"`
	ConfirmationCode string          `json:"confirmation_code" binding:"required"`
}

// @Summary   Оплатить найм
// @Tags      Access
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     body  body      payHireRequest  true  "Сотрудник, тип найма, код подтверждения"
// @Success   201   {object}  services.PaymentStep
// @Failure   402   {object}  map[string]interface{}
// @Failure   409   {object}  map[string]string
// @Router    /client/payments/hire [post]
func (h *AccessHandler) PayHire(c *gin.Context) {
	var req payHireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	step, err := h.access.PayHire(c.Request.Context(), userID, req.EmployeeID, req.HireType, req.ConfirmationCode)
	if err != nil {
		respondError(c, "[access][pay-hire]", err)
		return
	}
	c.JSON(http.StatusCreated, step)
}
