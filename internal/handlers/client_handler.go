package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maidscentre/internal/models"
	"maidscentre/internal/services"
)

type ClientHandler struct {
	clients   services.ClientService
	employees services.EmployeeService
	access    services.AccessService
}

func NewClientHandler(clients services.ClientService, employees services.EmployeeService, access services.AccessService) *ClientHandler {
	return &ClientHandler{clients: clients, employees: employees, access: access}
}

// @Summary   Профиль клиента
// @Tags      Client
// @Security  BearerAuth
// @Produce   json
// @Success   200  {object}  models.ClientProfile
// @Router    /client/profile [get]
func (h *ClientHandler) GetProfile(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	client, err := h.clients.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "[client][profile]", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// @Summary   Обновить профиль клиента
// @Tags      Client
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     body  body      services.ClientProfileUpdate  true  "Поля профиля"
// @Success   200   {object}  models.ClientProfile
// @Router    /client/profile [put]
func (h *ClientHandler) UpdateProfile(c *gin.Context) {
	var req services.ClientProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	client, err := h.clients.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, "[client][profile][update]", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// @Summary   Статус доступа
// @Tags      Client
// @Security  BearerAuth
// @Produce   json
// @Success   200  {object}  services.AccessStatus
// @Router    /client/access [get]
func (h *ClientHandler) AccessStatus(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	st, err := h.access.Status(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "[client][access]", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Каталог сотрудников
// @Description  drivers_license, reference_checked, medical_clearance, elite_only доступны только Premium
// @Tags         Client
// @Security     BearerAuth
// @Produce      json
// @Param        q                   query  string  false  "Имя или навык"
// @Param        role                query  string  false  "Категория"
// @Param        location            query  string  false  "Локация"
// @Param        availability        query  string  false  "Доступность"
// @Param        language            query  string  false  "Язык"
// @Param        certification       query  string  false  "Сертификат"
// @Param        verified            query  bool    false  "Только проверенные"
// @Param        background_checked  query  bool    false  "Проверка биографии"
// @Param        police_clearance    query  bool    false  "Справка из полиции"
// @Param        drivers_license     query  bool    false  "Права (Premium)"
// @Param        reference_checked   query  bool    false  "Рекомендации (Premium)"
// @Param        medical_clearance   query  bool    false  "Медсправка (Premium)"
// @Param        elite_only          query  bool    false  "Elite Worker (Premium)"
// @Param        sort_by             query  string  false  "rating | experience"
// @Success      200  {array}   models.EmployeeCard
// @Failure      403  {object}  map[string]string
// @Router       /client/employees [get]
func (h *ClientHandler) ListEmployees(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	client, err := h.clients.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "[client][employees]", err)
		return
	}
	filter := models.EmployeeFilter{
		Search:            c.Query("q"),
		Role:              c.Query("role"),
		Location:          c.Query("location"),
		Availability:      c.Query("availability"),
		Language:          c.Query("language"),
		Certification:     c.Query("certification"),
		Verified:          queryBool(c, "verified"),
		BackgroundChecked: queryBool(c, "background_checked"),
		PoliceClearance:   queryBool(c, "police_clearance"),
		DriversLicense:    queryBool(c, "drivers_license"),
		ReferenceChecked:  queryBool(c, "reference_checked"),
		MedicalClearance:  queryBool(c, "medical_clearance"),
		EliteOnly:         queryBool(c, "elite_only"),
		SortBy:            c.DefaultQuery("sort_by", "rating"),
	}
	cards, err := h.employees.Browse(c.Request.Context(), client, filter)
	if err != nil {
		respondError(c, "[client][employees]", err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// @Summary   Нанятые сотрудники
// @Tags      Client
// @Security  BearerAuth
// @Produce   json
// @Success   200  {array}  models.EmployeeProfile
// @Router    /client/team [get]
func (h *ClientHandler) Team(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	client, err := h.clients.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "[client][team]", err)
		return
	}
	team, err := h.employees.Team(c.Request.Context(), client)
	if err != nil {
		respondError(c, "[client][team]", err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// @Summary   Перейти на Premium
// @Tags      Client
// @Security  BearerAuth
// @Produce   json
// @Success   200  {object}  services.UpgradeResult
// @Failure   409  {object}  map[string]string
// @Router    /client/subscription/upgrade [post]
func (h *ClientHandler) UpgradeSubscription(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	res, err := h.clients.UpgradeSubscription(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "[client][upgrade]", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
