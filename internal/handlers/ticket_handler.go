package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maidscentre/internal/services"
)

type TicketHandler struct {
	service services.TicketService
}

func NewTicketHandler(service services.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

type messageRequest struct {
	Text string `json:"text" binding:"required"`
}

// @Summary   Создать тикет
// @Tags      Support
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     body  body      services.NewTicket  true  "Тема, категория, описание"
// @Success   201   {object}  models.SupportTicket
// @Router    /tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	var req services.NewTicket
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	t, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, "[ticket][create]", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// @Summary   Мои тикеты
// @Tags      Support
// @Security  BearerAuth
// @Produce   json
// @Success   200  {array}  models.SupportTicket
// @Router    /tickets [get]
func (h *TicketHandler) ListOwn(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	list, err := h.service.ListOwn(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "[ticket][list]", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary   Тикет с перепиской
// @Tags      Support
// @Security  BearerAuth
// @Produce   json
// @Param     id   path      int  true  "Ticket ID"
// @Success   200  {object}  models.SupportTicket
// @Router    /tickets/{id} [get]
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := getUserAndRole(c)
	t, err := h.service.GetOwn(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, "[ticket][get]", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// @Summary   Ответить в тикет
// @Tags      Support
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     id    path      int             true  "Ticket ID"
// @Param     body  body      messageRequest  true  "Сообщение"
// @Success   200   {object}  models.SupportTicket
// @Failure   409   {object}  map[string]string
// @Router    /tickets/{id}/messages [post]
func (h *TicketHandler) Reply(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	t, err := h.service.Reply(c.Request.Context(), userID, id, req.Text)
	if err != nil {
		respondError(c, "[ticket][reply]", err)
		return
	}
	c.JSON(http.StatusOK, t)
}
