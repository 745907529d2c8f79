package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maidscentre/internal/models"
	"maidscentre/internal/services"
)

type AdminHandler struct {
	users   services.UserService
	tickets services.TicketService
	txs     services.TransactionService
	audit   services.AuditService
}

func NewAdminHandler(users services.UserService, tickets services.TicketService, txs services.TransactionService, audit services.AuditService) *AdminHandler {
	return &AdminHandler{users: users, tickets: tickets, txs: txs, audit: audit}
}

// @Summary   Все тикеты
// @Tags      Admin
// @Security  BearerAuth
// @Produce   json
// @Param     status    query     string  false  "Open | In Progress | Closed"
// @Param     priority  query     string  false  "Low | Medium | High | Urgent"
// @Success   200       {array}   models.SupportTicket
// @Router    /admin/tickets [get]
func (h *AdminHandler) ListTickets(c *gin.Context) {
	var filter models.TicketFilter
	if s := c.Query("status"); s != "" {
		st := models.TicketStatus(s)
		filter.Status = &st
	}
	if p := c.Query("priority"); p != "" {
		pr := models.TicketPriority(p)
		filter.Priority = &pr
	}
	list, err := h.tickets.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "[admin][tickets]", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary   Тикет
// @Tags      Admin
// @Security  BearerAuth
// @Produce   json
// @Param     id   path      int  true  "Ticket ID"
// @Success   200  {object}  models.SupportTicket
// @Router    /admin/tickets/{id} [get]
func (h *AdminHandler) GetTicket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.tickets.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "[admin][ticket]", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// @Summary   Ответ админа
// @Tags      Admin
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     id    path      int             true  "Ticket ID"
// @Param     body  body      messageRequest  true  "Сообщение"
// @Success   200   {object}  models.SupportTicket
// @Router    /admin/tickets/{id}/messages [post]
func (h *AdminHandler) ReplyTicket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adminID, _ := getUserAndRole(c)
	t, err := h.tickets.AdminReply(c.Request.Context(), adminID, id, req.Text)
	if err != nil {
		respondError(c, "[admin][ticket][reply]", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// @Summary   Статус / приоритет / исполнитель тикета
// @Tags      Admin
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     id    path      int                    true  "Ticket ID"
// @Param     body  body      services.TicketUpdate  true  "Изменения"
// @Success   200   {object}  models.SupportTicket
// @Failure   409   {object}  map[string]string
// @Router    /admin/tickets/{id} [put]
func (h *AdminHandler) UpdateTicket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.TicketUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adminID, _ := getUserAndRole(c)
	t, err := h.tickets.AdminUpdate(c.Request.Context(), adminID, id, req)
	if err != nil {
		respondError(c, "[admin][ticket][update]", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// @Summary   Пользователи
// @Tags      Admin
// @Security  BearerAuth
// @Produce   json
// @Param     role_id  query     int  false  "Фильтр по роли"
// @Param     page     query     int  false  "Страница"
// @Param     size     query     int  false  "Размер страницы"
// @Success   200      {object}  map[string]interface{}
// @Router    /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	roleID, _ := strconv.Atoi(c.Query("role_id"))
	limit, offset := pageParams(c)
	ctx := c.Request.Context()

	users, err := h.users.ListUsers(ctx, roleID, limit, offset)
	if err != nil {
		respondError(c, "[admin][users]", err)
		return
	}
	total, err := h.users.GetUserCount(ctx)
	if err != nil {
		respondError(c, "[admin][users]", err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	c.JSON(http.StatusOK, gin.H{"items": users, "total": total})
}

// @Summary   Запросы на возврат
// @Tags      Admin
// @Security  BearerAuth
// @Produce   json
// @Success   200  {array}  models.Transaction
// @Router    /admin/refunds [get]
func (h *AdminHandler) ListRefunds(c *gin.Context) {
	limit, offset := pageParams(c)
	list, err := h.txs.ListRefundRequests(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, "[admin][refunds]", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type refundDecisionRequest struct {
	Decision string `json:"decision" binding:"required"` // approve | reject
}

// @Summary   Решение по возврату
// @Tags      Admin
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     id    path      int                    true  "Transaction ID"
// @Param     body  body      refundDecisionRequest  true  "approve | reject"
// @Success   200   {object}  models.Transaction
// @Failure   409   {object}  map[string]string
// @Router    /admin/transactions/{id}/refund [post]
func (h *AdminHandler) DecideRefund(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req refundDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adminID, _ := getUserAndRole(c)
	tx, err := h.txs.DecideRefund(c.Request.Context(), adminID, id, req.Decision)
	if err != nil {
		respondError(c, "[admin][refund]", err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// @Summary   Журнал действий админов
// @Tags      Admin
// @Security  BearerAuth
// @Produce   json
// @Success   200  {array}  models.AuditLog
// @Router    /admin/audit-logs [get]
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	limit, offset := pageParams(c)
	list, err := h.audit.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, "[admin][audit]", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
