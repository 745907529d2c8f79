package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"maidscentre/internal/services"
)

type TransactionHandler struct {
	service services.TransactionService
}

func NewTransactionHandler(service services.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// @Summary   История платежей
// @Tags      Transactions
// @Security  BearerAuth
// @Produce   json
// @Param     page  query     int  false  "Страница"
// @Param     size  query     int  false  "Размер страницы"
// @Success   200   {array}   models.Transaction
// @Router    /client/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	limit, offset := pageParams(c)
	list, err := h.service.ListForClient(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, "[tx][list]", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary   PDF-квитанция
// @Tags      Transactions
// @Security  BearerAuth
// @Produce   application/pdf
// @Param     id   path  int  true  "Transaction ID"
// @Success   200  {file}  file
// @Router    /client/transactions/{id}/receipt [get]
func (h *TransactionHandler) Receipt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := getUserAndRole(c)
	path, err := h.service.Receipt(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, "[tx][receipt]", err)
		return
	}
	c.FileAttachment(path, fmt.Sprintf("receipt_%d.pdf", id))
}

type refundRequest struct {
	Reason   string `json:"reason" binding:"required"`
	Comments string `json:"comments"`
}

// @Summary      Запрос на возврат
// @Description  reason: No Show | Poor Performance | Other
// @Tags         Transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Transaction ID"
// @Param        body  body      refundRequest  true  "Причина"
// @Success      200   {object}  models.Transaction
// @Failure      409   {object}  map[string]string
// @Router       /client/transactions/{id}/refund [post]
func (h *TransactionHandler) RequestRefund(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	tx, err := h.service.RequestRefund(c.Request.Context(), userID, id, req.Reason, req.Comments)
	if err != nil {
		respondError(c, "[tx][refund]", err)
		return
	}
	c.JSON(http.StatusOK, tx)
}
