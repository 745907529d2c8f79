package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maidscentre/internal/services"
)

// более устойчиво к типам (int / int64 / float64 / string)
func getIntFromCtx(c *gin.Context, key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getUserAndRole(c *gin.Context) (userID, roleID int) {
	if id, ok := getIntFromCtx(c, "user_id"); ok {
		userID = id
	}
	if id, ok := getIntFromCtx(c, "role_id"); ok {
		roleID = id
	}
	return
}

// pageParams: ?page=1&size=50
func pageParams(c *gin.Context) (limit, offset int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 50
	}
	return size, (page - 1) * size
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryBool(c *gin.Context, key string) bool {
	b, _ := strconv.ParseBool(c.Query(key))
	return b
}

// respondError маппит ошибки сервисов в статусы. op — тег для лога.
func respondError(c *gin.Context, op string, err error) {
	var pr *services.PaymentRequiredError
	if errors.As(err, &pr) {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":            err.Error(),
			"payment_required": "access",
			"intent":           pr.Intent,
			"fee":              pr.Fee,
			"currency":         pr.Currency,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidHireType),
		errors.Is(err, services.ErrConfirmationRequired):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidRefresh):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrPremiumRequired):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrAccessActive),
		errors.Is(err, services.ErrAlreadyHired),
		errors.Is(err, services.ErrAlreadyPremium),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrRefundNotAllowed),
		errors.Is(err, services.ErrRefundNotPending),
		errors.Is(err, services.ErrTicketClosed),
		errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Printf("%s[err] %v", op, err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	log.Printf("%s %d: %v", op, status, err)
	c.JSON(status, gin.H{"error": err.Error()})
}
