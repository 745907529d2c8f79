package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maidscentre/internal/authz"
	"maidscentre/internal/models"
	"maidscentre/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAccess: невызываемые методы паникуют через nil-интерфейс.
type stubAccess struct {
	services.AccessService
	viewErr   error
	payUserID int
	payHire   payHireRequest
	step      *services.PaymentStep
}

func (s *stubAccess) ViewProfile(_ context.Context, userID, employeeID int) (*services.ProfileView, error) {
	if s.viewErr != nil {
		return nil, s.viewErr
	}
	return &services.ProfileView{Employee: &models.EmployeeProfile{ID: employeeID, Name: "Chipo"}}, nil
}

func (s *stubAccess) PayHire(_ context.Context, userID, employeeID int, hireType models.HireType, code string) (*services.PaymentStep, error) {
	s.payUserID = userID
	s.payHire = payHireRequest{EmployeeID: employeeID, HireType: hireType, ConfirmationCode: code}
	return s.step, nil
}

type stubTxs struct {
	services.TransactionService
	adminID  int
	decision string
}

func (s *stubTxs) DecideRefund(_ context.Context, adminID int, txID int64, decision string) (*models.Transaction, error) {
	s.adminID = adminID
	s.decision = decision
	if decision != "approve" && decision != "reject" {
		return nil, fmt.Errorf("%w: decision", services.ErrInvalidInput)
	}
	st := models.RefundApproved
	return &models.Transaction{ID: txID, RefundStatus: &st}, nil
}

type stubUsers struct {
	services.UserService
	gotRole, gotLimit, gotOffset int
}

func (s *stubUsers) ListUsers(_ context.Context, roleID, limit, offset int) ([]*models.User, error) {
	s.gotRole, s.gotLimit, s.gotOffset = roleID, limit, offset
	return nil, nil
}

func (s *stubUsers) GetUserCount(context.Context) (int, error) { return 3, nil }

// withUser кладёт в контекст то же, что AuthMiddleware.
func withUser(userID, roleID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role_id", roleID)
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: name", services.ErrInvalidInput), http.StatusBadRequest},
		{services.ErrInvalidHireType, http.StatusBadRequest},
		{services.ErrConfirmationRequired, http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrPremiumRequired, http.StatusForbidden},
		{services.ErrAccessActive, http.StatusConflict},
		{services.ErrAlreadyHired, http.StatusConflict},
		{services.ErrTicketClosed, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, "[test]", tc.err)
			assert.Equal(t, tc.want, w.Code)
		})
	}

	// внутренние ошибки наружу не уходят
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, "[test]", errors.New("pq: password authentication failed"))
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestViewEmployee(t *testing.T) {
	access := &stubAccess{}
	h := NewAccessHandler(access)
	r := gin.New()
	r.GET("/client/employees/:id", withUser(7, authz.RoleClient), h.ViewEmployee)

	t.Run("ok", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/client/employees/3", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got services.ProfileView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 3, got.Employee.ID)
	})

	t.Run("bad id", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/client/employees/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("payment required", func(t *testing.T) {
		access.viewErr = &services.PaymentRequiredError{Intent: "browse", Fee: 10, Currency: "USD"}
		defer func() { access.viewErr = nil }()

		w := doJSON(r, http.MethodGet, "/client/employees/3", nil)
		require.Equal(t, http.StatusPaymentRequired, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "access", body["payment_required"])
		assert.Equal(t, "browse", body["intent"])
		assert.Equal(t, 10.0, body["fee"])
		assert.Equal(t, "USD", body["currency"])
	})
}

func TestPayHire(t *testing.T) {
	access := &stubAccess{step: &services.PaymentStep{NextStep: services.StepDone}}
	h := NewAccessHandler(access)
	r := gin.New()
	r.POST("/client/payments/hire", withUser(7, authz.RoleClient), h.PayHire)

	w := doJSON(r, http.MethodPost, "/client/payments/hire", gin.H{"employee_id": 3, "hire_type": "once-off"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/client/payments/hire", gin.H{
		"employee_id": 3, "hire_type": "once-off", "confirmation_code": "ECO-123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 7, access.payUserID)
	assert.Equal(t, payHireRequest{EmployeeID: 3, HireType: models.HireOnceOff, ConfirmationCode: "ECO-123"}, access.payHire)
	assert.Contains(t, w.Body.String(), `"next_step":"done"`)
}

func TestAdmin_DecideRefund(t *testing.T) {
	txs := &stubTxs{}
	h := NewAdminHandler(&stubUsers{}, nil, txs, nil)
	r := gin.New()
	r.POST("/admin/transactions/:id/refund", withUser(1, authz.RoleAdmin), h.DecideRefund)

	w := doJSON(r, http.MethodPost, "/admin/transactions/5/refund", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/admin/transactions/5/refund", gin.H{"decision": "later"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/admin/transactions/5/refund", gin.H{"decision": "approve"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, txs.adminID)
	assert.Contains(t, w.Body.String(), `"refund_status":"Approved"`)
}

func TestAdmin_ListUsersPaging(t *testing.T) {
	users := &stubUsers{}
	h := NewAdminHandler(users, nil, nil, nil)
	r := gin.New()
	r.GET("/admin/users", withUser(1, authz.RoleAdmin), h.ListUsers)

	w := doJSON(r, http.MethodGet, "/admin/users?role_id=20&page=3&size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, users.gotRole)
	assert.Equal(t, 10, users.gotLimit)
	assert.Equal(t, 20, users.gotOffset)
	assert.JSONEq(t, `{"items":[],"total":3}`, w.Body.String())

	// размер больше лимита сбрасывается на дефолт
	doJSON(r, http.MethodGet, "/admin/users?size=1000", nil)
	assert.Equal(t, 50, users.gotLimit)
	assert.Equal(t, 0, users.gotOffset)
}
