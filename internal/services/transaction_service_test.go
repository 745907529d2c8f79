package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maidscentre/internal/authz"
	"maidscentre/internal/models"
)

type txFixture struct {
	svc      TransactionService
	txs      *fakeTransactions
	audit    *fakeAuditLogs
	notifier *fakeNotifier
	pdf      *fakePDF
	userID   int
	adminID  int
	tx       *models.Transaction
}

func newTxFixture(t *testing.T) *txFixture {
	t.Helper()
	ctx := context.Background()
	users := newFakeUsers()
	u := &models.User{Email: "nyasha@example.com", Name: "Nyasha", RoleID: authz.RoleClient}
	require.NoError(t, users.Create(ctx, u))
	admin := &models.User{Email: "ops@example.com", Name: "Ops", RoleID: authz.RoleAdmin}
	require.NoError(t, users.Create(ctx, admin))

	clients := newFakeClients()
	client := clients.put(&models.ClientProfile{UserID: u.ID, Name: "Nyasha"})
	other := clients.put(&models.ClientProfile{UserID: 999, Name: "Other"})

	txs := &fakeTransactions{}
	tx := &models.Transaction{ClientID: client.ID, Date: time.Now(), Description: "30-Day Hiring Access Fee",
		Amount: 10, Currency: "USD", Status: models.TxCompleted, Type: models.TxAccess, Reference: "MC-000000000001"}
	require.NoError(t, txs.Create(ctx, tx))
	require.NoError(t, txs.Create(ctx, &models.Transaction{ClientID: other.ID, Status: models.TxCompleted, Type: models.TxAccess}))

	audit := &fakeAuditLogs{}
	notifier := &fakeNotifier{}
	pdfGen := &fakePDF{}
	svc := NewTransactionService(txs, clients, users, pdfGen, notifier, NewAuditService(audit, users))
	return &txFixture{svc: svc, txs: txs, audit: audit, notifier: notifier, pdf: pdfGen, userID: u.ID, adminID: admin.ID, tx: tx}
}

func TestTransactions_ListOnlyOwn(t *testing.T) {
	f := newTxFixture(t)

	list, err := f.svc.ListForClient(context.Background(), f.userID, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.tx.ID, list[0].ID)

	_, err = f.svc.GetForClient(context.Background(), f.userID, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransactions_Receipt(t *testing.T) {
	f := newTxFixture(t)

	path, err := f.svc.Receipt(context.Background(), f.userID, f.tx.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.Equal(t, "Nyasha", f.pdf.last.ClientName)
	assert.Equal(t, "nyasha@example.com", f.pdf.last.ClientEmail)
	assert.Equal(t, "MC-000000000001", f.pdf.last.Reference)
}

func TestRefund_RequestAndDecide(t *testing.T) {
	f := newTxFixture(t)
	ctx := context.Background()

	_, err := f.svc.RequestRefund(ctx, f.userID, f.tx.ID, "Changed my mind", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := f.svc.RequestRefund(ctx, f.userID, f.tx.ID, "No Show", "She never arrived")
	require.NoError(t, err)
	require.NotNil(t, got.RefundStatus)
	assert.Equal(t, models.RefundRequested, *got.RefundStatus)
	assert.Len(t, f.notifier.msgs, 1)

	_, err = f.svc.RequestRefund(ctx, f.userID, f.tx.ID, "No Show", "again")
	assert.ErrorIs(t, err, ErrRefundNotAllowed)

	pending, err := f.svc.ListRefundRequests(ctx, 50, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = f.svc.DecideRefund(ctx, f.adminID, f.tx.ID, "maybe")
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err = f.svc.DecideRefund(ctx, f.adminID, f.tx.ID, "approve")
	require.NoError(t, err)
	assert.Equal(t, models.RefundApproved, *got.RefundStatus)
	require.Len(t, f.audit.list, 1)
	assert.Equal(t, "Refund Approved", f.audit.list[0].Action)

	_, err = f.svc.DecideRefund(ctx, f.adminID, f.tx.ID, "reject")
	assert.ErrorIs(t, err, ErrRefundNotPending)
}

func TestRefund_OnlyCompleted(t *testing.T) {
	f := newTxFixture(t)
	ctx := context.Background()
	pending := &models.Transaction{ClientID: f.tx.ClientID, Status: models.TxPending, Type: models.TxHire}
	require.NoError(t, f.txs.Create(ctx, pending))

	_, err := f.svc.RequestRefund(ctx, f.userID, pending.ID, "Other", "")
	assert.ErrorIs(t, err, ErrRefundNotAllowed)
}

