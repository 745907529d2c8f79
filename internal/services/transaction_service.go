package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"maidscentre/internal/models"
	"maidscentre/internal/pdf"
	"maidscentre/internal/repositories"
)

type TransactionService interface {
	ListForClient(ctx context.Context, userID, limit, offset int) ([]*models.Transaction, error)
	GetForClient(ctx context.Context, userID int, txID int64) (*models.Transaction, error)
	Receipt(ctx context.Context, userID int, txID int64) (string, error)
	RequestRefund(ctx context.Context, userID int, txID int64, reason, comments string) (*models.Transaction, error)
	ListRefundRequests(ctx context.Context, limit, offset int) ([]*models.Transaction, error)
	DecideRefund(ctx context.Context, adminID int, txID int64, decision string) (*models.Transaction, error)
}

type transactionService struct {
	repo     repositories.TransactionRepository
	clients  repositories.ClientRepository
	users    repositories.UserRepository
	pdfGen   pdf.Generator
	notifier AdminNotifier
	audit    AuditService
}

func NewTransactionService(
	repo repositories.TransactionRepository,
	clients repositories.ClientRepository,
	users repositories.UserRepository,
	pdfGen pdf.Generator,
	notifier AdminNotifier,
	audit AuditService,
) TransactionService {
	return &transactionService{
		repo:     repo,
		clients:  clients,
		users:    users,
		pdfGen:   pdfGen,
		notifier: notifier,
		audit:    audit,
	}
}

func (s *transactionService) clientFor(ctx context.Context, userID int) (*models.ClientProfile, error) {
	client, err := s.clients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrNotFound
	}
	return client, nil
}

func (s *transactionService) ListForClient(ctx context.Context, userID, limit, offset int) ([]*models.Transaction, error) {
	client, err := s.clientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByClient(ctx, client.ID, limit, offset)
}

// GetForClient: чужая транзакция выглядит как несуществующая.
func (s *transactionService) GetForClient(ctx context.Context, userID int, txID int64) (*models.Transaction, error) {
	client, err := s.clientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	tx, err := s.repo.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx == nil || tx.ClientID != client.ID {
		return nil, ErrNotFound
	}
	return tx, nil
}

func (s *transactionService) Receipt(ctx context.Context, userID int, txID int64) (string, error) {
	tx, err := s.GetForClient(ctx, userID, txID)
	if err != nil {
		return "", err
	}
	client, err := s.clientFor(ctx, userID)
	if err != nil {
		return "", err
	}
	email := ""
	if u, err := s.users.GetByID(ctx, userID); err == nil && u != nil {
		email = u.Email
	}
	data := pdf.ReceiptData{
		TransactionID:    tx.ID,
		Reference:        tx.Reference,
		Date:             tx.Date,
		ClientName:       client.Name,
		ClientEmail:      email,
		Description:      tx.Description,
		Type:             string(tx.Type),
		Status:           string(tx.Status),
		Amount:           tx.Amount,
		Currency:         tx.Currency,
		ConfirmationCode: tx.ConfirmationCode,
	}
	if tx.RefundStatus != nil {
		data.RefundStatus = string(*tx.RefundStatus)
	}
	path, err := s.pdfGen.GenerateReceipt(data)
	if err != nil {
		log.Printf("[tx][receipt][err] txID=%d: %v", tx.ID, err)
		return "", err
	}
	return path, nil
}

func (s *transactionService) RequestRefund(ctx context.Context, userID int, txID int64, reason, comments string) (*models.Transaction, error) {
	reason = strings.TrimSpace(reason)
	if !models.RefundReasons[reason] {
		return nil, fmt.Errorf("%w: reason must be No Show, Poor Performance or Other", ErrInvalidInput)
	}
	tx, err := s.GetForClient(ctx, userID, txID)
	if err != nil {
		return nil, err
	}
	if tx.Status != models.TxCompleted || tx.RefundStatus != nil {
		return nil, ErrRefundNotAllowed
	}
	ok, err := s.repo.RequestRefund(ctx, tx.ID, reason, strings.TrimSpace(comments))
	if err != nil {
		return nil, err
	}
	if !ok {
		// параллельный запрос успел первым
		return nil, ErrRefundNotAllowed
	}
	st := models.RefundRequested
	tx.RefundStatus = &st
	tx.RefundReason = reason
	tx.RefundComments = strings.TrimSpace(comments)

	log.Printf("[tx][refund] txID=%d clientID=%d reason=%q", tx.ID, tx.ClientID, reason)
	if s.notifier != nil {
		s.notifier.NotifyAdmins(fmt.Sprintf("Refund requested: transaction #%d (%s, %.2f %s), reason: %s",
			tx.ID, tx.Description, tx.Amount, tx.Currency, reason))
	}
	return tx, nil
}

func (s *transactionService) ListRefundRequests(ctx context.Context, limit, offset int) ([]*models.Transaction, error) {
	return s.repo.ListRefundRequests(ctx, limit, offset)
}

func (s *transactionService) DecideRefund(ctx context.Context, adminID int, txID int64, decision string) (*models.Transaction, error) {
	var status models.RefundStatus
	switch strings.ToLower(strings.TrimSpace(decision)) {
	case "approve":
		status = models.RefundApproved
	case "reject":
		status = models.RefundRejected
	default:
		return nil, fmt.Errorf("%w: decision must be approve or reject", ErrInvalidInput)
	}

	tx, err := s.repo.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrNotFound
	}
	ok, err := s.repo.DecideRefund(ctx, txID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRefundNotPending
	}
	tx.RefundStatus = &status

	if s.audit != nil {
		_ = s.audit.Record(ctx, adminID, "Refund "+string(status),
			fmt.Sprintf("Transaction #%d (%s, %.2f %s)", tx.ID, tx.Description, tx.Amount, tx.Currency))
	}
	log.Printf("[tx][refund] txID=%d decided=%s by adminID=%d", tx.ID, status, adminID)
	return tx, nil
}
