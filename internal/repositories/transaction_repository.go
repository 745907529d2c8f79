package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"maidscentre/internal/models"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	ListByClient(ctx context.Context, clientID, limit, offset int) ([]*models.Transaction, error)
	ListRefundRequests(ctx context.Context, limit, offset int) ([]*models.Transaction, error)

	// RequestRefund / DecideRefund return false when the row is not in the
	// expected state (already requested, not completed, already decided).
	RequestRefund(ctx context.Context, id int64, reason, comments string) (bool, error)
	DecideRefund(ctx context.Context, id int64, decision models.RefundStatus) (bool, error)
}

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionSelect = `
	SELECT id, client_id, employee_id, date, description, amount, currency, status, type,
	       reference, confirmation_code, refund_status, refund_reason, refund_comments
	FROM transactions
`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	t := &models.Transaction{}
	var (
		employeeID   sql.NullInt64
		refundStatus sql.NullString
	)
	if err := row.Scan(
		&t.ID, &t.ClientID, &employeeID, &t.Date, &t.Description, &t.Amount, &t.Currency, &t.Status, &t.Type,
		&t.Reference, &t.ConfirmationCode, &refundStatus, &t.RefundReason, &t.RefundComments,
	); err != nil {
		return nil, err
	}
	if employeeID.Valid {
		id := int(employeeID.Int64)
		t.EmployeeID = &id
	}
	if refundStatus.Valid {
		s := models.RefundStatus(refundStatus.String)
		t.RefundStatus = &s
	}
	return t, nil
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	const q = `
		INSERT INTO transactions (client_id, employee_id, date, description, amount, currency, status, type,
		                          reference, confirmation_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var employeeID sql.NullInt64
	if tx.EmployeeID != nil {
		employeeID = sql.NullInt64{Int64: int64(*tx.EmployeeID), Valid: true}
	}
	if err := conn(ctx, r.db).QueryRowContext(ctx, q,
		tx.ClientID, employeeID, tx.Date, tx.Description, tx.Amount, tx.Currency, tx.Status, tx.Type,
		tx.Reference, tx.ConfirmationCode,
	).Scan(&tx.ID); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	t, err := scanTransaction(conn(ctx, r.db).QueryRowContext(ctx, transactionSelect+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *transactionRepository) ListByClient(ctx context.Context, clientID, limit, offset int) ([]*models.Transaction, error) {
	return r.list(ctx, transactionSelect+` WHERE client_id = $1 ORDER BY date DESC, id DESC LIMIT $2 OFFSET $3`,
		clientID, limit, offset)
}

func (r *transactionRepository) ListRefundRequests(ctx context.Context, limit, offset int) ([]*models.Transaction, error) {
	return r.list(ctx, transactionSelect+` WHERE refund_status = $1 ORDER BY date ASC LIMIT $2 OFFSET $3`,
		models.RefundRequested, limit, offset)
}

func (r *transactionRepository) list(ctx context.Context, q string, args ...interface{}) ([]*models.Transaction, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var res []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *transactionRepository) RequestRefund(ctx context.Context, id int64, reason, comments string) (bool, error) {
	const q = `
		UPDATE transactions
		SET refund_status=$1, refund_reason=$2, refund_comments=$3
		WHERE id=$4 AND refund_status IS NULL AND status=$5
	`
	return affectedOne(conn(ctx, r.db).ExecContext(ctx, q, models.RefundRequested, reason, comments, id, models.TxCompleted))
}

func (r *transactionRepository) DecideRefund(ctx context.Context, id int64, decision models.RefundStatus) (bool, error) {
	const q = `UPDATE transactions SET refund_status=$1 WHERE id=$2 AND refund_status=$3`
	return affectedOne(conn(ctx, r.db).ExecContext(ctx, q, decision, id, models.RefundRequested))
}

func affectedOne(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
