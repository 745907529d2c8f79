package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"maidscentre/internal/models"
)

type TicketRepository interface {
	Create(ctx context.Context, t *models.SupportTicket) error
	GetByID(ctx context.Context, id int64) (*models.SupportTicket, error)
	List(ctx context.Context, filter models.TicketFilter) ([]*models.SupportTicket, error)
	AddMessage(ctx context.Context, m *models.TicketMessage) error
	Update(ctx context.Context, t *models.SupportTicket) error
}

type ticketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketSelect = `
	SELECT id, user_id, subject, category, status, priority, assigned_admin_id, created_at, last_updated
	FROM support_tickets
`

func scanTicket(row interface{ Scan(...any) error }) (*models.SupportTicket, error) {
	t := &models.SupportTicket{}
	var admin sql.NullInt64
	if err := row.Scan(&t.ID, &t.UserID, &t.Subject, &t.Category, &t.Status, &t.Priority, &admin,
		&t.CreatedAt, &t.LastUpdated); err != nil {
		return nil, err
	}
	if admin.Valid {
		id := int(admin.Int64)
		t.AssignedAdminID = &id
	}
	return t, nil
}

// Create вставляет тикет и его первые сообщения одной транзакцией.
func (r *ticketRepository) Create(ctx context.Context, t *models.SupportTicket) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
		INSERT INTO support_tickets (user_id, subject, category, status, priority, created_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, q, t.UserID, t.Subject, t.Category, t.Status, t.Priority,
		t.CreatedAt, t.LastUpdated).Scan(&t.ID); err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	for i := range t.Messages {
		m := &t.Messages[i]
		m.TicketID = t.ID
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO ticket_messages (ticket_id, author, text, timestamp) VALUES ($1, $2, $3, $4) RETURNING id`,
			m.TicketID, m.Author, m.Text, m.Timestamp,
		).Scan(&m.ID); err != nil {
			return fmt.Errorf("create ticket message: %w", err)
		}
	}
	return tx.Commit()
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*models.SupportTicket, error) {
	t, err := scanTicket(r.db.QueryRowContext(ctx, ticketSelect+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, ticket_id, author, text, timestamp FROM ticket_messages WHERE ticket_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket messages: %w", err)
	}
	defer rows.Close()

	t.Messages = []models.TicketMessage{}
	for rows.Next() {
		var m models.TicketMessage
		if err := rows.Scan(&m.ID, &m.TicketID, &m.Author, &m.Text, &m.Timestamp); err != nil {
			return nil, err
		}
		t.Messages = append(t.Messages, m)
	}
	return t, rows.Err()
}

// List без сообщений — для таблиц.
func (r *ticketRepository) List(ctx context.Context, filter models.TicketFilter) ([]*models.SupportTicket, error) {
	q := ticketSelect
	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argID))
		args = append(args, *filter.UserID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argID))
		args = append(args, *filter.Priority)
		argID++
	}
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += " ORDER BY last_updated DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var res []*models.SupportTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *ticketRepository) AddMessage(ctx context.Context, m *models.TicketMessage) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("add ticket message: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO ticket_messages (ticket_id, author, text, timestamp) VALUES ($1, $2, $3, $4) RETURNING id`,
		m.TicketID, m.Author, m.Text, m.Timestamp,
	).Scan(&m.ID); err != nil {
		return fmt.Errorf("add ticket message: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE support_tickets SET last_updated=$1 WHERE id=$2`, m.Timestamp, m.TicketID); err != nil {
		return fmt.Errorf("touch ticket: %w", err)
	}
	return tx.Commit()
}

func (r *ticketRepository) Update(ctx context.Context, t *models.SupportTicket) error {
	const q = `
		UPDATE support_tickets
		SET status=$1, priority=$2, assigned_admin_id=$3, last_updated=$4
		WHERE id=$5
	`
	var admin sql.NullInt64
	if t.AssignedAdminID != nil {
		admin = sql.NullInt64{Int64: int64(*t.AssignedAdminID), Valid: true}
	}
	if _, err := r.db.ExecContext(ctx, q, t.Status, t.Priority, admin, t.LastUpdated, t.ID); err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	return nil
}
