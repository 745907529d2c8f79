package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"maidscentre/internal/models"
)

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogRepository struct {
	db *sql.DB
}

func NewAuditLogRepository(db *sql.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	const q = `
		INSERT INTO audit_logs (timestamp, admin_id, admin_name, action, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, entry.Timestamp, entry.AdminID, entry.AdminName, entry.Action, entry.Details).
		Scan(&entry.ID); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

func (r *auditLogRepository) List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, timestamp, admin_id, admin_name, action, details FROM audit_logs ORDER BY timestamp DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var res []*models.AuditLog
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.AdminID, &e.AdminName, &e.Action, &e.Details); err != nil {
			return nil, err
		}
		res = append(res, &e)
	}
	return res, rows.Err()
}
