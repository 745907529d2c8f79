package services

import (
	"context"
	"log"
	"time"

	"maidscentre/internal/models"
	"maidscentre/internal/repositories"
)

type AuditService interface {
	Record(ctx context.Context, adminID int, action, details string) error
	List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}

type auditService struct {
	repo  repositories.AuditLogRepository
	users repositories.UserRepository
	now   func() time.Time
}

func NewAuditService(repo repositories.AuditLogRepository, users repositories.UserRepository) AuditService {
	return &auditService{repo: repo, users: users, now: time.Now}
}

func (s *auditService) Record(ctx context.Context, adminID int, action, details string) error {
	name := ""
	if u, err := s.users.GetByID(ctx, adminID); err == nil && u != nil {
		name = u.Name
	}
	entry := &models.AuditLog{
		Timestamp: s.now(),
		AdminID:   adminID,
		AdminName: name,
		Action:    action,
		Details:   details,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.Printf("[audit][err] adminID=%d action=%q: %v", adminID, action, err)
		return err
	}
	return nil
}

func (s *auditService) List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	return s.repo.List(ctx, limit, offset)
}
