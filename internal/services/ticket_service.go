package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"maidscentre/internal/authz"
	"maidscentre/internal/models"
	"maidscentre/internal/repositories"
)

type NewTicket struct {
	Subject     string                `json:"subject" binding:"required"`
	Category    models.TicketCategory `json:"category"`
	Description string                `json:"description" binding:"required"`
}

// TicketUpdate — nil поля не меняются.
type TicketUpdate struct {
	Status          *models.TicketStatus   `json:"status"`
	Priority        *models.TicketPriority `json:"priority"`
	AssignedAdminID *int                   `json:"assigned_admin_id"`
}

type TicketService interface {
	Create(ctx context.Context, userID int, in NewTicket) (*models.SupportTicket, error)
	ListOwn(ctx context.Context, userID int) ([]*models.SupportTicket, error)
	GetOwn(ctx context.Context, userID int, id int64) (*models.SupportTicket, error)
	Reply(ctx context.Context, userID int, id int64, text string) (*models.SupportTicket, error)

	List(ctx context.Context, filter models.TicketFilter) ([]*models.SupportTicket, error)
	Get(ctx context.Context, id int64) (*models.SupportTicket, error)
	AdminReply(ctx context.Context, adminID int, id int64, text string) (*models.SupportTicket, error)
	AdminUpdate(ctx context.Context, adminID int, id int64, upd TicketUpdate) (*models.SupportTicket, error)
}

type ticketService struct {
	repo     repositories.TicketRepository
	users    repositories.UserRepository
	audit    AuditService
	notifier AdminNotifier
	now      func() time.Time
}

func NewTicketService(repo repositories.TicketRepository, users repositories.UserRepository, audit AuditService, notifier AdminNotifier) TicketService {
	return &ticketService{repo: repo, users: users, audit: audit, notifier: notifier, now: time.Now}
}

func (s *ticketService) Create(ctx context.Context, userID int, in NewTicket) (*models.SupportTicket, error) {
	subject := strings.TrimSpace(in.Subject)
	text := strings.TrimSpace(in.Description)
	if subject == "" || text == "" {
		return nil, fmt.Errorf("%w: subject and description are required", ErrInvalidInput)
	}
	category := in.Category
	if category == "" {
		category = models.CategoryOther
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}

	now := s.now()
	t := &models.SupportTicket{
		UserID:      userID,
		Subject:     subject,
		Category:    category,
		Status:      models.TicketOpen,
		Priority:    models.PriorityMedium,
		CreatedAt:   now,
		LastUpdated: now,
		Messages: []models.TicketMessage{
			{Author: models.AuthorUser, Text: text, Timestamp: now},
		},
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	log.Printf("[ticket][create] id=%d userID=%d category=%s", t.ID, userID, category)
	if s.notifier != nil {
		s.notifier.NotifyAdmins(fmt.Sprintf("New support ticket #%d [%s]: %s", t.ID, category, subject))
	}
	return t, nil
}

func (s *ticketService) ListOwn(ctx context.Context, userID int) ([]*models.SupportTicket, error) {
	return s.repo.List(ctx, models.TicketFilter{UserID: &userID})
}

func (s *ticketService) GetOwn(ctx context.Context, userID int, id int64) (*models.SupportTicket, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *ticketService) Reply(ctx context.Context, userID int, id int64, text string) (*models.SupportTicket, error) {
	t, err := s.GetOwn(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.addMessage(ctx, t, models.AuthorUser, text)
}

func (s *ticketService) List(ctx context.Context, filter models.TicketFilter) ([]*models.SupportTicket, error) {
	return s.repo.List(ctx, filter)
}

func (s *ticketService) Get(ctx context.Context, id int64) (*models.SupportTicket, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

// AdminReply: первый ответ админа переводит Open в In Progress.
func (s *ticketService) AdminReply(ctx context.Context, adminID int, id int64, text string) (*models.SupportTicket, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err = s.addMessage(ctx, t, models.AuthorAdmin, text)
	if err != nil {
		return nil, err
	}
	if t.Status == models.TicketOpen {
		t.Status = models.TicketInProgress
		if err := s.repo.Update(ctx, t); err != nil {
			return nil, err
		}
	}
	s.record(ctx, adminID, "Ticket Reply", fmt.Sprintf("Replied to ticket #%d", t.ID))
	return t, nil
}

func (s *ticketService) AdminUpdate(ctx context.Context, adminID int, id int64, upd TicketUpdate) (*models.SupportTicket, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := []string{}
	if upd.Status != nil && *upd.Status != t.Status {
		if !canTransition(string(t.Status), string(*upd.Status), TicketTransitions) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, *upd.Status)
		}
		changes = append(changes, fmt.Sprintf("status %s -> %s", t.Status, *upd.Status))
		t.Status = *upd.Status
	}
	if upd.Priority != nil && *upd.Priority != t.Priority {
		if !upd.Priority.Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *upd.Priority)
		}
		changes = append(changes, fmt.Sprintf("priority %s -> %s", t.Priority, *upd.Priority))
		t.Priority = *upd.Priority
	}
	if upd.AssignedAdminID != nil {
		a, err := s.users.GetByID(ctx, *upd.AssignedAdminID)
		if err != nil {
			return nil, err
		}
		if a == nil || !authz.IsAdmin(a.RoleID) {
			return nil, fmt.Errorf("%w: assignee must be an admin", ErrInvalidInput)
		}
		assignee := a.ID
		t.AssignedAdminID = &assignee
		changes = append(changes, fmt.Sprintf("assigned to %s", a.Name))
	}
	if len(changes) == 0 {
		return t, nil
	}

	t.LastUpdated = s.now()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.record(ctx, adminID, "Ticket Update", fmt.Sprintf("Ticket #%d: %s", t.ID, strings.Join(changes, ", ")))
	return t, nil
}

func (s *ticketService) addMessage(ctx context.Context, t *models.SupportTicket, author models.TicketAuthor, text string) (*models.SupportTicket, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrInvalidInput)
	}
	if t.Status == models.TicketClosed {
		return nil, ErrTicketClosed
	}
	m := &models.TicketMessage{TicketID: t.ID, Author: author, Text: text, Timestamp: s.now()}
	if err := s.repo.AddMessage(ctx, m); err != nil {
		return nil, err
	}
	t.Messages = append(t.Messages, *m)
	t.LastUpdated = m.Timestamp
	return t, nil
}

func (s *ticketService) record(ctx context.Context, adminID int, action, details string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, adminID, action, details)
}
