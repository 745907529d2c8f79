package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"maidscentre/internal/authz"
	"maidscentre/internal/models"
	"maidscentre/internal/repositories"
	"maidscentre/internal/utils"
)

type Tokens struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
	Logout(ctx context.Context, userID int) error
	EnsureAdmin(ctx context.Context, email, password, name string) error
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	ListUsers(ctx context.Context, roleID, limit, offset int) ([]*models.User, error)
	GetUserCount(ctx context.Context) (int, error)
}

type userService struct {
	db           repositories.TxRunner
	repo         repositories.UserRepository
	clients      repositories.ClientRepository
	employees    repositories.EmployeeRepository
	corporates   repositories.CorporateRepository
	emailService EmailService
	authService  AuthService
	refreshTTL   time.Duration
	now          func() time.Time
	async        func(func())
}

func NewUserService(
	db repositories.TxRunner,
	repo repositories.UserRepository,
	clients repositories.ClientRepository,
	employees repositories.EmployeeRepository,
	corporates repositories.CorporateRepository,
	emailService EmailService,
	authService AuthService,
	refreshTTL time.Duration,
) UserService {
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &userService{
		db:           db,
		repo:         repo,
		clients:      clients,
		employees:    employees,
		corporates:   corporates,
		emailService: emailService,
		authService:  authService,
		refreshTTL:   refreshTTL,
		now:          time.Now,
		async:        goAsync,
	}
}

// Register создаёт пользователя и строку профиля под его роль.
// Corporate получает ещё и client-профиль: нанимает так же, как домохозяйство.
func (s *userService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	roleID, ok := authz.RoleFromName(req.Role)
	if !ok {
		return nil, fmt.Errorf("%w: role must be client, employee or corporate", ErrInvalidInput)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(strings.TrimSpace(req.Password)) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}

	hash, err := s.authService.HashPassword(strings.TrimSpace(req.Password))
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: email, Name: name, PasswordHash: hash, RoleID: roleID}
	// пользователь без профиля не должен остаться: email потом занят навсегда
	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrEmailTaken
			}
			return err
		}
		if err := s.createProfile(ctx, user); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrEmailTaken) {
			log.Printf("[user][register][err] email=%s: %v", email, err)
		}
		return nil, err
	}
	log.Printf("[user][register] userID=%d role=%d", user.ID, user.RoleID)

	if s.emailService != nil {
		to, toName := user.Email, user.Name
		s.async(func() {
			if err := s.emailService.SendWelcomeEmail(to, toName); err != nil {
				// warn but do not fail creation
				log.Printf("[user][register] warning: failed to send welcome email to %s: %v", to, err)
			}
		})
	}
	return user, nil
}

func (s *userService) createProfile(ctx context.Context, user *models.User) error {
	switch user.RoleID {
	case authz.RoleClient:
		return s.clients.Create(ctx, &models.ClientProfile{UserID: user.ID, Name: user.Name})
	case authz.RoleEmployee:
		return s.employees.Create(ctx, &models.EmployeeProfile{UserID: user.ID, Name: user.Name})
	case authz.RoleCorporate:
		if err := s.corporates.Create(ctx, &models.CorporateProfile{UserID: user.ID, CompanyName: user.Name}); err != nil {
			return err
		}
		return s.clients.Create(ctx, &models.ClientProfile{UserID: user.ID, Name: user.Name})
	}
	return nil
}

func (s *userService) issueTokens(ctx context.Context, user *models.User) (*Tokens, error) {
	access, accessExp, err := s.authService.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	rt, err := utils.NewRefreshToken(32)
	if err != nil {
		return nil, fmt.Errorf("new refresh token: %w", err)
	}
	rtExp := s.now().Add(s.refreshTTL)
	if err := s.repo.UpdateRefresh(ctx, user.ID, rt, rtExp); err != nil {
		return nil, err
	}
	return &Tokens{AccessToken: access, AccessExpiresAt: accessExp, RefreshToken: rt, RefreshExpiresAt: rtExp}, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*models.User, *Tokens, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		log.Printf("[auth][login] user not found email=%q", email)
		return nil, nil, ErrInvalidCredentials
	}
	ph := strings.TrimSpace(user.PasswordHash)
	if ph == "" || !s.authService.CheckPassword(ph, strings.TrimSpace(password)) {
		log.Printf("[auth][login] bcrypt mismatch for userID=%d", user.ID)
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[auth][login] success userID=%d role=%d", user.ID, user.RoleID)
	return user, tokens, nil
}

// Refresh ротирует refresh-токен; старый после этого недействителен.
func (s *userService) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	old := strings.TrimSpace(refreshToken)
	if old == "" {
		return nil, ErrInvalidRefresh
	}
	user, err := s.repo.GetByRefreshToken(ctx, old)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshToken == nil || user.RefreshExpiresAt == nil || user.RefreshRevoked {
		return nil, ErrInvalidRefresh
	}
	if s.now().After(*user.RefreshExpiresAt) {
		return nil, ErrInvalidRefresh
	}

	newRT, err := utils.NewRefreshToken(32)
	if err != nil {
		return nil, fmt.Errorf("new refresh token: %w", err)
	}
	newExp := s.now().Add(s.refreshTTL)
	rotated, err := s.repo.RotateRefresh(ctx, old, newRT, newExp)
	if err != nil {
		return nil, err
	}
	if rotated == nil {
		return nil, ErrInvalidRefresh
	}
	access, accessExp, err := s.authService.IssueAccessToken(rotated)
	if err != nil {
		return nil, err
	}
	return &Tokens{AccessToken: access, AccessExpiresAt: accessExp, RefreshToken: newRT, RefreshExpiresAt: newExp}, nil
}

func (s *userService) Logout(ctx context.Context, userID int) error {
	return s.repo.ClearRefresh(ctx, userID)
}

// EnsureAdmin заводит админа из конфига, если такого email ещё нет.
func (s *userService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil
	}
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := s.authService.HashPassword(strings.TrimSpace(password))
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, &models.User{Email: email, Name: name, PasswordHash: hash, RoleID: authz.RoleAdmin}); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil
		}
		return err
	}
	log.Printf("[user][seed] admin %s created", email)
	return nil
}

func (s *userService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *userService) ListUsers(ctx context.Context, roleID, limit, offset int) ([]*models.User, error) {
	return s.repo.List(ctx, roleID, limit, offset)
}

func (s *userService) GetUserCount(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
