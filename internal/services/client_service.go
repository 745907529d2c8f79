package services

import (
	"context"
	"log"
	"strings"

	"maidscentre/internal/config"
	"maidscentre/internal/models"
	"maidscentre/internal/repositories"
)

// ClientProfileUpdate — поля, которые клиент редактирует сам.
// Поля доступа сюда намеренно не входят.
type ClientProfileUpdate struct {
	Name              string                  `json:"name"`
	ProfilePictureURL string                  `json:"profile_picture_url"`
	Location          string                  `json:"location"`
	Bio               string                  `json:"bio"`
	Household         models.HouseholdDetails `json:"household_details"`
	PreferredLanguage string                  `json:"preferred_language"`
}

type UpgradeResult struct {
	Subscription models.SubscriptionPlan `json:"subscription"`
	Price        float64                 `json:"price"`
	Currency     string                  `json:"currency"`
}

type ClientService interface {
	GetByUserID(ctx context.Context, userID int) (*models.ClientProfile, error)
	UpdateProfile(ctx context.Context, userID int, upd ClientProfileUpdate) (*models.ClientProfile, error)
	UpgradeSubscription(ctx context.Context, userID int) (*UpgradeResult, error)
}

type clientService struct {
	repo repositories.ClientRepository
	fees config.FeesConfig
}

func NewClientService(repo repositories.ClientRepository, fees config.FeesConfig) ClientService {
	return &clientService{repo: repo, fees: fees}
}

func (s *clientService) GetByUserID(ctx context.Context, userID int) (*models.ClientProfile, error) {
	client, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrNotFound
	}
	return client, nil
}

func (s *clientService) UpdateProfile(ctx context.Context, userID int, upd ClientProfileUpdate) (*models.ClientProfile, error) {
	client, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.Household.Adults < 0 || upd.Household.Children < 0 {
		return nil, ErrInvalidInput
	}
	if name := strings.TrimSpace(upd.Name); name != "" {
		client.Name = name
	}
	client.ProfilePictureURL = upd.ProfilePictureURL
	client.Location = strings.TrimSpace(upd.Location)
	client.Bio = upd.Bio
	client.Household = upd.Household
	if lang := strings.TrimSpace(upd.PreferredLanguage); lang != "" {
		client.PreferredLanguage = lang
	}
	if err := s.repo.UpdateDetails(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) UpgradeSubscription(ctx context.Context, userID int) (*UpgradeResult, error) {
	client, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if client.IsPremium() {
		return nil, ErrAlreadyPremium
	}
	if err := s.repo.SetSubscription(ctx, client.ID, models.PlanPremium); err != nil {
		return nil, err
	}
	log.Printf("[client][upgrade] clientID=%d -> Premium", client.ID)
	return &UpgradeResult{Subscription: models.PlanPremium, Price: s.fees.PremiumPlan, Currency: s.fees.Currency}, nil
}
