package services

import (
	"context"
	"strings"

	"maidscentre/internal/models"
	"maidscentre/internal/repositories"
)

type CorporateService interface {
	GetProfile(ctx context.Context, userID int) (*models.CorporateProfile, error)
	UpdateProfile(ctx context.Context, userID int, upd *models.CorporateProfile) (*models.CorporateProfile, error)
}

type corporateService struct {
	repo repositories.CorporateRepository
}

func NewCorporateService(repo repositories.CorporateRepository) CorporateService {
	return &corporateService{repo: repo}
}

func (s *corporateService) GetProfile(ctx context.Context, userID int) (*models.CorporateProfile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *corporateService) UpdateProfile(ctx context.Context, userID int, upd *models.CorporateProfile) (*models.CorporateProfile, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(upd.CompanyName); name != "" {
		p.CompanyName = name
	}
	p.Industry = strings.TrimSpace(upd.Industry)
	locs := make([]string, 0, len(upd.Locations))
	for _, l := range upd.Locations {
		if l = strings.TrimSpace(l); l != "" {
			locs = append(locs, l)
		}
	}
	p.Locations = locs
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
