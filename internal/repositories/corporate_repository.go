package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"maidscentre/internal/models"
)

type CorporateRepository interface {
	Create(ctx context.Context, p *models.CorporateProfile) error
	GetByUserID(ctx context.Context, userID int) (*models.CorporateProfile, error)
	Update(ctx context.Context, p *models.CorporateProfile) error
}

type corporateRepository struct {
	db *sql.DB
}

func NewCorporateRepository(db *sql.DB) CorporateRepository {
	return &corporateRepository{db: db}
}

func (r *corporateRepository) Create(ctx context.Context, p *models.CorporateProfile) error {
	const q = `
		INSERT INTO corporate_profiles (user_id, company_name, industry, locations)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, p.UserID, p.CompanyName, p.Industry, pq.Array(nonNil(p.Locations))).Scan(&p.ID); err != nil {
		return fmt.Errorf("create corporate profile: %w", err)
	}
	return nil
}

func (r *corporateRepository) GetByUserID(ctx context.Context, userID int) (*models.CorporateProfile, error) {
	const q = `SELECT id, user_id, company_name, industry, locations FROM corporate_profiles WHERE user_id = $1`
	p := &models.CorporateProfile{}
	err := conn(ctx, r.db).QueryRowContext(ctx, q, userID).Scan(&p.ID, &p.UserID, &p.CompanyName, &p.Industry, pq.Array(&p.Locations))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get corporate profile: %w", err)
	}
	return p, nil
}

func (r *corporateRepository) Update(ctx context.Context, p *models.CorporateProfile) error {
	const q = `UPDATE corporate_profiles SET company_name=$1, industry=$2, locations=$3 WHERE id=$4`
	if _, err := conn(ctx, r.db).ExecContext(ctx, q, p.CompanyName, p.Industry, pq.Array(nonNil(p.Locations)), p.ID); err != nil {
		return fmt.Errorf("update corporate profile: %w", err)
	}
	return nil
}
