package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"maidscentre/internal/models"
)

type EmployeeRepository interface {
	Create(ctx context.Context, e *models.EmployeeProfile) error
	GetByID(ctx context.Context, id int) (*models.EmployeeProfile, error)
	GetByUserID(ctx context.Context, userID int) (*models.EmployeeProfile, error)
	Update(ctx context.Context, e *models.EmployeeProfile) error
	ListAll(ctx context.Context) ([]*models.EmployeeProfile, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.EmployeeProfile, error)
}

type employeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeSelect = `
	SELECT id, user_id, name, role, age, religion, location, experience, rating, review_count,
	       bio, skills, certifications, availability, languages,
	       verified, background_checked, police_clearance_verified, reference_checked,
	       medical_clearance, has_drivers_license, has_degree_or_diploma,
	       desired_salary, desired_off_days, profile_picture_url, video_introduction_url,
	       preferred_language, completed_jobs, badges, created_at
	FROM employees
`

func scanEmployee(row interface{ Scan(...any) error }) (*models.EmployeeProfile, error) {
	e := &models.EmployeeProfile{}
	var badges pq.StringArray
	if err := row.Scan(
		&e.ID, &e.UserID, &e.Name, &e.Role, &e.Age, &e.Religion, &e.Location, &e.Experience, &e.Rating, &e.ReviewCount,
		&e.Bio, pq.Array(&e.Skills), pq.Array(&e.Certifications), &e.Availability, pq.Array(&e.Languages),
		&e.Verified, &e.BackgroundChecked, &e.PoliceClearanceVerified, &e.ReferenceChecked,
		&e.MedicalClearance, &e.HasDriversLicense, &e.HasDegreeOrDiploma,
		&e.DesiredSalary, &e.DesiredOffDays, &e.ProfilePictureURL, &e.VideoIntroductionURL,
		&e.PreferredLanguage, &e.CompletedJobs, &badges, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	e.Badges = make([]models.BadgeType, 0, len(badges))
	for _, b := range badges {
		e.Badges = append(e.Badges, models.BadgeType(b))
	}
	return e, nil
}

func badgeStrings(badges []models.BadgeType) pq.StringArray {
	out := make(pq.StringArray, 0, len(badges))
	for _, b := range badges {
		out = append(out, string(b))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *employeeRepository) Create(ctx context.Context, e *models.EmployeeProfile) error {
	const q = `
		INSERT INTO employees (user_id, name, role, location, availability, preferred_language)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	if e.Role == "" {
		e.Role = models.CategoryMaid
	}
	if e.Availability == "" {
		e.Availability = models.AvailabilityImmediately
	}
	if e.PreferredLanguage == "" {
		e.PreferredLanguage = "English"
	}
	if err := conn(ctx, r.db).QueryRowContext(ctx, q,
		e.UserID, e.Name, e.Role, e.Location, e.Availability, e.PreferredLanguage,
	).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int) (*models.EmployeeProfile, error) {
	e, err := scanEmployee(conn(ctx, r.db).QueryRowContext(ctx, employeeSelect+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepository) GetByUserID(ctx context.Context, userID int) (*models.EmployeeProfile, error) {
	e, err := scanEmployee(conn(ctx, r.db).QueryRowContext(ctx, employeeSelect+` WHERE user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get employee by user: %w", err)
	}
	return e, nil
}

// Update пишет редактируемые самим работником поля. Рейтинг, отзывы, бейджи и
// проверки выставляет модерация, здесь их нет.
func (r *employeeRepository) Update(ctx context.Context, e *models.EmployeeProfile) error {
	const q = `
		UPDATE employees
		SET name=$1, role=$2, age=$3, religion=$4, location=$5, experience=$6, bio=$7,
		    skills=$8, certifications=$9, availability=$10, languages=$11,
		    has_drivers_license=$12, has_degree_or_diploma=$13, desired_salary=$14,
		    desired_off_days=$15, profile_picture_url=$16, video_introduction_url=$17,
		    preferred_language=$18
		WHERE id=$19
	`
	if _, err := conn(ctx, r.db).ExecContext(ctx, q,
		e.Name, e.Role, e.Age, e.Religion, e.Location, e.Experience, e.Bio,
		pq.Array(nonNil(e.Skills)), pq.Array(nonNil(e.Certifications)), e.Availability, pq.Array(nonNil(e.Languages)),
		e.HasDriversLicense, e.HasDegreeOrDiploma, e.DesiredSalary,
		e.DesiredOffDays, e.ProfilePictureURL, e.VideoIntroductionURL,
		e.PreferredLanguage, e.ID,
	); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

func (r *employeeRepository) ListAll(ctx context.Context) ([]*models.EmployeeProfile, error) {
	return r.list(ctx, employeeSelect+` ORDER BY id`)
}

func (r *employeeRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.EmployeeProfile, error) {
	if len(ids) == 0 {
		return []*models.EmployeeProfile{}, nil
	}
	arr := make(pq.Int64Array, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, int64(id))
	}
	return r.list(ctx, employeeSelect+` WHERE id = ANY($1) ORDER BY id`, arr)
}

func (r *employeeRepository) list(ctx context.Context, q string, args ...interface{}) ([]*models.EmployeeProfile, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var res []*models.EmployeeProfile
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
