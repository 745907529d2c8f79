package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"maidscentre/internal/models"
)

type ClientRepository interface {
	Create(ctx context.Context, client *models.ClientProfile) error
	GetByID(ctx context.Context, id int) (*models.ClientProfile, error)
	GetByUserID(ctx context.Context, userID int) (*models.ClientProfile, error)
	UpdateDetails(ctx context.Context, client *models.ClientProfile) error
	SetSubscription(ctx context.Context, id int, plan models.SubscriptionPlan) error

	// gating
	TryIncrementView(ctx context.Context, id, limit int) (bool, error)
	GrantAccess(ctx context.Context, id int, start time.Time) error
	ExpireLapsed(ctx context.Context, id int, cutoff time.Time) (bool, error)
	ExpireAllLapsed(ctx context.Context, cutoff time.Time) (int64, error)
	SetPendingHire(ctx context.Context, id int, intent *models.HireIntent) error
	AddHire(ctx context.Context, clientID, employeeID int) (bool, error)
}

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientSelect = `
	SELECT c.id, c.user_id, c.name, c.profile_picture_url, c.location, c.bio,
	       c.adults, c.children, c.pets, c.preferred_language, c.subscription, c.member_since,
	       c.has_paid_for_access, c.access_start_date, c.viewed_profile_count,
	       c.pending_hire_employee_id, c.pending_hire_type,
	       ARRAY(SELECT h.employee_id FROM client_hires h WHERE h.client_id = c.id ORDER BY h.hired_at)
	FROM clients c
`

func scanClient(row interface{ Scan(...any) error }) (*models.ClientProfile, error) {
	c := &models.ClientProfile{}
	var (
		start       sql.NullTime
		pendingID   sql.NullInt64
		pendingType sql.NullString
		hired       pq.Int64Array
	)
	if err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.ProfilePictureURL, &c.Location, &c.Bio,
		&c.Household.Adults, &c.Household.Children, &c.Household.Pets,
		&c.PreferredLanguage, &c.Subscription, &c.MemberSince,
		&c.HasPaidForAccess, &start, &c.ViewedProfileCount,
		&pendingID, &pendingType, &hired,
	); err != nil {
		return nil, err
	}
	if start.Valid {
		t := start.Time
		c.AccessStartDate = &t
	}
	if pendingID.Valid && pendingType.Valid {
		c.PendingHire = &models.HireIntent{EmployeeID: int(pendingID.Int64), HireType: models.HireType(pendingType.String)}
	}
	c.HiredEmployeeIDs = make([]int, 0, len(hired))
	for _, id := range hired {
		c.HiredEmployeeIDs = append(c.HiredEmployeeIDs, int(id))
	}
	return c, nil
}

func (r *clientRepository) Create(ctx context.Context, client *models.ClientProfile) error {
	const q = `
		INSERT INTO clients (user_id, name, location, preferred_language, subscription, member_since)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	if client.Subscription == "" {
		client.Subscription = models.PlanBasic
	}
	if client.PreferredLanguage == "" {
		client.PreferredLanguage = "English"
	}
	if client.MemberSince.IsZero() {
		client.MemberSince = time.Now()
	}
	if err := conn(ctx, r.db).QueryRowContext(ctx, q,
		client.UserID, client.Name, client.Location, client.PreferredLanguage, client.Subscription, client.MemberSince,
	).Scan(&client.ID); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id int) (*models.ClientProfile, error) {
	c, err := scanClient(conn(ctx, r.db).QueryRowContext(ctx, clientSelect+` WHERE c.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (r *clientRepository) GetByUserID(ctx context.Context, userID int) (*models.ClientProfile, error) {
	c, err := scanClient(conn(ctx, r.db).QueryRowContext(ctx, clientSelect+` WHERE c.user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client by user: %w", err)
	}
	return c, nil
}

// UpdateDetails пишет только профильные поля; gating-поля не трогает.
func (r *clientRepository) UpdateDetails(ctx context.Context, client *models.ClientProfile) error {
	const q = `
		UPDATE clients
		SET name=$1, profile_picture_url=$2, location=$3, bio=$4,
		    adults=$5, children=$6, pets=$7, preferred_language=$8
		WHERE id=$9
	`
	if _, err := conn(ctx, r.db).ExecContext(ctx, q,
		client.Name, client.ProfilePictureURL, client.Location, client.Bio,
		client.Household.Adults, client.Household.Children, client.Household.Pets,
		client.PreferredLanguage, client.ID,
	); err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

func (r *clientRepository) SetSubscription(ctx context.Context, id int, plan models.SubscriptionPlan) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE clients SET subscription=$1 WHERE id=$2`, plan, id); err != nil {
		return fmt.Errorf("set subscription: %w", err)
	}
	return nil
}

// TryIncrementView counts a free view. The WHERE clause keeps the count at or
// below limit even under concurrent requests.
func (r *clientRepository) TryIncrementView(ctx context.Context, id, limit int) (bool, error) {
	const q = `
		UPDATE clients
		SET viewed_profile_count = viewed_profile_count + 1
		WHERE id=$1 AND has_paid_for_access = FALSE AND viewed_profile_count < $2
	`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id, limit)
	if err != nil {
		return false, fmt.Errorf("increment view: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("increment view: %w", err)
	}
	return n == 1, nil
}

func (r *clientRepository) GrantAccess(ctx context.Context, id int, start time.Time) error {
	const q = `
		UPDATE clients
		SET has_paid_for_access = TRUE, access_start_date = $1, viewed_profile_count = 0
		WHERE id=$2
	`
	if _, err := conn(ctx, r.db).ExecContext(ctx, q, start, id); err != nil {
		return fmt.Errorf("grant access: %w", err)
	}
	return nil
}

const expireSet = `
	UPDATE clients
	SET has_paid_for_access = FALSE, access_start_date = NULL, viewed_profile_count = 0
`

func (r *clientRepository) ExpireLapsed(ctx context.Context, id int, cutoff time.Time) (bool, error) {
	q := expireSet + ` WHERE id=$1 AND has_paid_for_access AND (access_start_date IS NULL OR access_start_date < $2)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id, cutoff)
	if err != nil {
		return false, fmt.Errorf("expire access: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("expire access: %w", err)
	}
	return n == 1, nil
}

func (r *clientRepository) ExpireAllLapsed(ctx context.Context, cutoff time.Time) (int64, error) {
	q := expireSet + ` WHERE has_paid_for_access AND (access_start_date IS NULL OR access_start_date < $1)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire lapsed access: %w", err)
	}
	return res.RowsAffected()
}

func (r *clientRepository) SetPendingHire(ctx context.Context, id int, intent *models.HireIntent) error {
	var (
		empID    sql.NullInt64
		hireType sql.NullString
	)
	if intent != nil {
		empID = sql.NullInt64{Int64: int64(intent.EmployeeID), Valid: true}
		hireType = sql.NullString{String: string(intent.HireType), Valid: true}
	}
	if _, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE clients SET pending_hire_employee_id=$1, pending_hire_type=$2 WHERE id=$3`,
		empID, hireType, id,
	); err != nil {
		return fmt.Errorf("set pending hire: %w", err)
	}
	return nil
}

// AddHire returns false when the employee is already on the client's team.
func (r *clientRepository) AddHire(ctx context.Context, clientID, employeeID int) (bool, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO client_hires (client_id, employee_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		clientID, employeeID,
	)
	if err != nil {
		return false, fmt.Errorf("add hire: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add hire: %w", err)
	}
	return n == 1, nil
}
