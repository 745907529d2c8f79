package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"maidscentre/internal/config"
	"maidscentre/internal/models"
	"maidscentre/internal/repositories"
	"maidscentre/internal/utils"
)

type NextStep string

const (
	StepAccessPayment NextStep = "access_payment"
	StepHirePayment   NextStep = "hire_payment"
	StepDone          NextStep = "done"
)

// PaymentRequiredError несёт то, что клиенту надо оплатить, чтобы продолжить.
type PaymentRequiredError struct {
	Intent   string // browse | hire
	Fee      float64
	Currency string
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("access payment required to %s", e.Intent)
}

func (e *PaymentRequiredError) Unwrap() error { return ErrPaymentRequired }

type HireQuote struct {
	EmployeeID   int             `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	HireType     models.HireType `json:"hire_type"`
	Fee          float64         `json:"fee"`
	Currency     string          `json:"currency"`
	Description  string          `json:"description"`
}

// PaymentStep — ответ на попытку найма и на оплату.
type PaymentStep struct {
	NextStep    NextStep            `json:"next_step"`
	Fee         float64             `json:"fee,omitempty"`
	Currency    string              `json:"currency,omitempty"`
	Hire        *HireQuote          `json:"hire,omitempty"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

type ProfileView struct {
	Employee *models.EmployeeProfile `json:"employee"`
	Access   AccessStatus            `json:"access"`
}

type AccessService interface {
	Status(ctx context.Context, userID int) (AccessStatus, error)
	ViewProfile(ctx context.Context, userID, employeeID int) (*ProfileView, error)
	AttemptHire(ctx context.Context, userID, employeeID int, hireType models.HireType) (*PaymentStep, error)
	PayAccess(ctx context.Context, userID int, confirmationCode string) (*PaymentStep, error)
	PayHire(ctx context.Context, userID, employeeID int, hireType models.HireType, confirmationCode string) (*PaymentStep, error)
	ExpireLapsedAccess(ctx context.Context) (int64, error)
}

type accessService struct {
	db        repositories.TxRunner
	clients   repositories.ClientRepository
	employees repositories.EmployeeRepository
	txs       repositories.TransactionRepository
	users     repositories.UserRepository
	email     EmailService
	gating    config.GatingConfig
	fees      config.FeesConfig
	now       func() time.Time
	async     func(func())
}

func NewAccessService(
	db repositories.TxRunner,
	clients repositories.ClientRepository,
	employees repositories.EmployeeRepository,
	txs repositories.TransactionRepository,
	users repositories.UserRepository,
	email EmailService,
	gating config.GatingConfig,
	fees config.FeesConfig,
) AccessService {
	return &accessService{
		db:        db,
		clients:   clients,
		employees: employees,
		txs:       txs,
		users:     users,
		email:     email,
		gating:    gating,
		fees:      fees,
		now:       time.Now,
		async:     goAsync,
	}
}

func (s *accessService) loadClient(ctx context.Context, userID int) (*models.ClientProfile, error) {
	client, err := s.clients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrNotFound
	}
	return client, nil
}

func (s *accessService) loadEmployee(ctx context.Context, id int) (*models.EmployeeProfile, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, ErrNotFound
	}
	return emp, nil
}

// ExpireIfLapsed сбрасывает истёкший доступ (paid=false, count=0, start=nil).
// Вызывается явно перед просмотром и наймом, чтения его не трогают.
func (s *accessService) ExpireIfLapsed(ctx context.Context, client *models.ClientProfile) (bool, error) {
	now := s.now()
	if !accessLapsed(client, now, s.gating.AccessPeriod()) {
		return false, nil
	}
	expired, err := s.clients.ExpireLapsed(ctx, client.ID, now.Add(-s.gating.AccessPeriod()))
	if err != nil {
		return false, err
	}
	if expired {
		log.Printf("[access][expire] clientID=%d access lapsed (started %s)", client.ID, client.AccessStartDate)
	}
	client.HasPaidForAccess = false
	client.AccessStartDate = nil
	client.ViewedProfileCount = 0
	return expired, nil
}

func (s *accessService) Status(ctx context.Context, userID int) (AccessStatus, error) {
	client, err := s.loadClient(ctx, userID)
	if err != nil {
		return AccessStatus{}, err
	}
	return BuildAccessStatus(client, s.now(), s.gating, s.fees.Currency), nil
}

func (s *accessService) ViewProfile(ctx context.Context, userID, employeeID int) (*ProfileView, error) {
	client, err := s.loadClient(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ExpireIfLapsed(ctx, client); err != nil {
		return nil, err
	}
	emp, err := s.loadEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	if !HasValidAccess(client, s.now(), s.gating.AccessPeriod()) {
		ok, err := s.clients.TryIncrementView(ctx, client.ID, s.gating.ProfileViewLimit)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Printf("[access][view] clientID=%d free views used up (limit=%d)", client.ID, s.gating.ProfileViewLimit)
			return nil, &PaymentRequiredError{Intent: "browse", Fee: s.gating.AccessFee, Currency: s.fees.Currency}
		}
		// перечитываем: счётчик мог сдвинуться параллельным запросом
		if fresh, err := s.clients.GetByID(ctx, client.ID); err == nil && fresh != nil {
			client = fresh
		} else {
			client.ViewedProfileCount++
		}
	}

	return &ProfileView{
		Employee: emp,
		Access:   BuildAccessStatus(client, s.now(), s.gating, s.fees.Currency),
	}, nil
}

func (s *accessService) quote(emp *models.EmployeeProfile, hireType models.HireType) *HireQuote {
	return &HireQuote{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		HireType:     hireType,
		Fee:          PlacementFee(emp, hireType, s.fees),
		Currency:     s.fees.Currency,
		Description:  HireDescription(emp, hireType),
	}
}

func (s *accessService) AttemptHire(ctx context.Context, userID, employeeID int, hireType models.HireType) (*PaymentStep, error) {
	if !hireType.Valid() {
		return nil, ErrInvalidHireType
	}
	client, err := s.loadClient(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ExpireIfLapsed(ctx, client); err != nil {
		return nil, err
	}
	emp, err := s.loadEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if hireType == models.HireLongTerm && client.HasHired(emp.ID) {
		return nil, ErrAlreadyHired
	}

	q := s.quote(emp, hireType)
	if HasValidAccess(client, s.now(), s.gating.AccessPeriod()) {
		return &PaymentStep{NextStep: StepHirePayment, Fee: q.Fee, Currency: q.Currency, Hire: q}, nil
	}

	intent := &models.HireIntent{EmployeeID: emp.ID, HireType: hireType}
	if err := s.clients.SetPendingHire(ctx, client.ID, intent); err != nil {
		return nil, err
	}
	log.Printf("[access][hire] clientID=%d employeeID=%d type=%s -> access payment first", client.ID, emp.ID, hireType)
	return &PaymentStep{NextStep: StepAccessPayment, Fee: s.gating.AccessFee, Currency: s.fees.Currency, Hire: q}, nil
}

func (s *accessService) PayAccess(ctx context.Context, userID int, confirmationCode string) (*PaymentStep, error) {
	code := strings.TrimSpace(confirmationCode)
	if code == "" {
		return nil, ErrConfirmationRequired
	}
	client, err := s.loadClient(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ExpireIfLapsed(ctx, client); err != nil {
		return nil, err
	}
	now := s.now()
	if HasValidAccess(client, now, s.gating.AccessPeriod()) {
		return nil, ErrAccessActive
	}

	tx := &models.Transaction{
		ClientID:         client.ID,
		Date:             now,
		Description:      fmt.Sprintf("%d-Day Hiring Access Fee", s.gating.AccessPeriodDays),
		Amount:           s.gating.AccessFee,
		Currency:         s.fees.Currency,
		Status:           models.TxCompleted,
		Type:             models.TxAccess,
		Reference:        utils.NewPaymentReference(),
		ConfirmationCode: code,
	}
	// списание и открытие окна вместе: иначе повтор спишет второй раз
	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		if err := s.txs.Create(ctx, tx); err != nil {
			return err
		}
		return s.clients.GrantAccess(ctx, client.ID, now)
	})
	if err != nil {
		log.Printf("[access][pay][err] clientID=%d: %v", client.ID, err)
		return nil, err
	}
	log.Printf("[access][pay] clientID=%d access granted ref=%s", client.ID, tx.Reference)
	s.sendReceipt(ctx, client, tx)

	step := &PaymentStep{NextStep: StepDone, Transaction: tx}
	if client.PendingHire != nil {
		emp, err := s.employees.GetByID(ctx, client.PendingHire.EmployeeID)
		if err != nil {
			return nil, err
		}
		if emp == nil {
			// сотрудника больше нет — намерение протухло
			_ = s.clients.SetPendingHire(ctx, client.ID, nil)
			return step, nil
		}
		q := s.quote(emp, client.PendingHire.HireType)
		step.NextStep = StepHirePayment
		step.Fee = q.Fee
		step.Currency = q.Currency
		step.Hire = q
	}
	return step, nil
}

func (s *accessService) PayHire(ctx context.Context, userID, employeeID int, hireType models.HireType, confirmationCode string) (*PaymentStep, error) {
	if !hireType.Valid() {
		return nil, ErrInvalidHireType
	}
	code := strings.TrimSpace(confirmationCode)
	if code == "" {
		return nil, ErrConfirmationRequired
	}
	client, err := s.loadClient(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ExpireIfLapsed(ctx, client); err != nil {
		return nil, err
	}
	now := s.now()
	if !HasValidAccess(client, now, s.gating.AccessPeriod()) {
		return nil, &PaymentRequiredError{Intent: "hire", Fee: s.gating.AccessFee, Currency: s.fees.Currency}
	}
	emp, err := s.loadEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	if hireType == models.HireLongTerm && client.HasHired(emp.ID) {
		return nil, ErrAlreadyHired
	}

	empID := emp.ID
	tx := &models.Transaction{
		ClientID:         client.ID,
		EmployeeID:       &empID,
		Date:             now,
		Description:      HireDescription(emp, hireType),
		Amount:           PlacementFee(emp, hireType, s.fees),
		Currency:         s.fees.Currency,
		Status:           models.TxCompleted,
		Type:             models.TxHire,
		Reference:        utils.NewPaymentReference(),
		ConfirmationCode: code,
	}
	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		if hireType == models.HireLongTerm {
			// вставка по PK (client_id, employee_id): дубль не пройдёт даже при гонке
			added, err := s.clients.AddHire(ctx, client.ID, emp.ID)
			if err != nil {
				return err
			}
			if !added {
				return ErrAlreadyHired
			}
		}
		if err := s.txs.Create(ctx, tx); err != nil {
			return err
		}
		if client.PendingHire != nil {
			return s.clients.SetPendingHire(ctx, client.ID, nil)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrAlreadyHired) {
			log.Printf("[access][hire][err] clientID=%d employeeID=%d: %v", client.ID, emp.ID, err)
		}
		return nil, err
	}
	log.Printf("[access][hire] clientID=%d employeeID=%d type=%s fee=%.2f ref=%s",
		client.ID, emp.ID, hireType, tx.Amount, tx.Reference)
	s.sendReceipt(ctx, client, tx)

	return &PaymentStep{NextStep: StepDone, Transaction: tx, Hire: s.quote(emp, hireType)}, nil
}

func (s *accessService) ExpireLapsedAccess(ctx context.Context) (int64, error) {
	return s.clients.ExpireAllLapsed(ctx, s.now().Add(-s.gating.AccessPeriod()))
}

// sendReceipt — best effort: письмо уходит в фоне, ошибки только логируем.
func (s *accessService) sendReceipt(ctx context.Context, client *models.ClientProfile, tx *models.Transaction) {
	if s.email == nil || s.users == nil {
		return
	}
	user, err := s.users.GetByID(ctx, client.UserID)
	if err != nil || user == nil {
		log.Printf("[access][receipt] clientID=%d user lookup failed: %v", client.ID, err)
		return
	}
	name, receipt := client.Name, *tx
	s.async(func() {
		if err := s.email.SendReceipt(user.Email, name, &receipt); err != nil {
			log.Printf("[access][receipt] warning: failed to email %s: %v", user.Email, err)
		}
	})
}
