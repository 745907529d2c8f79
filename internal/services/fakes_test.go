package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"maidscentre/internal/models"
	"maidscentre/internal/pdf"
	"maidscentre/internal/repositories"
)

// in-memory реализации репозиториев для тестов сервисного слоя

type fakeUsers struct {
	mu   sync.Mutex
	seq  int
	byID map[int]*models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[int]*models.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, have := range f.byID {
		if have.Email == strings.ToLower(u.Email) {
			return repositories.ErrDuplicate
		}
	}
	f.seq++
	u.ID = f.seq
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) List(_ context.Context, roleID, limit, offset int) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*models.User
	for _, u := range f.byID {
		if roleID == 0 || u.RoleID == roleID {
			cp := *u
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	if offset >= len(res) {
		return nil, nil
	}
	res = res[offset:]
	if limit > 0 && limit < len(res) {
		res = res[:limit]
	}
	return res, nil
}

func (f *fakeUsers) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID), nil
}

func (f *fakeUsers) UpdateRefresh(_ context.Context, userID int, token string, exp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[userID]
	u.RefreshToken = &token
	u.RefreshExpiresAt = &exp
	u.RefreshRevoked = false
	return nil
}

func (f *fakeUsers) RotateRefresh(_ context.Context, oldToken, newToken string, exp time.Time) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.RefreshToken != nil && *u.RefreshToken == oldToken && !u.RefreshRevoked {
			u.RefreshToken = &newToken
			u.RefreshExpiresAt = &exp
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) ClearRefresh(_ context.Context, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[userID]; ok {
		u.RefreshToken = nil
		u.RefreshExpiresAt = nil
		u.RefreshRevoked = true
	}
	return nil
}

func (f *fakeUsers) GetByRefreshToken(_ context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeClients struct {
	mu   sync.Mutex
	seq  int
	byID map[int]*models.ClientProfile
}

func newFakeClients() *fakeClients { return &fakeClients{byID: map[int]*models.ClientProfile{}} }

func copyClient(c *models.ClientProfile) *models.ClientProfile {
	cp := *c
	cp.HiredEmployeeIDs = append([]int(nil), c.HiredEmployeeIDs...)
	if c.AccessStartDate != nil {
		t := *c.AccessStartDate
		cp.AccessStartDate = &t
	}
	if c.PendingHire != nil {
		h := *c.PendingHire
		cp.PendingHire = &h
	}
	return &cp
}

func (f *fakeClients) Create(_ context.Context, c *models.ClientProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c.ID = f.seq
	if c.Subscription == "" {
		c.Subscription = models.PlanBasic
	}
	f.byID[c.ID] = copyClient(c)
	return nil
}

// put кладёт готовый профиль (для подготовки состояния в тестах).
func (f *fakeClients) put(c *models.ClientProfile) *models.ClientProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == 0 {
		f.seq++
		c.ID = f.seq
	}
	f.byID[c.ID] = copyClient(c)
	return c
}

func (f *fakeClients) get(id int) *models.ClientProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyClient(f.byID[id])
}

func (f *fakeClients) GetByID(_ context.Context, id int) (*models.ClientProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.byID[id]; ok {
		return copyClient(c), nil
	}
	return nil, nil
}

func (f *fakeClients) GetByUserID(_ context.Context, userID int) (*models.ClientProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byID {
		if c.UserID == userID {
			return copyClient(c), nil
		}
	}
	return nil, nil
}

func (f *fakeClients) UpdateDetails(_ context.Context, c *models.ClientProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	have := f.byID[c.ID]
	have.Name = c.Name
	have.ProfilePictureURL = c.ProfilePictureURL
	have.Location = c.Location
	have.Bio = c.Bio
	have.Household = c.Household
	have.PreferredLanguage = c.PreferredLanguage
	return nil
}

func (f *fakeClients) SetSubscription(_ context.Context, id int, plan models.SubscriptionPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[id].Subscription = plan
	return nil
}

func (f *fakeClients) TryIncrementView(_ context.Context, id, limit int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.byID[id]
	if c.HasPaidForAccess || c.ViewedProfileCount >= limit {
		return false, nil
	}
	c.ViewedProfileCount++
	return true, nil
}

func (f *fakeClients) GrantAccess(_ context.Context, id int, start time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.byID[id]
	c.HasPaidForAccess = true
	c.AccessStartDate = &start
	c.ViewedProfileCount = 0
	return nil
}

func lapsedAt(c *models.ClientProfile, cutoff time.Time) bool {
	return c.HasPaidForAccess && (c.AccessStartDate == nil || c.AccessStartDate.Before(cutoff))
}

func (f *fakeClients) ExpireLapsed(_ context.Context, id int, cutoff time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.byID[id]
	if !lapsedAt(c, cutoff) {
		return false, nil
	}
	c.HasPaidForAccess = false
	c.AccessStartDate = nil
	c.ViewedProfileCount = 0
	return true, nil
}

func (f *fakeClients) ExpireAllLapsed(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.byID {
		if lapsedAt(c, cutoff) {
			c.HasPaidForAccess = false
			c.AccessStartDate = nil
			c.ViewedProfileCount = 0
			n++
		}
	}
	return n, nil
}

func (f *fakeClients) SetPendingHire(_ context.Context, id int, intent *models.HireIntent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if intent == nil {
		f.byID[id].PendingHire = nil
		return nil
	}
	h := *intent
	f.byID[id].PendingHire = &h
	return nil
}

func (f *fakeClients) AddHire(_ context.Context, clientID, employeeID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.byID[clientID]
	if c.HasHired(employeeID) {
		return false, nil
	}
	c.HiredEmployeeIDs = append(c.HiredEmployeeIDs, employeeID)
	return true, nil
}

type fakeEmployees struct {
	mu   sync.Mutex
	seq  int
	byID map[int]*models.EmployeeProfile
}

func newFakeEmployees(list ...*models.EmployeeProfile) *fakeEmployees {
	f := &fakeEmployees{byID: map[int]*models.EmployeeProfile{}}
	for _, e := range list {
		if e.ID == 0 {
			f.seq++
			e.ID = f.seq
		} else if e.ID > f.seq {
			f.seq = e.ID
		}
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEmployees) Create(_ context.Context, e *models.EmployeeProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	e.ID = f.seq
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) GetByID(_ context.Context, id int) (*models.EmployeeProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeEmployees) GetByUserID(_ context.Context, userID int) (*models.EmployeeProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.byID {
		if e.UserID == userID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeEmployees) Update(_ context.Context, e *models.EmployeeProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) ListAll(_ context.Context) ([]*models.EmployeeProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]*models.EmployeeProfile, 0, len(f.byID))
	for _, e := range f.byID {
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (f *fakeEmployees) ListByIDs(_ context.Context, ids []int) ([]*models.EmployeeProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*models.EmployeeProfile
	for _, id := range ids {
		if e, ok := f.byID[id]; ok {
			res = append(res, e)
		}
	}
	return res, nil
}

type fakeCorporates struct {
	mu       sync.Mutex
	seq      int
	byUserID map[int]*models.CorporateProfile
}

func newFakeCorporates() *fakeCorporates {
	return &fakeCorporates{byUserID: map[int]*models.CorporateProfile{}}
}

func (f *fakeCorporates) Create(_ context.Context, p *models.CorporateProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	p.ID = f.seq
	cp := *p
	f.byUserID[p.UserID] = &cp
	return nil
}

func (f *fakeCorporates) GetByUserID(_ context.Context, userID int) (*models.CorporateProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byUserID[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCorporates) Update(_ context.Context, p *models.CorporateProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.byUserID[p.UserID] = &cp
	return nil
}

type fakeTransactions struct {
	mu   sync.Mutex
	seq  int64
	list []*models.Transaction
}

func (f *fakeTransactions) Create(_ context.Context, tx *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	tx.ID = f.seq
	cp := *tx
	f.list = append(f.list, &cp)
	return nil
}

func (f *fakeTransactions) all() []*models.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Transaction(nil), f.list...)
}

func (f *fakeTransactions) GetByID(_ context.Context, id int64) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.list {
		if tx.ID == id {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTransactions) ListByClient(_ context.Context, clientID, limit, offset int) ([]*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*models.Transaction
	for i := len(f.list) - 1; i >= 0; i-- {
		if f.list[i].ClientID == clientID {
			cp := *f.list[i]
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (f *fakeTransactions) ListRefundRequests(_ context.Context, limit, offset int) ([]*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*models.Transaction
	for _, tx := range f.list {
		if tx.RefundStatus != nil && *tx.RefundStatus == models.RefundRequested {
			cp := *tx
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (f *fakeTransactions) RequestRefund(_ context.Context, id int64, reason, comments string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.list {
		if tx.ID == id && tx.RefundStatus == nil && tx.Status == models.TxCompleted {
			st := models.RefundRequested
			tx.RefundStatus = &st
			tx.RefundReason = reason
			tx.RefundComments = comments
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTransactions) DecideRefund(_ context.Context, id int64, decision models.RefundStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.list {
		if tx.ID == id && tx.RefundStatus != nil && *tx.RefundStatus == models.RefundRequested {
			d := decision
			tx.RefundStatus = &d
			return true, nil
		}
	}
	return false, nil
}

type fakeTickets struct {
	mu   sync.Mutex
	seq  int64
	mseq int64
	byID map[int64]*models.SupportTicket
}

func newFakeTickets() *fakeTickets { return &fakeTickets{byID: map[int64]*models.SupportTicket{}} }

func copyTicket(t *models.SupportTicket) *models.SupportTicket {
	cp := *t
	cp.Messages = append([]models.TicketMessage(nil), t.Messages...)
	return &cp
}

func (f *fakeTickets) Create(_ context.Context, t *models.SupportTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t.ID = f.seq
	for i := range t.Messages {
		f.mseq++
		t.Messages[i].ID = f.mseq
		t.Messages[i].TicketID = t.ID
	}
	f.byID[t.ID] = copyTicket(t)
	return nil
}

func (f *fakeTickets) GetByID(_ context.Context, id int64) (*models.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.byID[id]; ok {
		return copyTicket(t), nil
	}
	return nil, nil
}

func (f *fakeTickets) List(_ context.Context, filter models.TicketFilter) ([]*models.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*models.SupportTicket
	for _, t := range f.byID {
		if filter.UserID != nil && t.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		cp := copyTicket(t)
		cp.Messages = nil
		res = append(res, cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (f *fakeTickets) AddMessage(_ context.Context, m *models.TicketMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mseq++
	m.ID = f.mseq
	t := f.byID[m.TicketID]
	t.Messages = append(t.Messages, *m)
	t.LastUpdated = m.Timestamp
	return nil
}

func (f *fakeTickets) Update(_ context.Context, t *models.SupportTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	have := f.byID[t.ID]
	have.Status = t.Status
	have.Priority = t.Priority
	have.AssignedAdminID = t.AssignedAdminID
	have.LastUpdated = t.LastUpdated
	return nil
}

type fakeAuditLogs struct {
	mu   sync.Mutex
	list []*models.AuditLog
}

func (f *fakeAuditLogs) Create(_ context.Context, e *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = int64(len(f.list) + 1)
	cp := *e
	f.list = append(f.list, &cp)
	return nil
}

func (f *fakeAuditLogs) List(_ context.Context, limit, offset int) ([]*models.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.AuditLog(nil), f.list...), nil
}

type fakeEmail struct {
	mu       sync.Mutex
	welcome  []string
	receipts []string
}

func (f *fakeEmail) SendWelcomeEmail(email, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcome = append(f.welcome, email)
	return nil
}

func (f *fakeEmail) SendReceipt(email, name string, tx *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts = append(f.receipts, tx.Reference)
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeNotifier) NotifyAdmins(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
}

type fakePDF struct {
	last pdf.ReceiptData
}

func (f *fakePDF) GenerateReceipt(data pdf.ReceiptData) (string, error) {
	f.last = data
	return "/tmp/receipt.pdf", nil
}

// fixedClock — управляемое время для проверок окна доступа.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// snapshotter — fake, который умеет вернуться к состоянию на начало транзакции.
type snapshotter interface {
	snapshot() (restore func())
}

// fakeTxRunner откатывает все перечисленные fakes, если fn вернул ошибку.
type fakeTxRunner struct {
	mu        sync.Mutex
	stores    []snapshotter
	commits   int
	rollbacks int
}

func newFakeTxRunner(stores ...snapshotter) *fakeTxRunner {
	return &fakeTxRunner{stores: stores}
}

func (r *fakeTxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	undo := make([]func(), 0, len(r.stores))
	for _, s := range r.stores {
		undo = append(undo, s.snapshot())
	}
	if err := fn(ctx); err != nil {
		for _, restore := range undo {
			restore()
		}
		r.rollbacks++
		return err
	}
	r.commits++
	return nil
}

// inline — письма в тестах уходят синхронно.
func inline(fn func()) { fn() }

func (f *fakeUsers) snapshot() func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	seq := f.seq
	saved := make(map[int]*models.User, len(f.byID))
	for id, u := range f.byID {
		cp := *u
		saved[id] = &cp
	}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.seq, f.byID = seq, saved
	}
}

func (f *fakeClients) snapshot() func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	seq := f.seq
	saved := make(map[int]*models.ClientProfile, len(f.byID))
	for id, c := range f.byID {
		saved[id] = copyClient(c)
	}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.seq, f.byID = seq, saved
	}
}

func (f *fakeEmployees) snapshot() func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	seq := f.seq
	saved := make(map[int]*models.EmployeeProfile, len(f.byID))
	for id, e := range f.byID {
		cp := *e
		saved[id] = &cp
	}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.seq, f.byID = seq, saved
	}
}

func (f *fakeCorporates) snapshot() func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	seq := f.seq
	saved := make(map[int]*models.CorporateProfile, len(f.byUserID))
	for id, p := range f.byUserID {
		cp := *p
		saved[id] = &cp
	}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.seq, f.byUserID = seq, saved
	}
}

func (f *fakeTransactions) snapshot() func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	seq := f.seq
	saved := make([]*models.Transaction, 0, len(f.list))
	for _, tx := range f.list {
		cp := *tx
		saved = append(saved, &cp)
	}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.seq, f.list = seq, saved
	}
}

var errStoreDown = errors.New("store unavailable")

// failingTransactions отказывает в Create, пока fail != nil.
type failingTransactions struct {
	*fakeTransactions
	fail error
}

func (f *failingTransactions) Create(ctx context.Context, tx *models.Transaction) error {
	if f.fail != nil {
		return f.fail
	}
	return f.fakeTransactions.Create(ctx, tx)
}

// failingClients отказывает в GrantAccess / Create по флагам.
type failingClients struct {
	*fakeClients
	failGrant  error
	failCreate error
}

func (f *failingClients) GrantAccess(ctx context.Context, id int, start time.Time) error {
	if f.failGrant != nil {
		return f.failGrant
	}
	return f.fakeClients.GrantAccess(ctx, id, start)
}

func (f *failingClients) Create(ctx context.Context, c *models.ClientProfile) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	return f.fakeClients.Create(ctx, c)
}
