package services

import (
	"context"
	"errors"
	"time"

	"ambassadorhub/internal/domain"
)

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  string

	getByEmailCalls int
	createErr       error
	getErr          error
	updateErr       error

	lastCredit    int
	creditUpdated bool
	ranking       []*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
		nextID:  "created-1",
	}
}

func (f *fakeUserRepo) add(u *domain.User) {
	f.byID[u.ID] = u
	if u.Email != "" {
		f.byEmail[u.Email] = u
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = f.nextID
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.getByEmailCalls++
	if u, ok := f.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, id, name, email string, role domain.Role) (*domain.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(f.byEmail, u.Email)
	u.Name, u.Email, u.Role = name, email, role
	f.byEmail[email] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id string, p *domain.ProfileUpdate) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Description != nil {
		if *p.Description == "" {
			u.Description = nil
		} else {
			u.Description = p.Description
		}
	}
	if p.School != nil {
		if *p.School == "" {
			u.School = nil
		} else {
			u.School = p.School
		}
	}
	if p.PromoYear != nil {
		if *p.PromoYear == 0 {
			u.PromoYear = nil
		} else {
			u.PromoYear = p.PromoYear
		}
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdateCredit(_ context.Context, id string, credit int) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Credit = credit
	f.lastCredit = credit
	f.creditUpdated = true
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(f.byEmail, u.Email)
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _ string, _ domain.PaginationParams) ([]*domain.User, int, error) {
	users := make([]*domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		cp := *u
		users = append(users, &cp)
	}
	return users, len(users), nil
}

func (f *fakeUserRepo) ListAmbassadorsByCredit(_ context.Context) ([]*domain.User, error) {
	return f.ranking, nil
}

// fakeWhitelistRepo implements domain.WhitelistRepository for tests.
type fakeWhitelistRepo struct {
	emails    map[string]bool
	createErr error

	deleted []string
}

func newFakeWhitelistRepo(emails ...string) *fakeWhitelistRepo {
	f := &fakeWhitelistRepo{emails: make(map[string]bool)}
	for _, e := range emails {
		f.emails[e] = true
	}
	return f
}

func (f *fakeWhitelistRepo) Create(_ context.Context, email string) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.emails[email] {
		return domain.ErrDuplicateEmail
	}
	f.emails[email] = true
	return nil
}

func (f *fakeWhitelistRepo) Exists(_ context.Context, email string) (bool, error) {
	return f.emails[email], nil
}

func (f *fakeWhitelistRepo) Delete(_ context.Context, email string) error {
	if !f.emails[email] {
		return domain.ErrNotFound
	}
	delete(f.emails, email)
	f.deleted = append(f.deleted, email)
	return nil
}

func (f *fakeWhitelistRepo) List(_ context.Context) ([]*domain.WhitelistEntry, error) {
	entries := make([]*domain.WhitelistEntry, 0, len(f.emails))
	for e := range f.emails {
		entries = append(entries, &domain.WhitelistEntry{Email: e})
	}
	return entries, nil
}

// fakeLoginCodeRepo implements domain.LoginCodeRepository for tests.
type fakeLoginCodeRepo struct {
	codes  []*domain.LoginCode
	used   []string
	nextID int
}

func (f *fakeLoginCodeRepo) Create(_ context.Context, email, codeHash string, expiresAt time.Time) error {
	f.nextID++
	f.codes = append(f.codes, &domain.LoginCode{
		ID:        "code-" + string(rune('0'+f.nextID)),
		Email:     email,
		CodeHash:  codeHash,
		ExpiresAt: expiresAt,
	})
	return nil
}

func (f *fakeLoginCodeRepo) ListActive(_ context.Context, email string, now time.Time) ([]*domain.LoginCode, error) {
	active := make([]*domain.LoginCode, 0)
	for _, c := range f.codes {
		if c.Email != email || !c.ExpiresAt.After(now) {
			continue
		}
		consumed := false
		for _, id := range f.used {
			if id == c.ID {
				consumed = true
				break
			}
		}
		if !consumed {
			active = append(active, c)
		}
	}
	return active, nil
}

func (f *fakeLoginCodeRepo) MarkUsed(_ context.Context, id string) error {
	f.used = append(f.used, id)
	return nil
}

// fakeCodeHasher implements domain.CodeHasher for tests. Hashes are
// reversible ("hash-" prefix) so tests can assert on stored values.
type fakeCodeHasher struct{}

func (fakeCodeHasher) Hash(code string) (string, error) { return "hash-" + code, nil }
func (fakeCodeHasher) Compare(hash, code string) error {
	if hash != "hash-"+code {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, _ string, _ domain.Role, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID, nil
}

// fakeEventRepo implements domain.EventRepository for tests.
type fakeEventRepo struct {
	events map[string]*domain.Event
	slots  map[string][]*domain.Slot

	created    *domain.Event
	createErr  error
	replaced   bool
	dropped    int
	replaceErr error
	deleted    []string
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events: make(map[string]*domain.Event),
		slots:  make(map[string][]*domain.Slot),
	}
}

func (f *fakeEventRepo) addEvent(e *domain.Event, slots ...*domain.Slot) {
	f.events[e.ID] = e
	f.slots[e.ID] = slots
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event, slots []*domain.Slot) error {
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = "ev-created"
	for i, s := range slots {
		s.ID = "slot-created-" + string(rune('1'+i))
		s.EventID = e.ID
	}
	f.created = e
	f.addEvent(e, slots...)
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	if e, ok := f.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetWithSlots(_ context.Context, id string) (*domain.Event, []*domain.Slot, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, f.slots[id], nil
}

func (f *fakeEventRepo) List(_ context.Context, status *domain.EventStatus) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0)
	for _, e := range f.events {
		if status == nil || e.Status == *status {
			cp := *e
			events = append(events, &cp)
		}
	}
	return events, nil
}

func (f *fakeEventRepo) Replace(_ context.Context, e *domain.Event, slots []*domain.Slot) (int, error) {
	if f.replaceErr != nil {
		return 0, f.replaceErr
	}
	if _, ok := f.events[e.ID]; !ok {
		return 0, domain.ErrNotFound
	}
	f.replaced = true
	f.addEvent(e, slots...)
	return f.dropped, nil
}

func (f *fakeEventRepo) UpdateStatus(_ context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Status = status
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeRegistrationRepo implements domain.RegistrationRepository for tests.
type fakeRegistrationRepo struct {
	createErr   error
	createCalls int
	lastSlotIDs []string

	updateErr error
	details   []*domain.RegistrationDetail
	own       []*domain.Registration
}

func (f *fakeRegistrationRepo) CreateForEvent(_ context.Context, userID, eventID string, slotIDs []string, createdAt time.Time) ([]*domain.Registration, error) {
	f.createCalls++
	f.lastSlotIDs = slotIDs
	if f.createErr != nil {
		return nil, f.createErr
	}
	regs := make([]*domain.Registration, 0, len(slotIDs))
	for _, id := range slotIDs {
		regs = append(regs, &domain.Registration{
			UserID:    userID,
			SlotID:    id,
			Status:    domain.RegistrationWaiting,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		})
	}
	return regs, nil
}

func (f *fakeRegistrationRepo) UpdateStatus(_ context.Context, userID, slotID string, status domain.RegistrationStatus) (*domain.Registration, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &domain.Registration{UserID: userID, SlotID: slotID, Status: status}, nil
}

func (f *fakeRegistrationRepo) ListByEventID(_ context.Context, _ string) ([]*domain.RegistrationDetail, error) {
	return f.details, nil
}

func (f *fakeRegistrationRepo) ListByUserID(_ context.Context, _ string) ([]*domain.Registration, error) {
	return f.own, nil
}

// fakeEmailService implements domain.EmailService for tests.
type fakeEmailService struct {
	invitations []*domain.InvitationEmailData
	loginCodes  []*domain.LoginCodeEmailData
	sendErr     error
}

func (f *fakeEmailService) SendInvitation(_ context.Context, data *domain.InvitationEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.invitations = append(f.invitations, data)
	return nil
}

func (f *fakeEmailService) SendLoginCode(_ context.Context, data *domain.LoginCodeEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.loginCodes = append(f.loginCodes, data)
	return nil
}

// fakeInvalidator implements domain.ViewInvalidator for tests.
type fakeInvalidator struct {
	paths []string
	err   error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, path string) error {
	f.paths = append(f.paths, path)
	return f.err
}
