// Package testutil provides in-memory repositories for service and handler
// tests.
package testutil

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"anpl-sports-backend/internal/models"
	"anpl-sports-backend/internal/repositories"

	"github.com/google/uuid"
)

// Store holds every table in memory. Reads return copies so callers cannot
// mutate stored rows behind the repository's back.
type Store struct {
	mu         sync.Mutex
	clock      time.Time
	users      map[uuid.UUID]models.User
	events     map[uuid.UUID]models.Event
	categories map[string]models.Category
	bundles    map[uuid.UUID]models.RegistrationBundle
	payments   map[string]models.Payment
}

// NewRepository returns a repository aggregate backed by a fresh Store.
func NewRepository() (*repositories.Repository, *Store) {
	s := &Store{
		clock:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		users:      map[uuid.UUID]models.User{},
		events:     map[uuid.UUID]models.Event{},
		categories: map[string]models.Category{},
		bundles:    map[uuid.UUID]models.RegistrationBundle{},
		payments:   map[string]models.Payment{},
	}
	return &repositories.Repository{
		EventRepo:        eventRepo{s},
		UserRepo:         userRepo{s},
		CategoryRepo:     categoryRepo{s},
		RegistrationRepo: registrationRepo{s},
		PaymentRepo:      paymentRepo{s},
	}, s
}

// tick returns a strictly increasing timestamp so "latest" is well defined.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func parseID(what, id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s not found with ID %s: %w", what, id, repositories.ErrNotFound)
	}
	return u, nil
}

func missing(what, key string) error {
	return fmt.Errorf("%s not found with %s: %w", what, key, repositories.ErrNotFound)
}

// AddUser stores u, assigning an ID when it has none.
func (s *Store) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.CreatedAt = s.tick()
	s.users[u.ID] = u
	return u
}

func (s *Store) AddEvent(e models.Event) models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = s.tick()
	s.events[e.ID] = e
	return e
}

func (s *Store) AddCategory(c models.Category) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.categories[c.Code] = c
	return c
}

// AddBundle stores b as is, for setting up prior registrations.
func (s *Store) AddBundle(b models.RegistrationBundle) models.RegistrationBundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = s.tick()
	b.Entries = copyEntries(b.Entries, b.ID)
	s.bundles[b.ID] = b
	return b
}

func (s *Store) User(id uuid.UUID) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *Store) Bundle(id string) (models.RegistrationBundle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bundles[uuid.MustParse(id)]
	b.Entries = copyEntries(b.Entries, b.ID)
	return b, ok
}

func (s *Store) Bundles() []models.RegistrationBundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.RegistrationBundle, 0, len(s.bundles))
	for _, b := range s.bundles {
		b.Entries = copyEntries(b.Entries, b.ID)
		out = append(out, b)
	}
	return out
}

func (s *Store) Payment(orderID string) (models.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[orderID]
	return p, ok
}

func copyEntries(in []models.RegistrationEntry, bundleID uuid.UUID) []models.RegistrationEntry {
	out := make([]models.RegistrationEntry, len(in))
	copy(out, in)
	for i := range out {
		if out[i].ID == uuid.Nil {
			out[i].ID = uuid.New()
		}
		out[i].BundleID = bundleID
	}
	return out
}

type userRepo struct{ s *Store }

func (r userRepo) GetUserByEmail(email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, missing("user", "email "+email)
}

func (r userRepo) GetUserByID(id string) (*models.User, error) {
	uid, err := parseID("user", id)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[uid]
	if !ok {
		return nil, missing("user", "ID "+id)
	}
	return &u, nil
}

func (r userRepo) GetUsersByIDs(ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, err := r.GetUserByID(id); err == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r userRepo) SearchUsers(query string, limit int) ([]models.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	q := strings.ToLower(strings.TrimSpace(query))

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.User
	for _, u := range r.s.users {
		if u.Role != models.RoleUser {
			continue
		}
		if strings.Contains(strings.ToLower(u.FullName), q) || strings.Contains(strings.ToLower(u.RegistrationNumber), q) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r userRepo) CreateUser(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("duplicate email %s", user.Email)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.s.tick()
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) UpdateUser(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return missing("user", "ID "+user.ID.String())
	}
	r.s.users[user.ID] = *user
	return nil
}

type eventRepo struct{ s *Store }

func (r eventRepo) CreateEvent(event *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.events {
		if e.Slug == event.Slug {
			return fmt.Errorf("event with slug %s already exists", event.Slug)
		}
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = r.s.tick()
	r.s.events[event.ID] = *event
	return nil
}

func (r eventRepo) GetEventByID(id string) (*models.Event, error) {
	eid, err := parseID("event", id)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[eid]
	if !ok {
		return nil, missing("event", "ID "+id)
	}
	return &e, nil
}

func (r eventRepo) GetEventBySlug(slug string) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.events {
		if e.Slug == slug {
			return &e, nil
		}
	}
	return nil, missing("event", "slug "+slug)
}

func (r eventRepo) ListEvents(offset, limit int, filters *repositories.EventFilters) ([]models.Event, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []models.Event
	for _, e := range r.s.events {
		if filters != nil {
			if filters.IsActive != nil && e.IsActive != *filters.IsActive {
				continue
			}
			if filters.EventType != "" && e.EventType != filters.EventType {
				continue
			}
		}
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return page(all, offset, limit), int64(len(all)), nil
}

func (r eventRepo) UpdateEvent(event *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events[event.ID] = *event
	return nil
}

func (r eventRepo) SoftDeleteEvent(id string) error {
	eid, err := parseID("event", id)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[eid]
	if !ok {
		return missing("event", "ID "+id)
	}
	e.IsActive = false
	r.s.events[eid] = e
	return nil
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) ListByEventType(eventType string) ([]models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Category
	for _, c := range r.s.categories {
		if c.EventType == eventType && c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r categoryRepo) Upsert(category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.categories[category.Code]; ok {
		category.ID = existing.ID
	} else if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	r.s.categories[category.Code] = *category
	return nil
}

type registrationRepo struct{ s *Store }

func (r registrationRepo) SaveBundle(bundle *models.RegistrationBundle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if bundle.ID == uuid.Nil {
		bundle.ID = uuid.New()
		bundle.CreatedAt = r.s.tick()
	}
	bundle.UpdatedAt = r.s.tick()
	for i := range bundle.Entries {
		bundle.Entries[i].ID = uuid.New()
		bundle.Entries[i].BundleID = bundle.ID
		bundle.Entries[i].Position = i
	}
	stored := *bundle
	stored.User = models.User{}
	stored.Event = models.Event{}
	stored.Entries = copyEntries(bundle.Entries, bundle.ID)
	r.s.bundles[bundle.ID] = stored
	return nil
}

// load returns a copy with relations attached. Callers hold the lock.
func (r registrationRepo) load(b models.RegistrationBundle) *models.RegistrationBundle {
	b.Entries = copyEntries(b.Entries, b.ID)
	b.User = r.s.users[b.UserID]
	b.Event = r.s.events[b.EventID]
	return &b
}

func (r registrationRepo) GetBundleByID(id string) (*models.RegistrationBundle, error) {
	bid, err := parseID("registration", id)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bundles[bid]
	if !ok {
		return nil, missing("registration", "ID "+id)
	}
	return r.load(b), nil
}

func (r registrationRepo) FindLatestBundle(userID, eventID string, statuses ...string) (*models.RegistrationBundle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *models.RegistrationBundle
	for _, b := range r.s.bundles {
		if b.UserID.String() != userID || b.EventID.String() != eventID {
			continue
		}
		if len(statuses) > 0 && !contains(statuses, b.Status) {
			continue
		}
		if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
			latest = r.load(b)
		}
	}
	if latest == nil {
		return nil, missing("registration", "user "+userID)
	}
	return latest, nil
}

func (r registrationRepo) ApprovedCategoryCodes(userID, eventID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var codes []string
	for _, b := range r.s.bundles {
		if b.UserID.String() != userID || b.EventID.String() != eventID || b.Status != models.StatusApproved {
			continue
		}
		for _, e := range b.Entries {
			codes = append(codes, e.CategoryCode)
		}
	}
	return codes, nil
}

func (r registrationRepo) JerseyNumberTaken(eventID string, number int, excludeBundleID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bundles {
		if b.EventID.String() != eventID || b.ID.String() == excludeBundleID {
			continue
		}
		if b.Status != models.StatusPending && b.Status != models.StatusApproved {
			continue
		}
		if b.JerseyNumber != nil && *b.JerseyNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r registrationRepo) ListBundles(offset, limit int, filters *repositories.RegistrationFilters) ([]models.RegistrationBundle, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if filters == nil {
		filters = &repositories.RegistrationFilters{}
	}
	var all []models.RegistrationBundle
	for _, b := range r.s.bundles {
		if filters.EventID != "" && b.EventID.String() != filters.EventID {
			continue
		}
		if filters.UserID != "" && b.UserID.String() != filters.UserID {
			continue
		}
		switch {
		case filters.Status != "":
			if b.Status != filters.Status {
				continue
			}
		case !filters.IncludeFailed && b.Status == models.StatusFailed:
			continue
		}
		all = append(all, *r.load(b))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, offset, limit), int64(len(all)), nil
}

func (r registrationRepo) SetPaymentOrder(bundleID, orderID string) error {
	return r.update(bundleID, func(b *models.RegistrationBundle) {
		b.PaymentOrderID = orderID
	})
}

func (r registrationRepo) UpdateStatus(bundleID, status string, reviewer *models.User) error {
	return r.update(bundleID, func(b *models.RegistrationBundle) {
		b.Status = status
		if reviewer != nil {
			now := r.s.clock
			b.ReviewedBy = &reviewer.ID
			b.ReviewedAt = &now
		}
		for i := range b.Entries {
			b.Entries[i].Status = status
		}
	})
}

func (r registrationRepo) MarkPaid(bundleID, paymentReference, qrPath string) error {
	return r.update(bundleID, func(b *models.RegistrationBundle) {
		b.Status = models.StatusApproved
		b.PaymentReference = paymentReference
		b.QRPath = qrPath
		for i := range b.Entries {
			b.Entries[i].Status = models.StatusApproved
		}
	})
}

func (r registrationRepo) update(bundleID string, fn func(*models.RegistrationBundle)) error {
	bid, err := parseID("registration", bundleID)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bundles[bid]
	if !ok {
		return missing("registration", "ID "+bundleID)
	}
	b.Entries = copyEntries(b.Entries, b.ID)
	fn(&b)
	b.UpdatedAt = r.s.tick()
	r.s.bundles[bid] = b
	return nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) CreatePayment(payment *models.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[payment.OrderID]; ok {
		return fmt.Errorf("duplicate order %s", payment.OrderID)
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	r.s.payments[payment.OrderID] = *payment
	return nil
}

func (r paymentRepo) GetPaymentByOrderID(orderID string) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[orderID]
	if !ok {
		return nil, missing("payment", "order "+orderID)
	}
	return &p, nil
}

func (r paymentRepo) UpdatePayment(payment *models.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[payment.OrderID]; !ok {
		return missing("payment", "order "+payment.OrderID)
	}
	r.s.payments[payment.OrderID] = *payment
	return nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
