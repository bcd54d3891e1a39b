package services

import (
	"testing"
	"time"

	"anpl-sports-backend/internal/config"
	"anpl-sports-backend/internal/draft"
	"anpl-sports-backend/internal/models"
	"anpl-sports-backend/internal/repositories"
	"anpl-sports-backend/internal/testutil"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo    *repositories.Repository
	store   *testutil.Store
	cfg     *config.Config
	now     time.Time
	event   models.Event
	player  models.User
	partner models.User
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func intp(n int) *int { return &n }

func strp(s string) *string { return &s }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, store := testutil.NewRepository()
	f := &fixture{
		repo:  repo,
		store: store,
		cfg: &config.Config{
			JWTSecret:             "test-secret",
			JWTTTLHours:           1,
			UploadDir:             t.TempDir(),
			QRDir:                 t.TempDir(),
			MaxUploadSize:         1 << 20,
			PaymentCurrency:       "INR",
			DefaultPricePerPlayer: 800,
		},
		now: time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC),
	}

	n, err := NewCategoryService(repo, f.cfg).Seed(models.EventTypeBadminton)
	require.NoError(t, err)
	require.Equal(t, 26, n)

	f.event = store.AddEvent(models.Event{
		Name:                  "ANPL Badminton 2026",
		Slug:                  "badminton2026",
		EventType:             models.EventTypeBadminton,
		IsActive:              true,
		RegistrationStartDate: date(2026, 10, 1),
		RegistrationEndDate:   date(2026, 11, 30),
		EventStartDate:        date(2026, 12, 1),
		EventEndDate:          date(2026, 12, 3),
	})
	f.player = store.AddUser(models.User{
		Email:              "arjun@example.com",
		FullName:           "Arjun Mehta",
		Phone:              "9800000001",
		RegistrationNumber: "ANPL-101",
		Gender:             "MALE",
		DateOfBirth:        date(1985, 5, 10),
		AadhaarFrontPhoto:  "aadhaar/a-front.png",
		AadhaarBackPhoto:   "aadhaar/a-back.png",
		PlayerPhoto:        "photos/a.png",
	})
	f.partner = store.AddUser(models.User{
		Email:              "meera@example.com",
		FullName:           "Meera Mehta",
		Phone:              "9800000002",
		RegistrationNumber: "ANPL-102",
		Gender:             "FEMALE",
		DateOfBirth:        date(1988, 2, 2),
		AadhaarFrontPhoto:  "aadhaar/m-front.png",
		AadhaarBackPhoto:   "aadhaar/m-back.png",
	})
	return f
}

func (f *fixture) registrations() *RegistrationService {
	s := NewRegistrationService(f.repo, f.cfg)
	s.now = func() time.Time { return f.now }
	return s
}

func (f *fixture) payload(total int, entries ...draft.EntryPayload) draft.SubmissionPayload {
	return draft.SubmissionPayload{
		EventID:          f.event.ID.String(),
		Entries:          entries,
		JerseyName:       "ARJUN",
		JerseyNumber:     intp(7),
		JerseySize:       "l",
		AvailableAllDays: true,
		TermsAccepted:    true,
		TotalAmount:      total,
	}
}

func badminton(name string) string {
	return CategoryCode(models.EventTypeBadminton, name)
}
