package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"anpl-sports-backend/internal/config"
	"anpl-sports-backend/internal/eligibility"
	"anpl-sports-backend/internal/repositories"
)

const (
	minSearchLength = 3
	searchLimit     = 10
)

type DirectoryService struct {
	repo *repositories.Repository
	cfg  *config.Config
	now  func() time.Time
}

func NewDirectoryService(repo *repositories.Repository, cfg *config.Config) *DirectoryService {
	return &DirectoryService{repo: repo, cfg: cfg, now: time.Now}
}

// PlayerSummary is what a partner search reveals about another player.
// Document paths are not exposed, only whether both Aadhaar sides exist.
type PlayerSummary struct {
	ID                 string     `json:"id"`
	FullName           string     `json:"fullName"`
	RegistrationNumber string     `json:"registrationNumber"`
	HouseNumber        string     `json:"houseNumber"`
	Gender             string     `json:"gender"`
	DateOfBirth        *time.Time `json:"dateOfBirth"`
	Age                *int       `json:"age"`
	Contact            string     `json:"contact"`
	AadhaarUploaded    bool       `json:"aadhaarUploaded"`
}

// Search finds up to ten players by name or registration number, never
// including the caller.
func (s *DirectoryService) Search(callerID, query string) ([]PlayerSummary, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < minSearchLength {
		return nil, validation("Search query must be at least %d characters", minSearchLength)
	}

	users, err := s.repo.UserRepo.SearchUsers(q, searchLimit+1)
	if err != nil {
		return nil, dbError("Failed to search players", err)
	}

	out := make([]PlayerSummary, 0, len(users))
	for _, u := range users {
		if u.ID.String() == callerID {
			continue
		}
		p := u.Profile()
		out = append(out, PlayerSummary{
			ID:                 p.ID,
			FullName:           p.FullName,
			RegistrationNumber: p.RegistrationNumber,
			HouseNumber:        p.HouseNumber,
			Gender:             string(p.Gender),
			DateOfBirth:        p.DateOfBirth,
			Age:                p.AgeAt(s.now()),
			Contact:            p.Contact,
			AadhaarUploaded:    eligibility.HasUploadedAadhaar(p),
		})
		if len(out) == searchLimit {
			break
		}
	}
	return out, nil
}
