package services

import (
	"errors"
	"strings"

	"anpl-sports-backend/internal/config"
	"anpl-sports-backend/internal/models"
	"anpl-sports-backend/internal/repositories"
	"anpl-sports-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AdminService is the review side of registrations.
type AdminService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewAdminService(repo *repositories.Repository, cfg *config.Config) *AdminService {
	return &AdminService{repo: repo, cfg: cfg}
}

type RegistrationListRequest struct {
	EventID  string
	Status   string
	Page     int
	PageSize int
}

type RegistrationListResponse struct {
	Registrations []models.RegistrationBundle
	Total         int64
	Page          int
	PageSize      int
	TotalPages    int
}

func (s *AdminService) ListRegistrations(req RegistrationListRequest) (*RegistrationListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	filters := &repositories.RegistrationFilters{
		Status: strings.ToUpper(strings.TrimSpace(req.Status)),
	}
	if req.EventID != "" {
		if _, err := uuid.Parse(req.EventID); err != nil {
			return nil, validation("Invalid event ID")
		}
		filters.EventID = req.EventID
	}
	if filters.Status != "" && !validStatus(filters.Status) {
		return nil, validation("Invalid status %s", req.Status)
	}

	offset := (req.Page - 1) * req.PageSize
	bundles, total, err := s.repo.RegistrationRepo.ListBundles(offset, req.PageSize, filters)
	if err != nil {
		return nil, dbError("Failed to load registrations", err)
	}
	for i := range bundles {
		bundles[i].User.Password = ""
	}

	return &RegistrationListResponse{
		Registrations: bundles,
		Total:         total,
		Page:          req.Page,
		PageSize:      req.PageSize,
		TotalPages:    (int(total) + req.PageSize - 1) / req.PageSize,
	}, nil
}

// UpdateStatus approves or rejects a bundle and all of its entries.
func (s *AdminService) UpdateStatus(reviewerID, bundleID, status string) (*models.RegistrationBundle, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != models.StatusApproved && status != models.StatusRejected {
		return nil, validation("Status must be APPROVED or REJECTED")
	}
	if _, err := uuid.Parse(bundleID); err != nil {
		return nil, validation("Invalid registration ID")
	}

	reviewer, err := s.repo.UserRepo.GetUserByID(reviewerID)
	if err != nil {
		return nil, NewServiceError("Reviewer not found", ErrUnauthorized, err)
	}
	if reviewer.Role != models.RoleAdmin {
		return nil, NewServiceError("Admin access required", ErrForbidden, nil)
	}

	if err := s.repo.RegistrationRepo.UpdateStatus(bundleID, status, reviewer); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewServiceError("Registration not found", ErrNotFound, err)
		}
		return nil, dbError("Failed to update registration", err)
	}

	logger.WithFields(logrus.Fields{
		"registration_id": bundleID,
		"reviewer_id":     reviewerID,
		"status":          status,
	}).Info("registration reviewed")

	bundle, err := s.repo.RegistrationRepo.GetBundleByID(bundleID)
	if err != nil {
		return nil, dbError("Failed to load registration", err)
	}
	bundle.User.Password = ""
	return bundle, nil
}

func validStatus(s string) bool {
	switch s {
	case models.StatusPending, models.StatusApproved, models.StatusFailed, models.StatusRejected:
		return true
	}
	return false
}
