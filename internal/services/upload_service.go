package services

import (
	"mime/multipart"
	"path"
	"path/filepath"

	"anpl-sports-backend/internal/config"
	"anpl-sports-backend/internal/metrics"
	"anpl-sports-backend/internal/repositories"
	"anpl-sports-backend/internal/utils"
	"anpl-sports-backend/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Upload slots and the directory each is stored under.
const (
	SlotAadhaarFront = "aadhaar-front"
	SlotAadhaarBack  = "aadhaar-back"
	SlotPlayerPhoto  = "player-photo"
)

var slotDirs = map[string]string{
	SlotAadhaarFront: "aadhaar",
	SlotAadhaarBack:  "aadhaar",
	SlotPlayerPhoto:  "photos",
}

type UploadService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewUploadService(repo *repositories.Repository, cfg *config.Config) *UploadService {
	return &UploadService{repo: repo, cfg: cfg}
}

// Upload stores a document for the user and records it on their profile.
// The returned path is relative to the uploads root, e.g.
// "aadhaar/<uuid>.jpg".
func (s *UploadService) Upload(userID, slot string, file *multipart.FileHeader) (string, error) {
	dir, ok := slotDirs[slot]
	if !ok {
		return "", validation("Unknown document type %s", slot)
	}
	if file == nil {
		return "", validation("Please choose a file to upload")
	}
	if err := utils.ValidateDocumentFile(file, s.cfg.MaxUploadSize); err != nil {
		metrics.Uploads.WithLabelValues(slot, metrics.Error).Inc()
		return "", NewServiceError(capitalize(err.Error()), ErrValidation, err)
	}

	user, err := s.repo.UserRepo.GetUserByID(userID)
	if err != nil {
		return "", NewServiceError("User not found", ErrNotFound, err)
	}

	filename := utils.GenerateUniqueFilename(file.Filename)
	if err := utils.SaveUploadedFile(file, filepath.Join(s.cfg.UploadDir, dir), filename); err != nil {
		metrics.Uploads.WithLabelValues(slot, metrics.Error).Inc()
		return "", NewServiceError("Failed to upload file", ErrDatabase, err)
	}
	stored := path.Join(dir, filename)

	switch slot {
	case SlotAadhaarFront:
		user.AadhaarFrontPhoto = stored
	case SlotAadhaarBack:
		user.AadhaarBackPhoto = stored
	case SlotPlayerPhoto:
		user.PlayerPhoto = stored
	}
	if err := s.repo.UserRepo.UpdateUser(user); err != nil {
		return "", dbError("Failed to upload file", err)
	}

	metrics.Uploads.WithLabelValues(slot, metrics.OK).Inc()
	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"slot":    slot,
		"path":    stored,
	}).Info("document uploaded")
	return stored, nil
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
