package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"anpl-sports-backend/internal/config"
	"anpl-sports-backend/internal/draft"
	"anpl-sports-backend/internal/eligibility"
	"anpl-sports-backend/internal/metrics"
	"anpl-sports-backend/internal/models"
	"anpl-sports-backend/internal/repositories"
	"anpl-sports-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	maxBadmintonJersey = 999
	maxCricketNumber   = 99
	maxJerseyNameLen   = 50
)

var jerseyNamePattern = regexp.MustCompile(`^[A-Za-z ]+$`)

type RegistrationService struct {
	repo       *repositories.Repository
	cfg        *config.Config
	categories *CategoryService
	now        func() time.Time
	log        *logrus.Entry
}

func NewRegistrationService(repo *repositories.Repository, cfg *config.Config) *RegistrationService {
	return &RegistrationService{
		repo:       repo,
		cfg:        cfg,
		categories: NewCategoryService(repo, cfg),
		now:        time.Now,
		log:        logger.Log.WithField("service", "registration"),
	}
}

type CompletionResponse struct {
	RegistrationID     string `json:"registrationId"`
	TotalPayableAmount int    `json:"totalPayableAmount"`
	ReadyForPayment    bool   `json:"readyForPayment"`
	Status             string `json:"status"`
}

// CompleteRegistration validates a submitted draft against the stored
// catalog and player records and saves it as a pending bundle. A pending or
// failed bundle of the same user for the event is replaced rather than
// duplicated.
func (s *RegistrationService) CompleteRegistration(userID string, p draft.SubmissionPayload) (resp *CompletionResponse, err error) {
	defer func() {
		if code := GetErrorCode(err); code == ErrValidation || code == ErrEligibility || code == ErrConflict {
			metrics.RegistrationsRejected.WithLabelValues(string(code)).Inc()
		}
	}()

	user, err := s.repo.UserRepo.GetUserByID(userID)
	if err != nil {
		return nil, NewServiceError("User not found", ErrNotFound, err)
	}
	event, err := s.loadEvent(p.EventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive || !event.RegistrationOpen(s.now()) {
		return nil, validation("Registration is closed for this event")
	}
	if !p.TermsAccepted {
		return nil, validation("Terms must be accepted")
	}

	docs := draft.Documents{
		AadhaarFront: firstNonEmpty(p.AadhaarFront, user.AadhaarFrontPhoto),
		AadhaarBack:  firstNonEmpty(p.AadhaarBack, user.AadhaarBackPhoto),
		PlayerPhoto:  firstNonEmpty(p.PlayerPhoto, user.PlayerPhoto),
	}
	if docs.AadhaarFront == "" || docs.AadhaarBack == "" {
		return nil, validation("Please upload Aadhaar front and back images")
	}
	if docs.PlayerPhoto == "" {
		return nil, validation("Please upload a player photo")
	}

	bundle, err := s.resumableBundle(user, event, p.RegistrationID)
	if err != nil {
		return nil, err
	}
	excludeID := ""
	previousCodes := map[string]string{}
	if bundle != nil {
		excludeID = bundle.ID.String()
		for _, e := range bundle.Entries {
			previousCodes[e.CategoryCode] = e.RegistrationCode
		}
	}

	if err := s.checkEventSpecific(user, event, p); err != nil {
		return nil, err
	}

	entries, d, err := s.buildEntries(user, event, p.Entries, previousCodes)
	if err != nil {
		return nil, err
	}
	total := d.Total()
	if p.TotalAmount != total {
		return nil, validation("Total amount mismatch")
	}

	if p.JerseyNumber != nil {
		taken, err := s.repo.RegistrationRepo.JerseyNumberTaken(event.ID.String(), *p.JerseyNumber, excludeID)
		if err != nil {
			return nil, dbError("Registration failed", err)
		}
		if taken {
			return nil, NewServiceError(fmt.Sprintf("Jersey number %d is already taken for this event.", *p.JerseyNumber), ErrConflict, nil)
		}
	}

	unavailable, err := normaliseAvailability(event, p.AvailableAllDays, p.UnavailableDates)
	if err != nil {
		return nil, err
	}

	if bundle == nil {
		bundle = &models.RegistrationBundle{UserID: user.ID, EventID: event.ID}
	}
	bundle.Status = models.StatusPending
	bundle.TotalAmount = total
	bundle.AadhaarFrontPhoto = docs.AadhaarFront
	bundle.AadhaarBackPhoto = docs.AadhaarBack
	bundle.PlayerPhoto = docs.PlayerPhoto
	bundle.JerseyName = strings.TrimSpace(p.JerseyName)
	bundle.JerseyNumber = p.JerseyNumber
	bundle.JerseySize = strings.ToUpper(strings.TrimSpace(p.JerseySize))
	bundle.AvailableAllDays = p.AvailableAllDays
	bundle.UnavailableDates = unavailable
	bundle.TermsAccepted = true
	bundle.Cricket = nil
	if event.EventType == models.EventTypeCricket {
		bundle.Cricket = p.Cricket
	}
	bundle.PaymentOrderID = ""
	bundle.Entries = entries

	if err := s.repo.RegistrationRepo.SaveBundle(bundle); err != nil {
		return nil, dbError("Registration failed", err)
	}

	if total == 0 {
		if err := s.repo.RegistrationRepo.UpdateStatus(bundle.ID.String(), models.StatusApproved, nil); err != nil {
			return nil, dbError("Registration failed", err)
		}
		bundle.Status = models.StatusApproved
	}

	s.rememberDocuments(user, docs, bundle.JerseySize)

	metrics.RegistrationsSubmitted.WithLabelValues(event.EventType).Inc()
	s.log.WithFields(logrus.Fields{
		"registration_id": bundle.ID,
		"user_id":         user.ID,
		"event_id":        event.ID,
		"entries":         len(entries),
		"total":           total,
	}).Info("registration submitted")

	return &CompletionResponse{
		RegistrationID:     bundle.ID.String(),
		TotalPayableAmount: total,
		ReadyForPayment:    total > 0,
		Status:             bundle.Status,
	}, nil
}

func (s *RegistrationService) loadEvent(eventID string) (*models.Event, error) {
	if _, err := uuid.Parse(eventID); err != nil {
		return nil, validation("Invalid event ID")
	}
	event, err := s.repo.EventRepo.GetEventByID(eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewServiceError("Event not found", ErrNotFound, err)
		}
		return nil, dbError("failed to load event", err)
	}
	return event, nil
}

// resumableBundle finds the bundle a submission replaces: the one named by
// registrationID, or else the user's latest pending or failed bundle.
func (s *RegistrationService) resumableBundle(user *models.User, event *models.Event, registrationID string) (*models.RegistrationBundle, error) {
	if registrationID == "" {
		b, err := s.repo.RegistrationRepo.FindLatestBundle(user.ID.String(), event.ID.String(), models.StatusPending, models.StatusFailed)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, dbError("Registration failed", err)
		}
		return b, nil
	}

	b, err := s.repo.RegistrationRepo.GetBundleByID(registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewServiceError("Registration not found", ErrNotFound, err)
		}
		return nil, dbError("Registration failed", err)
	}
	if b.UserID != user.ID || b.EventID != event.ID {
		return nil, NewServiceError("You can only modify your own registrations", ErrForbidden, nil)
	}
	if b.Status == models.StatusApproved || b.Status == models.StatusRejected {
		return nil, NewServiceError("This registration can no longer be changed", ErrConflict, nil)
	}
	return b, nil
}

func (s *RegistrationService) checkEventSpecific(user *models.User, event *models.Event, p draft.SubmissionPayload) error {
	switch event.EventType {
	case models.EventTypeBadminton:
		if p.JerseyNumber != nil && (*p.JerseyNumber < 1 || *p.JerseyNumber > maxBadmintonJersey) {
			return validation("Jersey number must be between 1 and %d", maxBadmintonJersey)
		}
		return nil

	case models.EventTypeCricket:
		_, err := s.repo.RegistrationRepo.FindLatestBundle(user.ID.String(), event.ID.String(), models.StatusApproved)
		if err == nil {
			return NewServiceError("You are already registered for this cricket event", ErrConflict, nil)
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return dbError("Registration failed", err)
		}

		c := p.Cricket
		if c == nil || strings.TrimSpace(c.GameLevel) == "" || strings.TrimSpace(c.Preference) == "" ||
			strings.TrimSpace(c.BattingHand) == "" || strings.TrimSpace(c.BowlingArm) == "" {
			return validation("Please complete your cricket profile")
		}
		if p.JerseyNumber == nil {
			return validation("Lucky number is required")
		}
		if *p.JerseyNumber < 1 || *p.JerseyNumber > maxCricketNumber {
			return validation("Lucky number must be between 1 and %d", maxCricketNumber)
		}
		name := strings.TrimSpace(p.JerseyName)
		if name == "" {
			return validation("T-shirt name is required")
		}
		if len(name) > maxJerseyNameLen || !jerseyNamePattern.MatchString(name) {
			return validation("T-shirt name must contain only letters and be at most %d characters", maxJerseyNameLen)
		}
		return nil
	}
	return validation("Unsupported event type %s", event.EventType)
}

// buildEntries validates every submitted entry and returns the rows to store
// together with a draft holding the same selections, which prices them.
func (s *RegistrationService) buildEntries(user *models.User, event *models.Event, in []draft.EntryPayload, previousCodes map[string]string) ([]models.RegistrationEntry, *draft.Draft, error) {
	if len(in) == 0 {
		return nil, nil, validation("Please select at least one category")
	}

	catalog, err := s.categories.Catalog(event)
	if err != nil {
		return nil, nil, err
	}
	byCode := make(map[string]models.Category, len(catalog))
	for _, c := range catalog {
		byCode[c.Code] = c
	}

	approved, err := s.repo.RegistrationRepo.ApprovedCategoryCodes(user.ID.String(), event.ID.String())
	if err != nil {
		return nil, nil, dbError("Registration failed", err)
	}
	registered := make(map[string]bool, len(approved))
	for _, code := range approved {
		registered[code] = true
	}

	now := s.now()
	checker := eligibility.Checker{Now: s.now, RequireGenderData: true}
	profile := user.Profile()
	d := draft.New(event.ID.String())
	entries := make([]models.RegistrationEntry, 0, len(in))

	for _, e := range in {
		code := strings.TrimSpace(e.CategoryCode)
		cat, ok := byCode[code]
		if !ok {
			return nil, nil, validation("Category not found: %s", code)
		}
		if d.Has(code) {
			return nil, nil, validation("%s is selected more than once", cat.Name)
		}
		if registered[code] {
			return nil, nil, NewServiceError("You are already registered for "+cat.Name, ErrConflict, nil)
		}

		rule := cat.Rule()
		if e.CategoryType != "" && !strings.EqualFold(e.CategoryType, string(rule.Type)) {
			return nil, nil, validation("Category type mismatch for %s", cat.Name)
		}
		if v := checker.Check(rule, &profile, "Player"); v != nil {
			return nil, nil, NewServiceError(v.Message, ErrEligibility, v)
		}

		entry := models.RegistrationEntry{
			RegistrationCode:    previousCodes[code],
			CategoryCode:        code,
			CategoryName:        cat.Name,
			CategoryType:        string(rule.Type),
			AgeLimit:            cat.AgeLimit,
			PricePerParticipant: cat.PricePerParticipant,
			Amount:              rule.Type.ParticipantCount() * cat.PricePerParticipant,
			PlayerName:          user.FullName,
			PlayerAge:           profile.AgeAt(now),
			Notes:               strings.TrimSpace(e.Notes),
			Status:              models.StatusPending,
		}
		if entry.RegistrationCode == "" {
			entry.RegistrationCode = newRegistrationCode(event.EventType)
		}

		primary := draft.Participant{
			UserID:       profile.ID,
			Name:         profile.FullName,
			Age:          entry.PlayerAge,
			Contact:      profile.Contact,
			Relation:     eligibility.Self,
			HasDocuments: true,
		}

		var partner *draft.Participant
		if rule.Type.RequiresPartner() {
			p, err := s.checkPartner(checker, user, profile, cat, rule, e, &entry)
			if err != nil {
				return nil, nil, err
			}
			partner = p
			partner.Age = entry.PartnerAge
			if rule.Type == eligibility.Family {
				primary.Relation = eligibility.Relation(entry.SelfRelation)
			}
		}

		if err := d.Add(rule, primary, partner); err != nil {
			return nil, nil, validation("%s is selected more than once", cat.Name)
		}
		entries = append(entries, entry)
	}
	return entries, d, nil
}

func (s *RegistrationService) checkPartner(
	checker eligibility.Checker,
	user *models.User,
	profile eligibility.Profile,
	cat models.Category,
	rule eligibility.Category,
	e draft.EntryPayload,
	entry *models.RegistrationEntry,
) (*draft.Participant, error) {
	if e.PartnerUserID == nil || strings.TrimSpace(*e.PartnerUserID) == "" {
		return nil, validation("Partner user is required for %s categories", strings.ToLower(string(rule.Type)))
	}
	partner, err := s.repo.UserRepo.GetUserByID(strings.TrimSpace(*e.PartnerUserID))
	if err != nil {
		return nil, NewServiceError("Partner user not found", ErrNotFound, err)
	}
	if partner.ID == user.ID {
		return nil, validation("You cannot select yourself as partner")
	}

	pp := partner.Profile()
	if !eligibility.HasUploadedAadhaar(pp) {
		return nil, NewServiceError("Partner must upload Aadhaar front and back images before registering for this category", ErrEligibility, nil)
	}

	switch rule.Type {
	case eligibility.Double:
		if v := checker.Check(rule, &pp, "Partner"); v != nil {
			return nil, NewServiceError(v.Message, ErrEligibility, v)
		}

	case eligibility.Family:
		self := eligibility.Relation(strings.TrimSpace(deref(e.SelfRelation)))
		meta := eligibility.ResolveFamilyRelationMeta(cat.Name, self)
		if meta == nil {
			return nil, validation("Invalid relation selected for %s", cat.Name)
		}
		if pr := strings.TrimSpace(deref(e.PartnerRelation)); pr != "" && eligibility.Relation(pr) != meta.Partner {
			return nil, validation("Invalid relation selected for %s", cat.Name)
		}
		if v := checker.CheckRelation(meta, profile, pp); v != nil {
			return nil, NewServiceError(v.Message, ErrEligibility, v)
		}
		entry.SelfRelation = string(meta.Self)
		entry.PartnerRelation = string(meta.Partner)
	}

	entry.PartnerUserID = &partner.ID
	entry.PartnerName = partner.FullName
	entry.PartnerAge = pp.AgeAt(s.now())
	entry.PartnerContact = partner.Phone

	return &draft.Participant{
		UserID:       pp.ID,
		Name:         pp.FullName,
		Contact:      pp.Contact,
		Relation:     eligibility.Relation(entry.PartnerRelation),
		HasDocuments: true,
	}, nil
}

// normaliseAvailability returns the sorted, de-duplicated unavailable days.
// Every day must fall within the event dates.
func normaliseAvailability(event *models.Event, allDays bool, dates []string) ([]string, error) {
	if allDays {
		return []string{}, nil
	}
	if len(dates) == 0 {
		return nil, validation("Please select the dates you are unavailable or choose all days")
	}

	seen := make(map[string]bool, len(dates))
	out := make([]string, 0, len(dates))
	for _, raw := range dates {
		day, err := time.Parse(dateLayout, strings.TrimSpace(raw))
		if err != nil {
			return nil, validation("Invalid date %s", raw)
		}
		if !event.CoversDate(day) {
			return nil, validation("Unavailable date %s is outside the event dates", day.Format(dateLayout))
		}
		key := day.Format(dateLayout)
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out, nil
}

// rememberDocuments copies the submitted documents onto the profile so the
// next registration starts prefilled.
func (s *RegistrationService) rememberDocuments(user *models.User, docs draft.Documents, size string) {
	changed := false
	update := func(dst *string, v string) {
		if v != "" && *dst != v {
			*dst = v
			changed = true
		}
	}
	update(&user.AadhaarFrontPhoto, docs.AadhaarFront)
	update(&user.AadhaarBackPhoto, docs.AadhaarBack)
	update(&user.PlayerPhoto, docs.PlayerPhoto)
	update(&user.TShirtSize, size)
	if !changed {
		return
	}
	if err := s.repo.UserRepo.UpdateUser(user); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to update profile documents")
	}
}

// GetPending returns the caller's resumable registration for the event, or
// nil when there is none.
func (s *RegistrationService) GetPending(userID, eventID string) (*draft.ServerDraft, error) {
	if _, err := uuid.Parse(eventID); err != nil {
		return nil, validation("Invalid event ID")
	}
	b, err := s.repo.RegistrationRepo.FindLatestBundle(userID, eventID, models.StatusPending, models.StatusFailed)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError("Failed to load registration", err)
	}
	sd := ToServerDraft(b)
	return &sd, nil
}

// GetForUser loads a bundle the caller owns. Admins may load any bundle.
func (s *RegistrationService) GetForUser(userID, role, id string) (*models.RegistrationBundle, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, validation("Invalid registration ID")
	}
	b, err := s.repo.RegistrationRepo.GetBundleByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewServiceError("Registration not found", ErrNotFound, err)
		}
		return nil, dbError("Failed to load registration", err)
	}
	if role != models.RoleAdmin && b.UserID.String() != userID {
		return nil, NewServiceError("Registration not found", ErrNotFound, nil)
	}
	b.User.Password = ""
	return b, nil
}

func (s *RegistrationService) ListForUser(userID string) ([]models.RegistrationBundle, error) {
	bundles, _, err := s.repo.RegistrationRepo.ListBundles(0, 100, &repositories.RegistrationFilters{
		UserID:        userID,
		IncludeFailed: true,
	})
	if err != nil {
		return nil, dbError("Failed to load registrations", err)
	}
	for i := range bundles {
		bundles[i].User.Password = ""
	}
	return bundles, nil
}

// ReceiptPath is the QR receipt file of an approved bundle.
func (s *RegistrationService) ReceiptPath(userID, role, id string) (string, error) {
	b, err := s.GetForUser(userID, role, id)
	if err != nil {
		return "", err
	}
	if b.Status != models.StatusApproved || b.QRPath == "" {
		return "", NewServiceError("Receipt is not available for this registration", ErrNotFound, nil)
	}
	return filepath.Join(s.cfg.QRDir, b.QRPath), nil
}

// ToServerDraft renders a stored bundle in the shape the wizard resumes
// from, with entries in submission order.
func ToServerDraft(b *models.RegistrationBundle) draft.ServerDraft {
	sd := draft.ServerDraft{
		RegistrationID:   b.ID.String(),
		EventID:          b.EventID.String(),
		Status:           b.Status,
		AadhaarFront:     b.AadhaarFrontPhoto,
		AadhaarBack:      b.AadhaarBackPhoto,
		PlayerPhoto:      b.PlayerPhoto,
		JerseyName:       b.JerseyName,
		JerseyNumber:     b.JerseyNumber,
		JerseySize:       b.JerseySize,
		AvailableAllDays: b.AvailableAllDays,
		UnavailableDates: append([]string{}, b.UnavailableDates...),
		TotalAmount:      b.TotalAmount,
		PaymentOrderID:   b.PaymentOrderID,
		Cricket:          b.Cricket,
		Entries:          make([]draft.ServerEntry, 0, len(b.Entries)),
	}
	entries := append([]models.RegistrationEntry(nil), b.Entries...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
	for _, e := range entries {
		se := draft.ServerEntry{
			RegistrationCode:    e.RegistrationCode,
			CategoryCode:        e.CategoryCode,
			CategoryName:        e.CategoryName,
			CategoryType:        e.CategoryType,
			AgeLimit:            e.AgeLimit,
			PricePerParticipant: e.PricePerParticipant,
			PlayerName:          e.PlayerName,
			PlayerAge:           e.PlayerAge,
			PartnerName:         e.PartnerName,
			PartnerAge:          e.PartnerAge,
			PartnerContact:      e.PartnerContact,
			SelfRelation:        e.SelfRelation,
			PartnerRelation:     e.PartnerRelation,
			Notes:               e.Notes,
			Status:              e.Status,
		}
		if e.PartnerUserID != nil {
			se.PartnerUserID = e.PartnerUserID.String()
		}
		sd.Entries = append(sd.Entries, se)
	}
	return sd
}

func newRegistrationCode(eventType string) string {
	prefix := eventType
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "ANPL-" + prefix + "-" + id[:8]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
