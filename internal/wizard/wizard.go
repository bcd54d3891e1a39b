package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"anpl-sports-backend/internal/draft"
	"anpl-sports-backend/internal/eligibility"
)

// DefaultMaxUploadSize matches the backend's upload limit.
const DefaultMaxUploadSize int64 = 1 << 20

// Ports groups the backend collaborators.
type Ports struct {
	API       RegistrationAPI
	Uploader  Uploader
	Directory PartnerDirectory
	Payments  PaymentAPI
}

type Config struct {
	MaxUploadSize int64
	// PreviewDir holds local copies of uploaded files. Empty means the OS
	// temp dir.
	PreviewDir string
	Now        func() time.Time
	Logger     *logrus.Logger
}

// Messages are the transient notices shown above the current step.
type Messages struct {
	Error   string
	Success string
}

// Wizard is one registration session for one event. Apart from
// SearchPartners it must be driven from a single goroutine.
type Wizard struct {
	flow    Flow
	session Session
	eventID string
	ports   Ports
	cfg     Config
	checker eligibility.Checker
	log     *logrus.Entry

	event    *Event
	catalog  []eligibility.Category
	draft    *draft.Draft
	step     Step
	messages Messages

	uploading map[Slot]bool
	previews  map[Slot]string

	searchMu     sync.Mutex
	searchSeq    uint64
	searchCancel context.CancelFunc
	results      []eligibility.Profile
}

func New(flow Flow, session Session, eventID string, ports Ports, cfg Config) *Wizard {
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = DefaultMaxUploadSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Wizard{
		flow:      flow,
		session:   session,
		eventID:   eventID,
		ports:     ports,
		cfg:       cfg,
		checker:   eligibility.Checker{Now: cfg.Now},
		log:       cfg.Logger.WithFields(logrus.Fields{"flow": flow.Name, "event_id": eventID}),
		draft:     draft.New(eventID),
		uploading: make(map[Slot]bool),
		previews:  make(map[Slot]string),
	}
}

// Rehydrate loads the event and category catalog and resumes a pending
// registration if the backend has one. The wizard starts on the first step
// whose validation fails, or on review when every step already passes.
func (w *Wizard) Rehydrate(ctx context.Context) error {
	event, err := w.ports.API.GetEvent(ctx, w.eventID)
	if err != nil {
		return w.fail(networkErr(KindNetwork, err, "Failed to load event"))
	}
	catalog, err := w.ports.API.ListCategories(ctx, w.eventID)
	if err != nil {
		return w.fail(networkErr(KindNetwork, err, "Failed to load categories"))
	}
	w.event = event
	w.catalog = catalog

	d := draft.New(w.eventID)
	p := w.session.Profile
	d.Prefill(draft.Documents{
		AadhaarFront: p.AadhaarFront,
		AadhaarBack:  p.AadhaarBack,
		PlayerPhoto:  p.PlayerPhoto,
	}, p.JerseySize)

	pending, err := w.ports.API.PendingRegistration(ctx, w.eventID)
	if err != nil {
		// Resuming is best effort; the user can still start fresh.
		w.log.WithError(err).Warn("failed to load pending registration")
	} else if pending != nil {
		hydrated, err := draft.Hydrate(*pending, catalog)
		if err != nil {
			w.log.WithError(err).WithField("registration_id", pending.RegistrationID).Error("invalid pending registration")
			return w.fail(&Error{Kind: KindNetwork, Message: "Failed to load registration", Err: err})
		}
		d = hydrated
	}

	w.draft = d
	w.step = w.resumeStep()
	w.messages = Messages{}
	return nil
}

func (w *Wizard) resumeStep() Step {
	switch w.draft.Status() {
	case draft.StatusPaid, draft.StatusRejected:
		return StepSubmitted
	}
	for i := range w.flow.Steps {
		if w.Validate(Step(i)) != nil {
			return Step(i)
		}
	}
	return w.flow.last()
}

func (w *Wizard) stepContext() StepContext {
	return StepContext{Event: w.event}
}

// Validate runs the validator of step against the current draft. It has no
// side effects and returns nil for the terminal step.
func (w *Wizard) Validate(step Step) *Error {
	if step < 0 || int(step) >= len(w.flow.Steps) {
		return nil
	}
	return w.flow.Steps[step](w.draft, w.stepContext())
}

func (w *Wizard) Step() Step         { return w.step }
func (w *Wizard) Messages() Messages { return w.messages }
func (w *Wizard) Event() *Event      { return w.event }

func (w *Wizard) Catalog() []eligibility.Category {
	return append([]eligibility.Category(nil), w.catalog...)
}

// Snapshot returns a copy of the draft.
func (w *Wizard) Snapshot() *draft.Draft { return w.draft.Clone() }

func (w *Wizard) IsFinal() bool { return w.step == w.flow.last() }

// CanAdvance is derived from the draft on every call.
func (w *Wizard) CanAdvance() bool {
	return w.step < w.flow.last() && w.Validate(w.step) == nil
}

func (w *Wizard) CanSubmit() bool {
	return w.IsFinal() && w.Validate(w.step) == nil
}

func (w *Wizard) CanGoBack() bool {
	return w.step > 0 && w.step != StepSubmitted
}

func (w *Wizard) Next() error {
	if w.step >= w.flow.last() {
		return w.fail(validationErr("", "Use submit to finish the registration"))
	}
	if err := w.Validate(w.step); err != nil {
		return w.fail(err)
	}
	w.step++
	w.messages = Messages{}
	return nil
}

// Back never touches the draft.
func (w *Wizard) Back() error {
	if !w.CanGoBack() {
		return validationErr("", "There is no previous step")
	}
	w.step--
	w.messages = Messages{}
	return nil
}

func (w *Wizard) fail(err *Error) *Error {
	w.messages = Messages{Error: err.Message}
	return err
}

// draftErr turns a draft sentinel into a user-facing validation error.
func (w *Wizard) draftErr(err error, name string) error {
	if err == nil {
		return nil
	}
	var e *Error
	switch {
	case errors.Is(err, draft.ErrAlreadySelected):
		e = validationErr("categories", name+" is already selected")
	case errors.Is(err, draft.ErrNotSelected):
		e = validationErr("categories", name+" is not selected")
	case errors.Is(err, draft.ErrLocked):
		e = validationErr("categories", "This registration has been submitted. Choose edit to change categories")
	case errors.Is(err, draft.ErrReadOnly):
		e = validationErr("categories", name+" is no longer offered and cannot be changed")
	case errors.Is(err, draft.ErrClosed):
		e = validationErr("", "This registration is closed")
	default:
		e = validationErr("", err.Error())
	}
	e.Err = err
	return w.fail(e)
}

func (w *Wizard) category(code string) (eligibility.Category, bool) {
	for _, c := range w.catalog {
		if c.Code == code {
			return c, true
		}
	}
	return eligibility.Category{}, false
}

// AddCategory selects a category for the signed-in player. self is the
// player's relation for family categories and ignored otherwise. Age,
// gender and relation rules run before the draft is touched.
func (w *Wizard) AddCategory(code string, self eligibility.Relation) error {
	cat, ok := w.category(code)
	if !ok {
		return w.fail(validationErr("categories", "Unknown category"))
	}
	if !w.draft.Editable() {
		return w.draftErr(draft.ErrLocked, cat.Name)
	}
	if w.draft.Has(code) {
		return w.draftErr(draft.ErrAlreadySelected, cat.Name)
	}

	profile := w.session.Profile
	if v := w.checker.Check(cat, &profile, "Player"); v != nil {
		return w.fail(eligibilityErr(v.Reason, v.Message))
	}

	relation := eligibility.Self
	if cat.Type == eligibility.Family {
		relation = self
		if relation == "" {
			return w.fail(validationErr("relation", "Please choose your relation for "+cat.Name))
		}
		if eligibility.HasRelationTable(cat.Name) {
			meta := eligibility.ResolveFamilyRelationMeta(cat.Name, self)
			if meta == nil {
				return w.fail(&Error{Kind: KindValidation, Field: "relation", Reason: eligibility.ReasonRelation,
					Message: "Invalid relation selected for " + cat.Name})
			}
			if res := eligibility.ValidateSelfRelation(meta, profile); !res.OK {
				return w.fail(eligibilityErr(res.Reason, res.Message))
			}
		}
	}

	primary := draft.Participant{
		UserID:       profile.ID,
		Name:         profile.FullName,
		Age:          profile.AgeAt(w.cfg.Now()),
		Contact:      profile.Contact,
		Relation:     relation,
		HasDocuments: eligibility.HasUploadedAadhaar(profile),
	}
	if err := w.draft.Add(cat, primary, nil); err != nil {
		return w.draftErr(err, cat.Name)
	}
	w.messages = Messages{}
	return nil
}

// ConfirmPartner attaches partner to the selection for code after the
// partner rules pass. On failure the selections are unchanged.
func (w *Wizard) ConfirmPartner(code string, partner eligibility.Profile) error {
	sel, ok := w.draft.Selection(code)
	if !ok {
		return w.draftErr(draft.ErrNotSelected, code)
	}
	cat := sel.Category
	if !cat.Type.RequiresPartner() {
		return w.fail(validationErr("partner", cat.Name+" does not take a partner"))
	}
	if partner.ID != "" && partner.ID == w.session.Profile.ID {
		return w.fail(validationErr("partner", "You cannot select yourself as partner"))
	}

	var meta *eligibility.RelationMeta
	if cat.Type == eligibility.Family {
		meta = eligibility.ResolveFamilyRelationMeta(cat.Name, sel.Primary.Relation)
	}
	if res := eligibility.ValidatePartnerForRelation(meta, w.session.Profile, &partner); !res.OK {
		return w.fail(eligibilityErr(res.Reason, res.Message))
	}
	if cat.Type == eligibility.Double {
		if v := w.checker.Check(cat, &partner, "Partner"); v != nil {
			return w.fail(eligibilityErr(v.Reason, v.Message))
		}
	}

	p := &draft.Participant{
		UserID:       partner.ID,
		Name:         partner.FullName,
		Age:          partner.AgeAt(w.cfg.Now()),
		Contact:      partner.Contact,
		HasDocuments: true,
	}
	if meta != nil {
		p.Relation = meta.Partner
	}
	if err := w.draft.SetPartner(code, p); err != nil {
		return w.draftErr(err, cat.Name)
	}
	w.messages = Messages{}
	return nil
}

func (w *Wizard) RemoveCategory(code string) error {
	return w.draftErr(w.draft.Remove(code), code)
}

func (w *Wizard) SetNotes(code, notes string) error {
	return w.draftErr(w.draft.SetNotes(code, notes), code)
}

func (w *Wizard) SetJersey(j draft.Jersey) error {
	return w.draftErr(w.draft.SetJersey(j), "")
}

func (w *Wizard) SetAvailability(a draft.Availability) error {
	return w.draftErr(w.draft.SetAvailability(a), "")
}

func (w *Wizard) SetCricket(c draft.CricketDetails) error {
	return w.draftErr(w.draft.SetCricket(c), "")
}

func (w *Wizard) AcceptTerms(accepted bool) error {
	return w.draftErr(w.draft.AcceptTerms(accepted), "")
}

// Edit unlocks a resumed or unpaid registration and returns to the
// selection step.
func (w *Wizard) Edit() error {
	if err := w.draft.Reopen(); err != nil {
		return w.draftErr(err, "")
	}
	w.step = StepCategories
	w.messages = Messages{}
	return nil
}

// Close releases local upload previews and abandons an in-flight search.
func (w *Wizard) Close() {
	w.searchMu.Lock()
	if w.searchCancel != nil {
		w.searchCancel()
		w.searchCancel = nil
	}
	w.searchSeq++
	w.searchMu.Unlock()

	for slot := range w.previews {
		w.releasePreview(slot)
	}
}
