package wizard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anpl-sports-backend/internal/draft"
	"anpl-sports-backend/internal/eligibility"
)

var (
	testNow = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	catU18    = eligibility.Category{Code: "U18_SINGLES", Name: "U18 Singles", Type: eligibility.Solo, AgeLimit: "U18", PricePerParticipant: 800}
	catOpen   = eligibility.Category{Code: "OPEN_SINGLES", Name: "Open Singles", Type: eligibility.Solo, AgeLimit: "OPEN", PricePerParticipant: 800}
	catMD     = eligibility.Category{Code: "MD_OPEN", Name: "Men's Doubles", Type: eligibility.Double, AgeLimit: "OPEN", PricePerParticipant: 800}
	catFS     = eligibility.Category{Code: "FS_15", Name: "Father Son 15+", Type: eligibility.Family, AgeLimit: "15+", PricePerParticipant: 800}
	catWomens = eligibility.Category{Code: "WS_OPEN", Name: "Women's Singles", Type: eligibility.Solo, AgeLimit: "OPEN", PricePerParticipant: 800}
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

type fakeAPI struct {
	event      *Event
	eventErr   error
	categories []eligibility.Category
	pending    *draft.ServerDraft
	pendingErr error

	completeErr error
	completion  Completion
	submitted   []draft.SubmissionPayload
}

func (f *fakeAPI) GetEvent(ctx context.Context, id string) (*Event, error) {
	return f.event, f.eventErr
}

func (f *fakeAPI) ListCategories(ctx context.Context, id string) ([]eligibility.Category, error) {
	return f.categories, nil
}

func (f *fakeAPI) PendingRegistration(ctx context.Context, id string) (*draft.ServerDraft, error) {
	return f.pending, f.pendingErr
}

func (f *fakeAPI) Complete(ctx context.Context, p draft.SubmissionPayload) (*Completion, error) {
	f.submitted = append(f.submitted, p)
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	c := f.completion
	return &c, nil
}

type fakeUploader struct {
	calls int
	body  []byte
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, slot Slot, name string, r io.Reader) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.body = b
	return string(slot) + "/" + name, nil
}

type fakeDirectory struct {
	search func(ctx context.Context, q string) ([]eligibility.Profile, error)
}

func (f *fakeDirectory) Search(ctx context.Context, q string) ([]eligibility.Profile, error) {
	return f.search(ctx, q)
}

type fakePayments struct {
	initiateErr error
	verifyErr   error
	initiated   []int
	verified    []Verification
}

func (f *fakePayments) Initiate(ctx context.Context, id string, amount int) (*Order, error) {
	if f.initiateErr != nil {
		return nil, f.initiateErr
	}
	f.initiated = append(f.initiated, amount)
	return &Order{OrderID: "order_1", Amount: amount * 100, Currency: "INR", KeyID: "rzp_test"}, nil
}

func (f *fakePayments) Verify(ctx context.Context, v Verification) error {
	f.verified = append(f.verified, v)
	return f.verifyErr
}

type harness struct {
	w        *Wizard
	api      *fakeAPI
	uploader *fakeUploader
	dir      *fakeDirectory
	payments *fakePayments
}

func player() eligibility.Profile {
	return eligibility.Profile{
		ID:           "me",
		FullName:     "Arjun Rao",
		DateOfBirth:  date(1985, 5, 1),
		Gender:       eligibility.GenderMale,
		Contact:      "9876543210",
		AadhaarFront: "aadhaar/front.png",
		AadhaarBack:  "aadhaar/back.png",
		PlayerPhoto:  "photos/me.png",
		JerseySize:   "L",
	}
}

func newHarness(t *testing.T, flow Flow, profile eligibility.Profile) *harness {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := &harness{
		api: &fakeAPI{
			event: &Event{
				ID: "evt-1", Name: "ANPL Badminton", EventType: "BADMINTON", Price: 800,
				RegistrationStart: date(2026, 1, 1), RegistrationEnd: date(2026, 1, 31),
				StartDate: date(2026, 2, 1), EndDate: date(2026, 2, 3),
			},
			categories: []eligibility.Category{catU18, catOpen, catMD, catFS, catWomens},
			completion: Completion{RegistrationID: "reg-1", TotalPayableAmount: 800, ReadyForPayment: true},
		},
		uploader: &fakeUploader{},
		dir:      &fakeDirectory{search: func(context.Context, string) ([]eligibility.Profile, error) { return nil, nil }},
		payments: &fakePayments{},
	}
	h.w = New(flow, Session{Token: "tok", Profile: profile}, "evt-1",
		Ports{API: h.api, Uploader: h.uploader, Directory: h.dir, Payments: h.payments},
		Config{Now: func() time.Time { return testNow }, Logger: log, PreviewDir: t.TempDir()})
	t.Cleanup(h.w.Close)
	return h
}

// toReview fills a badminton draft and walks it to the review step.
func (h *harness) toReview(t *testing.T) {
	t.Helper()
	require.NoError(t, h.w.Rehydrate(context.Background()))
	require.Equal(t, StepCategories, h.w.Step())
	require.NoError(t, h.w.AddCategory(catOpen.Code, ""))
	require.NoError(t, h.w.Next())
	require.NoError(t, h.w.SetJersey(draft.Jersey{Name: "ARJUN", Number: "10", Size: "L"}))
	require.NoError(t, h.w.SetAvailability(draft.Availability{AllDays: true}))
	require.NoError(t, h.w.AcceptTerms(true))
	require.Equal(t, StepReview, h.w.Step())
	require.True(t, h.w.CanSubmit())
}

func wizardErr(t *testing.T, err error) *Error {
	t.Helper()
	var we *Error
	require.True(t, errors.As(err, &we), "expected *wizard.Error, got %v", err)
	return we
}

func TestRehydrateFreshStartsAtFirstIncompleteStep(t *testing.T) {
	p := player()
	p.PlayerPhoto = ""
	h := newHarness(t, Badminton, p)

	require.NoError(t, h.w.Rehydrate(context.Background()))
	assert.Equal(t, StepDocuments, h.w.Step())
	assert.Equal(t, draft.StatusNew, h.w.Snapshot().Status())
	assert.False(t, h.w.CanAdvance())

	err := h.w.Next()
	we := wizardErr(t, err)
	assert.Equal(t, KindValidation, we.Kind)
	assert.Equal(t, string(SlotPlayerPhoto), we.Field)
	assert.Equal(t, we.Message, h.w.Messages().Error)
	assert.Equal(t, StepDocuments, h.w.Step())
}

func TestRehydratePendingJumpsToReview(t *testing.T) {
	h := newHarness(t, Badminton, player())
	h.api.pending = &draft.ServerDraft{
		RegistrationID: "reg-7",
		EventID:        "evt-1",
		Status:         "PENDING",
		AadhaarFront:   "a.png",
		AadhaarBack:    "b.png",
		PlayerPhoto:    "p.png",
		Entries:        []draft.ServerEntry{{RegistrationCode: "BD-1", CategoryCode: catOpen.Code, CategoryType: "SOLO"}},
	}

	require.NoError(t, h.w.Rehydrate(context.Background()))
	assert.Equal(t, StepReview, h.w.Step())
	snap := h.w.Snapshot()
	assert.Equal(t, draft.StatusSubmittedPendingPayment, snap.Status())
	assert.False(t, snap.TermsAccepted())
	assert.Equal(t, "reg-7", snap.RegistrationID())

	// Locked until the user asks to edit.
	assert.Error(t, h.w.AddCategory(catMD.Code, ""))
	require.NoError(t, h.w.Edit())
	assert.Equal(t, StepCategories, h.w.Step())
	assert.NoError(t, h.w.AddCategory(catMD.Code, ""))
}

func TestRehydrateIgnoresPendingLookupFailure(t *testing.T) {
	h := newHarness(t, Badminton, player())
	h.api.pendingErr = errors.New("boom")

	require.NoError(t, h.w.Rehydrate(context.Background()))
	assert.Equal(t, StepCategories, h.w.Step())
}

func TestRehydrateSurfacesBackendMessage(t *testing.T) {
	h := newHarness(t, Badminton, player())
	h.api.eventErr = &RemoteError{Status: 404, Message: "Event not found"}

	we := wizardErr(t, h.w.Rehydrate(context.Background()))
	assert.Equal(t, KindNetwork, we.Kind)
	assert.Equal(t, "Event not found", we.Message)

	h.api.eventErr = errors.New("dial tcp: refused")
	we = wizardErr(t, h.w.Rehydrate(context.Background()))
	assert.Equal(t, "Failed to load event", we.Message)
}

func TestBackThenNextPreservesDraft(t *testing.T) {
	h := newHarness(t, Badminton, player())
	h.toReview(t)

	for _, step := range []Step{StepReview, StepCategories} {
		for h.w.Step() != step {
			require.NoError(t, h.w.Back())
		}
		before := h.w.Snapshot()
		require.NoError(t, h.w.Back())
		require.NoError(t, h.w.Next())
		assert.Equal(t, step, h.w.Step())
		assert.Equal(t, before, h.w.Snapshot())
	}

	for h.w.Step() != StepDocuments {
		require.NoError(t, h.w.Back())
	}
	assert.Error(t, h.w.Back())
	assert.Equal(t, StepDocuments, h.w.Step())
}

func TestAddCategoryAgeAndGenderGates(t *testing.T) {
	h := newHarness(t, Badminton, player())
	require.NoError(t, h.w.Rehydrate(context.Background()))

	we := wizardErr(t, h.w.AddCategory(catU18.Code, ""))
	assert.Equal(t, KindEligibility, we.Kind)
	assert.Equal(t, eligibility.ReasonAge, we.Reason)

	we = wizardErr(t, h.w.AddCategory(catWomens.Code, ""))
	assert.Equal(t, eligibility.ReasonGender, we.Reason)

	assert.Equal(t, 0, h.w.Snapshot().Len())

	require.NoError(t, h.w.AddCategory(catOpen.Code, ""))
	we = wizardErr(t, h.w.AddCategory(catOpen.Code, ""))
	assert.Equal(t, KindValidation, we.Kind)
	assert.Equal(t, 1, h.w.Snapshot().Len())
}

func TestAddCategoryUnknownGenderFailsOpen(t *testing.T) {
	p := player()
	p.Gender = ""
	h := newHarness(t, Badminton, p)
	require.NoError(t, h.w.Rehydrate(context.Background()))
	assert.NoError(t, h.w.AddCategory(catWomens.Code, ""))
}

func TestSoloEligibleAddIncreasesTotal(t *testing.T) {
	p := player()
	p.DateOfBirth = date(2009, 6, 1)
	h := newHarness(t, Badminton, p)
	require.NoError(t, h.w.Rehydrate(context.Background()))

	age := p.AgeAt(testNow)
	require.NotNil(t, age)
	assert.Equal(t, 16, *age)
	assert.True(t, eligibility.EvaluateAge(catU18.AgeLimit, age).Eligible)

	before := h.w.Snapshot().Total()
	require.NoError(t, h.w.AddCategory(catU18.Code, ""))
	assert.Equal(t, before+catU18.PricePerParticipant, h.w.Snapshot().Total())
}

func TestFamilyRelationGenderGate(t *testing.T) {
	p := player()
	p.Gender = eligibility.GenderFemale
	h := newHarness(t, Badminton, p)
	require.NoError(t, h.w.Rehydrate(context.Background()))

	we := wizardErr(t, h.w.AddCategory(catFS.Code, eligibility.Father))
	assert.Equal(t, KindEligibility, we.Kind)
	assert.Equal(t, eligibility.ReasonGenderMismatchSelf, we.Reason)
	assert.False(t, h.w.Snapshot().Has(catFS.Code))

	we = wizardErr(t, h.w.AddCategory(catFS.Code, eligibility.Mother))
	assert.Equal(t, eligibility.ReasonRelation, we.Reason)
	assert.False(t, h.w.Snapshot().Has(catFS.Code))
}

func TestConfirmPartnerDocumentGate(t *testing.T) {
	h := newHarness(t, Badminton, player())
	require.NoError(t, h.w.Rehydrate(context.Background()))
	require.NoError(t, h.w.AddCategory(catMD.Code, ""))
	before := h.w.Snapshot().Selections()

	partner := eligibility.Profile{ID: "p1", FullName: "Dev", Gender: eligibility.GenderMale, AadhaarFront: "f.png"}
	we := wizardErr(t, h.w.ConfirmPartner(catMD.Code, partner))
	assert.Equal(t, eligibility.ReasonMissingDocs, we.Reason)
	assert.Equal(t, before, h.w.Snapshot().Selections())

	partner.AadhaarBack = "b.png"
	require.NoError(t, h.w.ConfirmPartner(catMD.Code, partner))
	sel, ok := h.w.Snapshot().Selection(catMD.Code)
	require.True(t, ok)
	require.NotNil(t, sel.Partner)
	assert.Equal(t, "p1", sel.Partner.UserID)
}

func TestConfirmPartnerFamilyRelation(t *testing.T) {
	h := newHarness(t, Badminton, player())
	require.NoError(t, h.w.Rehydrate(context.Background()))
	require.NoError(t, h.w.AddCategory(catFS.Code, eligibility.Father))

	yes := true
	daughter := eligibility.Profile{ID: "d1", Gender: eligibility.GenderFemale, AadhaarUploaded: &yes}
	we := wizardErr(t, h.w.ConfirmPartner(catFS.Code, daughter))
	assert.Equal(t, eligibility.ReasonGenderMismatchPartner, we.Reason)

	son := eligibility.Profile{ID: "s1", Gender: eligibility.GenderMale, AadhaarUploaded: &yes, DateOfBirth: date(2008, 1, 1)}
	require.NoError(t, h.w.ConfirmPartner(catFS.Code, son))
	sel, _ := h.w.Snapshot().Selection(catFS.Code)
	assert.Equal(t, eligibility.Son, sel.Partner.Relation)

	we = wizardErr(t, h.w.ConfirmPartner(catFS.Code, player()))
	assert.Equal(t, KindValidation, we.Kind)
}

func TestUploadRejectsBeforeNetwork(t *testing.T) {
	h := newHarness(t, Badminton, player())

	big := File{Name: "front.png", ContentType: "image/png", Size: DefaultMaxUploadSize + 1, Content: bytes.NewReader(nil)}
	_, err := h.w.Upload(context.Background(), SlotAadhaarFront, big)
	assert.Equal(t, KindValidation, wizardErr(t, err).Kind)

	gif := File{Name: "front.gif", ContentType: "image/gif", Size: 10, Content: bytes.NewReader([]byte("GIF89a"))}
	_, err = h.w.Upload(context.Background(), SlotAadhaarFront, gif)
	assert.Contains(t, wizardErr(t, err).Message, "JPG, PNG or PDF")

	lying := File{Name: "front.png", ContentType: "image/png", Size: 10, Content: bytes.NewReader(make([]byte, DefaultMaxUploadSize+5))}
	_, err = h.w.Upload(context.Background(), SlotAadhaarFront, lying)
	assert.Equal(t, string(SlotAadhaarFront), wizardErr(t, err).Field)

	assert.Equal(t, 0, h.uploader.calls)
}

func TestUploadStoresPathAndPreview(t *testing.T) {
	p := player()
	p.PlayerPhoto = ""
	h := newHarness(t, Badminton, p)
	require.NoError(t, h.w.Rehydrate(context.Background()))

	content := []byte("\x89PNG fake")
	path, err := h.w.Upload(context.Background(), SlotPlayerPhoto,
		File{Name: "me.png", ContentType: "image/png", Size: int64(len(content)), Content: bytes.NewReader(content)})
	require.NoError(t, err)
	assert.Equal(t, "player-photo/me.png", path)
	assert.Equal(t, content, h.uploader.body)
	assert.Equal(t, "/uploads/player-photo/me.png", h.w.DocumentURL(SlotPlayerPhoto))
	assert.False(t, h.w.Uploading(SlotPlayerPhoto))
	assert.True(t, h.w.CanAdvance())

	preview := h.w.Preview(SlotPlayerPhoto)
	require.NotEmpty(t, preview)
	_, err = os.Stat(preview)
	require.NoError(t, err)

	h.w.Close()
	_, err = os.Stat(preview)
	assert.True(t, os.IsNotExist(err))
}

func TestUploadFailureUsesFallbackMessage(t *testing.T) {
	h := newHarness(t, Badminton, player())
	h.uploader.err = errors.New("connection reset")

	_, err := h.w.Upload(context.Background(), SlotAadhaarBack,
		File{Name: "b.jpg", ContentType: "image/jpeg", Size: 3, Content: bytes.NewReader([]byte("abc"))})
	we := wizardErr(t, err)
	assert.Equal(t, KindNetwork, we.Kind)
	assert.Equal(t, "Failed to upload file", we.Message)
	assert.Empty(t, h.w.Preview(SlotAadhaarBack))
}

func TestFileURL(t *testing.T) {
	assert.Equal(t, "", FileURL(""))
	assert.Equal(t, "https://cdn/x.png", FileURL("https://cdn/x.png"))
	assert.Equal(t, "/uploads/a.png", FileURL("/uploads/a.png"))
	assert.Equal(t, "/uploads/aadhaar/a.png", FileURL("aadhaar/a.png"))
}

func TestSearchPartnersDiscardsStaleResults(t *testing.T) {
	h := newHarness(t, Badminton, player())
	started := make(chan struct{})
	var once sync.Once
	h.dir.search = func(ctx context.Context, q string) ([]eligibility.Profile, error) {
		if q == "ravi" {
			once.Do(func() { close(started) })
			<-ctx.Done()
			return []eligibility.Profile{{ID: "stale"}}, nil
		}
		return []eligibility.Profile{{ID: "fresh"}, {ID: "me"}}, nil
	}

	errc := make(chan error, 1)
	go func() {
		_, err := h.w.SearchPartners(context.Background(), "ravi")
		errc <- err
	}()
	<-started

	res, err := h.w.SearchPartners(context.Background(), "ravi k")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "fresh", res[0].ID)

	assert.ErrorIs(t, <-errc, ErrStaleSearch)
	assert.Equal(t, res, h.w.SearchResults())
}

func TestSearchPartnersMinimumLength(t *testing.T) {
	h := newHarness(t, Badminton, player())
	calls := 0
	h.dir.search = func(context.Context, string) ([]eligibility.Profile, error) {
		calls++
		return []eligibility.Profile{{ID: "x"}}, nil
	}

	res, err := h.w.SearchPartners(context.Background(), " ra ")
	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 0, calls)

	_, err = h.w.SearchPartners(context.Background(), "rav")
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSubmitAndPay(t *testing.T) {
	h := newHarness(t, Badminton, player())
	h.toReview(t)

	co, err := h.w.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, co)
	assert.Equal(t, 80000, co.Amount)
	assert.Equal(t, StepSubmitted, h.w.Step())
	assert.Equal(t, draft.StatusSubmittedPendingPayment, h.w.Snapshot().Status())
	require.Len(t, h.api.submitted, 1)
	assert.Equal(t, 800, h.api.submitted[0].TotalAmount)

	co.OnSuccess("pay_1", "sig_1")
	co.OnDismiss()
	require.NoError(t, h.w.AwaitPayment(context.Background(), co))

	assert.Equal(t, draft.StatusPaid, h.w.Snapshot().Status())
	assert.Equal(t, StepSubmitted, h.w.Step())
	require.Len(t, h.payments.verified, 1)
	assert.Equal(t, Verification{RegistrationID: "reg-1", OrderID: "order_1", PaymentID: "pay_1", Signature: "sig_1"}, h.payments.verified[0])
}

func TestSubmitWithNothingPayable(t *testing.T) {
	h := newHarness(t, Badminton, player())
	h.toReview(t)
	h.api.completion = Completion{RegistrationID: "reg-1", TotalPayableAmount: 0, ReadyForPayment: false}

	co, err := h.w.Submit(context.Background())
	require.NoError(t, err)
	assert.Nil(t, co)
	assert.Equal(t, StepSubmitted, h.w.Step())
	assert.Equal(t, draft.StatusPaid, h.w.Snapshot().Status())
	assert.Equal(t, "Registration submitted", h.w.Messages().Success)
	assert.Empty(t, h.payments.initiated)

	require.NoError(t, h.w.AwaitPayment(context.Background(), co))
	assert.Equal(t, StepSubmitted, h.w.Step())
	assert.Empty(t, h.payments.verified)
}

func TestDismissReturnsToReviewForRetry(t *testing.T) {
	h := newHarness(t, Badminton, player())
	h.toReview(t)

	co, err := h.w.Submit(context.Background())
	require.NoError(t, err)
	co.OnDismiss()
	require.NoError(t, h.w.AwaitPayment(context.Background(), co))

	assert.Equal(t, StepReview, h.w.Step())
	assert.Empty(t, h.w.Messages().Error)
	assert.Equal(t, draft.StatusSubmittedPendingPayment, h.w.Snapshot().Status())
	assert.True(t, h.w.CanSubmit())

	_, err = h.w.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, h.api.submitted, 2)
	assert.Equal(t, "reg-1", h.api.submitted[1].RegistrationID)
}

func TestVerificationFailureKeepsPending(t *testing.T) {
	h := newHarness(t, Badminton, player())
	h.toReview(t)
	h.payments.verifyErr = &RemoteError{Status: 400, Message: "Invalid payment signature"}

	co, err := h.w.Submit(context.Background())
	require.NoError(t, err)
	co.OnSuccess("pay_1", "bad")

	we := wizardErr(t, h.w.AwaitPayment(context.Background(), co))
	assert.Equal(t, KindPayment, we.Kind)
	assert.Equal(t, "Invalid payment signature", we.Message)
	assert.Equal(t, draft.StatusSubmittedPendingPayment, h.w.Snapshot().Status())
	assert.Equal(t, StepReview, h.w.Step())
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	h := newHarness(t, Badminton, player())
	h.toReview(t)
	h.api.completeErr = &RemoteError{Status: 400, Message: "Jersey number 10 is already taken for this event."}
	before := h.w.Snapshot()

	co, err := h.w.Submit(context.Background())
	assert.Nil(t, co)
	we := wizardErr(t, err)
	assert.Equal(t, KindNetwork, we.Kind)
	assert.Equal(t, "Jersey number 10 is already taken for this event.", we.Message)
	assert.Equal(t, StepReview, h.w.Step())
	assert.Equal(t, before, h.w.Snapshot())
}

func TestSubmitRequiresFinalStepAndTerms(t *testing.T) {
	h := newHarness(t, Badminton, player())
	require.NoError(t, h.w.Rehydrate(context.Background()))
	_, err := h.w.Submit(context.Background())
	assert.Error(t, err)

	h.toReview(t)
	require.NoError(t, h.w.AcceptTerms(false))
	assert.False(t, h.w.CanSubmit())
	_, err = h.w.Submit(context.Background())
	assert.Equal(t, "termsAccepted", wizardErr(t, err).Field)
	assert.Empty(t, h.api.submitted)
}

func TestReviewRequiresUnavailableDatesWithinEvent(t *testing.T) {
	h := newHarness(t, Badminton, player())
	h.toReview(t)

	require.NoError(t, h.w.SetAvailability(draft.Availability{AllDays: false}))
	assert.Equal(t, "unavailableDates", h.w.Validate(StepReview).Field)

	require.NoError(t, h.w.SetAvailability(draft.Availability{UnavailableDates: []string{"2026-03-01"}}))
	assert.NotNil(t, h.w.Validate(StepReview))

	require.NoError(t, h.w.SetAvailability(draft.Availability{UnavailableDates: []string{"2026-02-02"}}))
	assert.Nil(t, h.w.Validate(StepReview))
}

func TestCricketFlow(t *testing.T) {
	h := newHarness(t, Cricket, player())
	cricketCat := eligibility.Category{Code: "CRICKET_PLAYER", Name: "Cricket Player", Type: eligibility.Solo, AgeLimit: "OPEN", PricePerParticipant: 1500}
	h.api.categories = []eligibility.Category{cricketCat}
	require.NoError(t, h.w.Rehydrate(context.Background()))
	require.Equal(t, StepCategories, h.w.Step())

	require.NoError(t, h.w.AddCategory(cricketCat.Code, ""))
	assert.Equal(t, "gameLevel", h.w.Validate(StepCategories).Field)
	require.NoError(t, h.w.SetCricket(draft.CricketDetails{
		GameLevel: "INTERMEDIATE", Preference: "BATSMAN", BattingHand: "RIGHT", BowlingArm: "RIGHT",
		BowlingPace: "MEDIUM", SportsHistory: "Club cricket", Achievements: "Captain 2024",
	}))
	require.NoError(t, h.w.Next())

	require.NoError(t, h.w.SetJersey(draft.Jersey{Name: "Arjun", Number: "100"}))
	require.NoError(t, h.w.AcceptTerms(true))
	assert.Equal(t, "jerseyNumber", h.w.Validate(StepReview).Field)
	require.NoError(t, h.w.SetJersey(draft.Jersey{Name: "Arjun 7", Number: "7"}))
	assert.Equal(t, "jerseyName", h.w.Validate(StepReview).Field)
	require.NoError(t, h.w.SetJersey(draft.Jersey{Name: "Arjun", Number: "7"}))
	assert.True(t, h.w.CanSubmit())
}

func TestEventDatesAndWindow(t *testing.T) {
	e := Event{StartDate: date(2026, 2, 27), EndDate: date(2026, 3, 2)}
	assert.Equal(t, []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"}, e.Dates())
	assert.Nil(t, Event{}.Dates())

	e = Event{RegistrationStart: date(2026, 1, 1), RegistrationEnd: date(2026, 1, 31)}
	assert.True(t, e.RegistrationOpen(time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, e.RegistrationOpen(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, e.RegistrationOpen(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
}
