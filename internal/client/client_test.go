package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"anpl-sports-backend/internal/draft"
	"anpl-sports-backend/internal/eligibility"
	"anpl-sports-backend/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter, data interface{}) {
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "data": data})
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/api/v1/", Token: "tok", Timeout: 2 * time.Second})
}

func TestGetEventSendsBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/events/ev-1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		ok(w, map[string]interface{}{
			"id":             "ev-1",
			"name":           "ANPL Badminton",
			"eventType":      "BADMINTON",
			"price":          0,
			"eventStartDate": "2026-12-01T00:00:00Z",
			"eventEndDate":   "2026-12-03T00:00:00Z",
		})
	})

	e, err := c.GetEvent(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "ANPL Badminton", e.Name)
	assert.Equal(t, []string{"2026-12-01", "2026-12-02", "2026-12-03"}, e.Dates())
}

func TestListCategoriesSkipsUnknownTypes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ev-1", r.URL.Query().Get("eventId"))
		ok(w, []map[string]interface{}{
			{"code": "BAD_MENS_SINGLE_35PLUS", "name": "Mens Single 35+", "categoryType": "SOLO", "ageLimit": "35+", "pricePerParticipant": 800},
			{"code": "BAD_TEAM", "name": "Team", "categoryType": "TEAM", "ageLimit": "Open", "pricePerParticipant": 800},
			{"code": "BAD_HUSBAND_WIFE", "name": "Husband & Wife", "categoryType": "FAMILY", "ageLimit": "Open", "pricePerParticipant": 800},
		})
	})

	cats, err := c.ListCategories(context.Background(), "ev-1")
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, eligibility.Solo, cats[0].Type)
	assert.Equal(t, eligibility.Family, cats[1].Type)
	assert.Equal(t, 800, cats[1].PricePerParticipant)
}

func TestPendingRegistrationAbsent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]interface{}{"success": true, "message": "No pending registration"})
	})

	sd, err := c.PendingRegistration(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Nil(t, sd)
}

func TestPendingRegistrationPresent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ok(w, draft.ServerDraft{RegistrationID: "reg-1", Status: "PENDING", TotalAmount: 1600})
	})

	sd, err := c.PendingRegistration(context.Background(), "ev-1")
	require.NoError(t, err)
	require.NotNil(t, sd)
	assert.Equal(t, "reg-1", sd.RegistrationID)
	assert.Equal(t, 1600, sd.TotalAmount)
}

func TestBackendErrorMessageIsKept(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "Total amount mismatch"})
	})

	_, err := c.Complete(context.Background(), draft.SubmissionPayload{EventID: "ev-1"})
	require.Error(t, err)

	var remote *wizard.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusBadRequest, remote.Status)
	assert.Equal(t, "Total amount mismatch", remote.Message)
}

func TestErrorWithoutBodyUsesStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.Verify(context.Background(), wizard.Verification{RegistrationID: "reg-1"})
	var remote *wizard.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Bad Gateway", remote.Message)
}

func TestUploadSendsMultipartFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/registrations/upload/aadhaar-front", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "front.png", header.Filename)
		assert.Equal(t, "png-bytes", string(content))
		ok(w, map[string]string{"filePath": "aadhaar/abc.png"})
	})

	path, err := c.Upload(context.Background(), wizard.SlotAadhaarFront, "front.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "aadhaar/abc.png", path)
}

func TestSearchReportsAadhaarFlag(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ram", r.URL.Query().Get("query"))
		ok(w, []map[string]interface{}{
			{"id": "u-2", "fullName": "Ram Kumar", "gender": "MALE", "aadhaarUploaded": true},
			{"id": "u-3", "fullName": "Ramya", "gender": "FEMALE", "aadhaarUploaded": false},
		})
	})

	found, err := c.Search(context.Background(), "ram")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, eligibility.GenderMale, found[0].Gender)
	assert.True(t, eligibility.HasUploadedAadhaar(found[0]))
	assert.False(t, eligibility.HasUploadedAadhaar(found[1]))
}

func TestInitiateDecodesOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "reg-1", body["registrationId"])
		assert.EqualValues(t, 1600, body["amount"])
		ok(w, wizard.Order{OrderID: "order_1", Amount: 160000, Currency: "INR", KeyID: "rzp_test"})
	})

	o, err := c.Initiate(context.Background(), "reg-1", 1600)
	require.NoError(t, err)
	assert.Equal(t, "order_1", o.OrderID)
	assert.Equal(t, 160000, o.Amount)
}

func TestCancelledContextAbandonsRequest(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		ok(w, nil)
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Search(ctx, "ram")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoginReturnsAuthorisedClient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			ok(w, map[string]interface{}{
				"token": "fresh",
				"user":  map[string]interface{}{"id": "u-1", "fullName": "Asha", "gender": "FEMALE", "phone": "99"},
			})
		case "/api/v1/profile":
			assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
			ok(w, map[string]interface{}{"id": "u-1", "fullName": "Asha"})
		}
	})

	session, authed, err := c.Login(context.Background(), "a@x.in", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "fresh", session.Token)
	assert.Equal(t, eligibility.GenderFemale, session.Profile.Gender)
	assert.Equal(t, "99", session.Profile.Contact)

	p, err := authed.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Asha", p.FullName)
}
