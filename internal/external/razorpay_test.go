package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret", pass)

		var req createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 160000, req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, "badminton_bundle_42", req.Receipt)

		json.NewEncoder(w).Encode(Order{ID: "order_1", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"})
	}))
	defer srv.Close()

	c := NewRazorpayClient(RazorpayConfig{BaseURL: srv.URL + "/v1/", KeyID: "rzp_test_key", KeySecret: "secret"})
	order, err := c.CreateOrder(context.Background(), 160000, "INR", "badminton_bundle_42", nil)
	require.NoError(t, err)
	assert.Equal(t, "order_1", order.ID)
	assert.Equal(t, "created", order.Status)
}

func TestGatewayErrorIsDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Order amount less than minimum amount allowed"}}`))
	}))
	defer srv.Close()

	c := NewRazorpayClient(RazorpayConfig{BaseURL: srv.URL, KeyID: "k", KeySecret: "s"})
	_, err := c.FetchOrder(context.Background(), "order_x")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "BAD_REQUEST_ERROR", apiErr.Code)
}

func TestRequestHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewRazorpayClient(RazorpayConfig{BaseURL: srv.URL, KeyID: "k", KeySecret: "s"})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.FetchOrder(ctx, "order_1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestVerifySignature(t *testing.T) {
	c := NewRazorpayClient(RazorpayConfig{KeyID: "k", KeySecret: "secret"})
	sig := Sign("secret", "order_1", "pay_1")

	assert.Len(t, sig, 64)
	assert.True(t, c.VerifySignature("order_1", "pay_1", sig))
	assert.False(t, c.VerifySignature("order_1", "pay_2", sig))
	assert.False(t, c.VerifySignature("order_1", "pay_1", ""))
}
