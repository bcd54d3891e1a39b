// Package client implements the wizard ports against the backend's REST
// API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"anpl-sports-backend/internal/draft"
	"anpl-sports-backend/internal/eligibility"
	"anpl-sports-backend/internal/wizard"
	"anpl-sports-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// BaseURL includes the API prefix, e.g. http://localhost:3000/api/v1.
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to one backend as one signed-in user. It satisfies
// wizard.RegistrationAPI, wizard.Uploader, wizard.PartnerDirectory and
// wizard.PaymentAPI.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	log     *logrus.Entry
}

var (
	_ wizard.RegistrationAPI  = (*Client)(nil)
	_ wizard.Uploader         = (*Client)(nil)
	_ wizard.PartnerDirectory = (*Client)(nil)
	_ wizard.PaymentAPI       = (*Client)(nil)
)

func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		timeout: cfg.Timeout,
		log:     logger.Log.WithField("component", "client"),
	}
}

// Ports bundles the client as every wizard port.
func (c *Client) Ports() wizard.Ports {
	return wizard.Ports{API: c, Uploader: c, Directory: c, Payments: c}
}

// envelope is the backend's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type userDTO struct {
	ID                 string     `json:"id"`
	FullName           string     `json:"fullName"`
	Phone              string     `json:"phone"`
	RegistrationNumber string     `json:"registrationNumber"`
	HouseNumber        string     `json:"houseNumber"`
	Address            string     `json:"address"`
	DateOfBirth        *time.Time `json:"dateOfBirth"`
	Gender             string     `json:"gender"`
	AadhaarFrontPhoto  string     `json:"aadhaarFrontPhoto"`
	AadhaarBackPhoto   string     `json:"aadhaarBackPhoto"`
	PlayerPhoto        string     `json:"playerPhoto"`
	TShirtSize         string     `json:"tshirtSize"`
}

func (u userDTO) profile() eligibility.Profile {
	return eligibility.Profile{
		ID:                 u.ID,
		FullName:           u.FullName,
		RegistrationNumber: u.RegistrationNumber,
		HouseNumber:        u.HouseNumber,
		DateOfBirth:        u.DateOfBirth,
		Gender:             eligibility.ParseGender(u.Gender),
		Contact:            u.Phone,
		Address:            u.Address,
		AadhaarFront:       u.AadhaarFrontPhoto,
		AadhaarBack:        u.AadhaarBackPhoto,
		PlayerPhoto:        u.PlayerPhoto,
		JerseySize:         u.TShirtSize,
	}
}

type playerDTO struct {
	ID                 string     `json:"id"`
	FullName           string     `json:"fullName"`
	RegistrationNumber string     `json:"registrationNumber"`
	HouseNumber        string     `json:"houseNumber"`
	Gender             string     `json:"gender"`
	DateOfBirth        *time.Time `json:"dateOfBirth"`
	Contact            string     `json:"contact"`
	AadhaarUploaded    bool       `json:"aadhaarUploaded"`
}

type categoryDTO struct {
	Code                string `json:"code"`
	Name                string `json:"name"`
	CategoryType        string `json:"categoryType"`
	AgeLimit            string `json:"ageLimit"`
	PricePerParticipant int    `json:"pricePerParticipant"`
}

// Login signs in and returns a session together with a client acting for
// it.
func (c *Client) Login(ctx context.Context, email, password string) (*wizard.Session, *Client, error) {
	var resp struct {
		Token string  `json:"token"`
		User  userDTO `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, nil, err
	}

	authed := *c
	authed.token = resp.Token
	return &wizard.Session{Token: resp.Token, Profile: resp.User.profile()}, &authed, nil
}

func (c *Client) Profile(ctx context.Context) (*eligibility.Profile, error) {
	var u userDTO
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &u); err != nil {
		return nil, err
	}
	p := u.profile()
	return &p, nil
}

func (c *Client) GetEvent(ctx context.Context, eventID string) (*wizard.Event, error) {
	var e wizard.Event
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(eventID), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListCategories drops categories of a type this build does not know.
func (c *Client) ListCategories(ctx context.Context, eventID string) ([]eligibility.Category, error) {
	var rows []categoryDTO
	if err := c.do(ctx, http.MethodGet, "/categories?eventId="+url.QueryEscape(eventID), nil, &rows); err != nil {
		return nil, err
	}

	out := make([]eligibility.Category, 0, len(rows))
	for _, r := range rows {
		t, err := eligibility.ParseCategoryType(r.CategoryType)
		if err != nil {
			c.log.WithField("code", r.Code).Warn("skipping category with unknown type")
			continue
		}
		out = append(out, eligibility.Category{
			Code:                r.Code,
			Name:                r.Name,
			Type:                t,
			AgeLimit:            r.AgeLimit,
			PricePerParticipant: r.PricePerParticipant,
		})
	}
	return out, nil
}

func (c *Client) PendingRegistration(ctx context.Context, eventID string) (*draft.ServerDraft, error) {
	var sd *draft.ServerDraft
	if err := c.do(ctx, http.MethodGet, "/registrations/pending?eventId="+url.QueryEscape(eventID), nil, &sd); err != nil {
		return nil, err
	}
	return sd, nil
}

func (c *Client) Complete(ctx context.Context, payload draft.SubmissionPayload) (*wizard.Completion, error) {
	var res wizard.Completion
	if err := c.do(ctx, http.MethodPost, "/registrations/complete", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Upload(ctx context.Context, slot wizard.Slot, filename string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filename, err)
	}

	a := c.agent(http.MethodPost, "/registrations/upload/"+url.PathEscape(string(slot)))
	a.FileData(&fiber.FormFile{Fieldname: "file", Name: filename, Content: data}).MultipartForm(nil)

	var res struct {
		FilePath string `json:"filePath"`
	}
	if err := c.send(ctx, a, &res); err != nil {
		return "", err
	}
	return res.FilePath, nil
}

func (c *Client) Search(ctx context.Context, query string) ([]eligibility.Profile, error) {
	var rows []playerDTO
	if err := c.do(ctx, http.MethodGet, "/users/search?query="+url.QueryEscape(query), nil, &rows); err != nil {
		return nil, err
	}

	out := make([]eligibility.Profile, 0, len(rows))
	for _, r := range rows {
		uploaded := r.AadhaarUploaded
		out = append(out, eligibility.Profile{
			ID:                 r.ID,
			FullName:           r.FullName,
			RegistrationNumber: r.RegistrationNumber,
			HouseNumber:        r.HouseNumber,
			DateOfBirth:        r.DateOfBirth,
			Gender:             eligibility.ParseGender(r.Gender),
			Contact:            r.Contact,
			AadhaarUploaded:    &uploaded,
		})
	}
	return out, nil
}

func (c *Client) Initiate(ctx context.Context, registrationID string, amount int) (*wizard.Order, error) {
	body := map[string]interface{}{"registrationId": registrationID, "amount": amount}
	var o wizard.Order
	if err := c.do(ctx, http.MethodPost, "/payments/initiate", body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) Verify(ctx context.Context, v wizard.Verification) error {
	return c.do(ctx, http.MethodPost, "/payments/verify", v, nil)
}

func (c *Client) agent(method, path string) *fiber.Agent {
	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	a.Timeout(c.timeout)
	return a
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	a := c.agent(method, path)
	if body != nil {
		a.JSON(body)
	}
	return c.send(ctx, a, out)
}

type result struct {
	code int
	body []byte
	errs []error
}

// send runs the request and decodes the envelope's data into out. When ctx
// ends first the request is abandoned and its answer discarded.
func (c *Client) send(ctx context.Context, a *fiber.Agent, out interface{}) error {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return err
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("failed to build request: %w", err)
	}

	done := make(chan result, 1)
	go func() {
		code, body, errs := a.Bytes()
		done <- result{code: code, body: body, errs: errs}
	}()

	var r result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case r = <-done:
	}
	if len(r.errs) > 0 {
		return fmt.Errorf("request failed: %w", r.errs[0])
	}

	var env envelope
	decodeErr := json.Unmarshal(r.body, &env)
	if r.code >= http.StatusBadRequest || (decodeErr == nil && !env.Success && env.Error != "") {
		return remoteError(r.code, env)
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func remoteError(status int, env envelope) *wizard.RemoteError {
	msg := env.Error
	if msg == "" {
		msg = env.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &wizard.RemoteError{Status: status, Message: msg}
}
