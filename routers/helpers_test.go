package routers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"khatabook/config"
	"khatabook/database"
	"khatabook/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type api struct {
	t   *testing.T
	app *fiber.App
}

func setupAPI(t *testing.T) *api {
	t.Helper()

	prevConfig, prevDB, prevHub := config.AppConfig, database.Database, realtime.Default
	t.Cleanup(func() {
		config.AppConfig, database.Database, realtime.Default = prevConfig, prevDB, prevHub
	})

	config.AppConfig = &config.Config{
		JWTKey:        "test-secret",
		SaltRound:     bcrypt.MinCost,
		DBDriver:      "sqlite",
		DBPath:        ":memory:",
		AuthRateLimit: 1000,
	}
	db, err := database.Open(config.AppConfig)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	database.Database = database.DbInstance{Db: db}
	realtime.Default = realtime.NewHub()

	app := fiber.New()
	SetupRoutes(app)
	return &api{t: t, app: app}
}

// raw performs a request and returns the response with its body read
func (a *api) raw(method, path, token string, body io.Reader, contentType string) (*http.Response, []byte) {
	a.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp, out
}

// call sends payload as JSON and decodes the response envelope
func (a *api) call(method, path, token string, payload any) (int, envelope) {
	a.t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(a.t, err)
		body = bytes.NewReader(b)
	}
	resp, out := a.raw(method, path, token, body, fiber.MIMEApplicationJSON)

	var env envelope
	require.NoError(a.t, json.Unmarshal(out, &env), string(out))
	return resp.StatusCode, env
}

// ok asserts the status and decodes data into dst
func (a *api) ok(want int, method, path, token string, payload, dst any) {
	a.t.Helper()
	status, env := a.call(method, path, token, payload)
	require.Equal(a.t, want, status, "%s %s: %s", method, path, env.Message)
	if dst != nil {
		require.NoError(a.t, json.Unmarshal(env.Data, dst))
	}
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
}

func (a *api) signup(name, email string) session {
	a.t.Helper()
	var s session
	a.ok(fiber.StatusCreated, "POST", "/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "secret-pass",
	}, &s)
	require.NotEmpty(a.t, s.Token)
	return s
}

type customerJSON struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	Balance     decimal.Decimal `json:"balance"`
}

type transactionJSON struct {
	ID            uint            `json:"id"`
	Reference     string          `json:"reference"`
	CustomerID    uint            `json:"customerId"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	Item          string          `json:"item"`
}

func (a *api) customer(token, name, phone string) customerJSON {
	a.t.Helper()
	var c customerJSON
	a.ok(fiber.StatusCreated, "POST", "/customers", token, map[string]string{"name": name, "phone": phone}, &c)
	return c
}

func (a *api) entry(token string, customerID uint, kind, amount, method string) (transactionJSON, customerJSON) {
	a.t.Helper()
	var out struct {
		Transaction transactionJSON `json:"transaction"`
		Customer    customerJSON    `json:"customer"`
	}
	a.ok(fiber.StatusCreated, "POST", fmt.Sprintf("/customers/%d/transactions", customerID), token, map[string]any{
		"type": kind, "amount": amount, "paymentMethod": method,
	}, &out)
	return out.Transaction, out.Customer
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
