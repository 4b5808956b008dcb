package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"khatabook/config"
	"khatabook/database"
	"khatabook/ledger"
	"khatabook/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerQRData(t *testing.T) {
	at := time.UnixMilli(1714555800123)
	data, err := CustomerQRData(7, "Ramesh \"Kirana\"", at)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &payload))
	assert.Equal(t, "customer", payload["type"])
	assert.Equal(t, "7", payload["id"])
	assert.Equal(t, "Ramesh \"Kirana\"", payload["name"])
	assert.Equal(t, float64(1714555800123), payload["timestamp"])
}

func TestGenerateQRCodePNG(t *testing.T) {
	png, err := GenerateQRCodePNG(`{"type":"customer","id":"1"}`, DefaultQRSize)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))

	_, err = GenerateQRCodePNG("x", MinQRSize-1)
	assert.Error(t, err)
	_, err = GenerateQRCodePNG("x", MaxQRSize+1)
	assert.Error(t, err)
}

func TestParseFilterDate(t *testing.T) {
	got, err := ParseFilterDate("", false)
	require.NoError(t, err)
	assert.Nil(t, got)

	from, err := ParseFilterDate("2024-03-10", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local), *from)

	to, err := ParseFilterDate("2024-03-10", true)
	require.NoError(t, err)
	assert.Equal(t, 23, to.Hour())
	assert.Equal(t, 59, to.Second())
	assert.Equal(t, 10, to.Day())

	exact, err := ParseFilterDate("2024-03-10T08:15:00Z", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 8, 15, 0, 0, time.UTC), exact.UTC())

	_, err = ParseFilterDate("10/03/2024", false)
	assert.Error(t, err)
}

func withGoogle(t *testing.T, clientID string, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	prev := config.AppConfig
	config.AppConfig = &config.Config{GoogleClientID: clientID, GoogleTokenInfoURL: srv.URL}
	t.Cleanup(func() { config.AppConfig = prev })
}

func tokenInfoHandler(aud, verified string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") != "good-token" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"aud":            aud,
			"sub":            "1098",
			"email":          "shop@example.com",
			"email_verified": verified,
			"name":           "Shop Owner",
			"picture":        "https://example.com/p.png",
		})
	}
}

func TestVerifyGoogleIDToken(t *testing.T) {
	withGoogle(t, "client-1", tokenInfoHandler("client-1", "true"))

	id, err := VerifyGoogleIDToken("good-token")
	require.NoError(t, err)
	assert.Equal(t, "1098", id.Subject)
	assert.Equal(t, "shop@example.com", id.Email)
	assert.Equal(t, "Shop Owner", id.Name)
	assert.Equal(t, "https://example.com/p.png", id.Picture)

	_, err = VerifyGoogleIDToken("bad-token")
	assert.ErrorIs(t, err, ErrGoogleTokenInvalid)
}

func TestVerifyGoogleIDTokenRejectsForeignAudience(t *testing.T) {
	withGoogle(t, "client-1", tokenInfoHandler("someone-else", "true"))
	_, err := VerifyGoogleIDToken("good-token")
	assert.ErrorIs(t, err, ErrGoogleTokenInvalid)
}

func TestVerifyGoogleIDTokenRequiresVerifiedEmail(t *testing.T) {
	withGoogle(t, "client-1", tokenInfoHandler("client-1", "false"))
	_, err := VerifyGoogleIDToken("good-token")
	assert.ErrorIs(t, err, ErrGoogleTokenInvalid)
}

func TestVerifyGoogleIDTokenDisabled(t *testing.T) {
	withGoogle(t, "", tokenInfoHandler("client-1", "true"))
	_, err := VerifyGoogleIDToken("good-token")
	assert.ErrorIs(t, err, ErrGoogleDisabled)
}

func TestReconcileAll(t *testing.T) {
	db, err := database.Open(&config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)

	store := ledger.NewStore(db, nil)
	ctx := context.Background()

	var owners []uint
	for _, email := range []string{"a@example.com", "b@example.com"} {
		u := models.User{Name: "Owner", Email: email}
		require.NoError(t, db.Create(&u).Error)
		owners = append(owners, u.ID)
	}

	var drifted uint
	for i, owner := range owners {
		c, err := store.CreateCustomer(ctx, owner, ledger.CustomerInput{Name: "Ravi", Phone: "98765" + string(rune('0'+i))})
		require.NoError(t, err)
		_, _, err = store.CreateTransaction(ctx, owner, c.ID, ledger.NewTransaction{
			Type:          models.TransactionTypeDebit,
			Amount:        decimal.NewFromInt(80),
			PaymentMethod: models.PaymentMethodPending,
		})
		require.NoError(t, err)
		drifted = c.ID
	}

	require.NoError(t, db.Model(&models.Customer{}).Where("id = ?", drifted).
		Updates(map[string]any{"total_debit": decimal.NewFromInt(5), "balance": decimal.NewFromInt(5)}).Error)

	repaired, err := ReconcileAll(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	var c models.Customer
	require.NoError(t, db.First(&c, drifted).Error)
	assert.True(t, decimal.NewFromInt(80).Equal(c.TotalDebit))
	assert.True(t, decimal.NewFromInt(80).Equal(c.Balance))

	repaired, err = ReconcileAll(ctx, store)
	require.NoError(t, err)
	assert.Zero(t, repaired)
}
