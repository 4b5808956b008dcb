package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"khatabook/config"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrGoogleDisabled     = errors.New("google sign-in is not configured")
	ErrGoogleTokenInvalid = errors.New("google id token rejected")
)

// GoogleIdentity is the verified profile carried by a Google ID token
type GoogleIdentity struct {
	Subject  string
	Email    string
	Name     string
	Picture  string
	Verified bool
}

type tokenInfo struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Exp           string `json:"exp"`
}

var googleClient = resty.New().SetTimeout(10 * time.Second)

// VerifyGoogleIDToken checks idToken against Google's tokeninfo endpoint and
// makes sure it was issued for this application's client id.
func VerifyGoogleIDToken(idToken string) (*GoogleIdentity, error) {
	cfg := config.AppConfig
	if cfg == nil || cfg.GoogleClientID == "" {
		return nil, ErrGoogleDisabled
	}

	resp, err := googleClient.R().
		SetQueryParam("id_token", idToken).
		Get(cfg.GoogleTokenInfoURL)
	if err != nil {
		log.Printf("Failed to reach Google tokeninfo: %v", err)
		return nil, fmt.Errorf("tokeninfo request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, ErrGoogleTokenInvalid
	}

	var info tokenInfo
	if err := json.Unmarshal(resp.Body(), &info); err != nil {
		return nil, fmt.Errorf("parse tokeninfo: %w", err)
	}
	if info.Aud != cfg.GoogleClientID || info.Sub == "" || info.Email == "" {
		return nil, ErrGoogleTokenInvalid
	}
	if info.EmailVerified != "true" {
		return nil, fmt.Errorf("%w: email not verified", ErrGoogleTokenInvalid)
	}

	return &GoogleIdentity{
		Subject:  info.Sub,
		Email:    strings.ToLower(strings.TrimSpace(info.Email)),
		Name:     info.Name,
		Picture:  info.Picture,
		Verified: true,
	}, nil
}
