package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultQRSize is the edge length in pixels of a customer QR image
	DefaultQRSize = 200
	MinQRSize     = 100
	MaxQRSize     = 1000
)

// CustomerQRPayload is the document encoded in a customer's QR code
type CustomerQRPayload struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
}

// CustomerQRData builds the JSON string {type:"customer", id, name, timestamp}
// with timestamp in unix milliseconds.
func CustomerQRData(customerID uint, name string, at time.Time) (string, error) {
	payload, err := json.Marshal(CustomerQRPayload{
		Type:      "customer",
		ID:        strconv.FormatUint(uint64(customerID), 10),
		Name:      name,
		Timestamp: at.UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// GenerateQRCodePNG renders data as a black on white PNG of size x size pixels
func GenerateQRCodePNG(data string, size int) ([]byte, error) {
	if size < MinQRSize || size > MaxQRSize {
		return nil, fmt.Errorf("qr size must be between %d and %d, got %d", MinQRSize, MaxQRSize, size)
	}
	png, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
