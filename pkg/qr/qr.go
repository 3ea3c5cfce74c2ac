// Package qr renders payloads as scannable QR images.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// DataURL encodes the payload as a PNG QR code and returns it as a
// base64 data URL suitable for direct embedding in an <img> tag.
func DataURL(payload string) (string, error) {
	if payload == "" {
		return "", fmt.Errorf("payload must not be empty")
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, defaultSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
