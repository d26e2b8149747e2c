// Package share produces deep links and QR codes that open the tour at a
// given waypoint.
package share

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	"github.com/ivlev/geotour/internal/bridge"
)

// DefaultSize is the QR image edge in pixels.
const DefaultSize = 256

// Link returns the deep link for waypoint index.
func Link(base string, index int) (string, error) {
	return bridge.DeepLink(base, index)
}

// QR encodes link as a PNG.
func QR(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// WriteQR writes the QR code for link to path.
func WriteQR(link, path string, size int) error {
	if size <= 0 {
		size = DefaultSize
	}
	if err := qrcode.WriteFile(link, qrcode.Medium, size, path); err != nil {
		return fmt.Errorf("write qr %s: %w", path, err)
	}
	return nil
}
