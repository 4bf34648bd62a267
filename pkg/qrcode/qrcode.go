// Package qrcode renders signed links as PNG QR codes for printed material.
package qrcode

import (
	"errors"
	"os"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent             = errors.New("content cannot be empty")
	ErrFailedToGenerateQRCode   = errors.New("failed to generate QR code")
	ErrFailedToWriteQRCodeImage = errors.New("failed to write QR code image")
)

// DefaultSize is the image width and height in pixels used when size <= 0.
const DefaultSize = 256

// Generate encodes content as a PNG with medium error correction.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerateQRCode, err)
	}
	return png, nil
}

// WriteFile writes the PNG for content to path.
func WriteFile(path, content string, size int) error {
	png, err := Generate(content, size)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return errors.Join(ErrFailedToWriteQRCodeImage, err)
	}
	return nil
}
