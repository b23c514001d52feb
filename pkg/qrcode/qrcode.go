package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize is the image edge length in pixels used when size is 0.
const DefaultSize = 256

// MaxSize bounds the image edge length to keep encoding cheap.
const MaxSize = 2048

var (
	ErrEmptyContent = errors.New("qr code content cannot be empty")
	ErrInvalidSize  = errors.New("qr code size out of range")
	ErrGenerate     = errors.New("failed to generate qr code")
)

// Generate encodes content as a PNG QR code with medium error correction.
// A size of 0 selects DefaultSize.
func Generate(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size == 0 {
		size = DefaultSize
	}
	if size < 0 || size > MaxSize {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrInvalidSize, size, MaxSize)
	}

	png, err := qr.Encode(content, qr.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrGenerate, err)
	}
	return png, nil
}

// GenerateBase64Image returns the QR code as a data URI for <img src>.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
