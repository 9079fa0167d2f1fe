package lib

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/yeqown/go-qrcode"
)

type QRGenerator interface {
	Generate(content string) (string, error)
}

// QRCodeGenerator renders content into a base64 data URI holding a JPEG QR image.
type QRCodeGenerator struct{}

func NewQRCodeGenerator() *QRCodeGenerator {
	return &QRCodeGenerator{}
}

func (g *QRCodeGenerator) Generate(content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("qrcode: empty content")
	}
	var buf bytes.Buffer
	if err := g.WriteTo(&buf, content); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (g *QRCodeGenerator) WriteTo(w io.Writer, content string) error {
	qrc, err := qrcode.New(content)
	if err != nil {
		return fmt.Errorf("qrcode: could not generate code: %w", err)
	}
	if err := qrc.SaveTo(w); err != nil {
		return fmt.Errorf("qrcode: could not encode image: %w", err)
	}
	return nil
}
