package qrcode

import (
	"fmt"
	"strings"

	"itinero/config"
	"itinero/internal/domain/service"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService creates a new QR code service instance.
func NewQRCodeService(cfg *config.QRCodeConfig) service.QRCodeService {
	size := 256
	level := qrcode.Medium
	baseURL := ""

	if cfg != nil {
		if cfg.Size > 0 {
			size = cfg.Size
		}
		switch cfg.ErrorCorrectionLevel {
		case "L":
			level = qrcode.Low
		case "M":
			level = qrcode.Medium
		case "Q":
			level = qrcode.High
		case "H":
			level = qrcode.Highest
		}
		baseURL = cfg.BaseURL
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimSuffix(baseURL, "/"),
	}
}

// GenerateRouteShareQR generates a PNG QR code pointing at the shareable
// route URL.
func (s *qrcodeService) GenerateRouteShareQR(routeID uuid.UUID) ([]byte, error) {
	shareURL := fmt.Sprintf("%s/routes/%s", s.baseURL, routeID)

	qrCode, err := qrcode.New(shareURL, s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}
