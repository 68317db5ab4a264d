package service

import "github.com/google/uuid"

// QRCodeService generates share codes for saved routes.
type QRCodeService interface {
	// GenerateRouteShareQR renders a PNG QR code pointing at a saved route.
	GenerateRouteShareQR(routeID uuid.UUID) ([]byte, error)
}
