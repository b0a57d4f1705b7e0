package product

import (
	"strconv"
	"strings"

	pkgerrors "github.com/rentiva/rentiva-backend/pkg/errors"
)

// ParseQRPayload extracts the product identifier from a scanned QR payload.
// The payload is a URL whose last path segment is the id, e.g.
// "https://rentiva.app/products/42". A bare numeric id also parses.
func ParseQRPayload(payload string) (int64, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidFormat, "Invalid or missing QR code content.")
	}

	segment := payload
	if idx := strings.LastIndex(payload, "/"); idx >= 0 {
		segment = payload[idx+1:]
	}

	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidFormat, "Invalid QR code format: Could not extract a valid product ID.")
	}
	return id, nil
}
