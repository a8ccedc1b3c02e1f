package view

import (
	"bytes"
	"image/png"

	"github.com/omniwatch/cinema-client/internal/domain"
	"github.com/skip2/go-qrcode"
)

// TicketQR renders the entry QR code shown at the cinema door as PNG bytes.
// The payload is the booking reference, which is what the scanner expects.
func TicketQR(booking *domain.Booking, size int) ([]byte, error) {
	qr, err := qrcode.New(booking.Reference, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(size)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
