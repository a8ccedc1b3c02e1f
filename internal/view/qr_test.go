package view

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketQR(t *testing.T) {
	booking := confirmedBooking(time.Date(2026, time.September, 4, 19, 30, 0, 0, time.UTC))

	data, err := TicketQR(&booking, 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 256, bounds.Dx())
	assert.Equal(t, 256, bounds.Dy())
}

func TestTicketQRRejectsEmptyReference(t *testing.T) {
	booking := confirmedBooking(time.Now())
	booking.Reference = ""

	_, err := TicketQR(&booking, 256)
	assert.Error(t, err)
}
