package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReservationCode(t *testing.T) {
	key, err := extractReservationCode([]byte(`{"reservation_id":7,"code":"AB12CD"}`))
	require.NoError(t, err)
	assert.Equal(t, "AB12CD", key)
}

func TestExtractReservationCode_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{oops"},
		{"missing code", `{"reservation_id":7}`},
		{"empty code", `{"code":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractReservationCode([]byte(tt.payload))
			assert.Error(t, err)
		})
	}
}
