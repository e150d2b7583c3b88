package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnrecognizedCategory", ErrUnrecognizedCategory},
		{"ErrUnknownScanType", ErrUnknownScanType},
		{"ErrReadCancelled", ErrReadCancelled},
		{"ErrHandleClosed", ErrHandleClosed},
		{"ErrNoFile", ErrNoFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrUnrecognizedCategory(t *testing.T) {
	assert.Equal(t, "not a recognized map file", ErrUnrecognizedCategory.Error())
	assert.False(t, errors.Is(ErrUnrecognizedCategory, ErrUnknownScanType))
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("reading /tmp/a.map: %w", ErrUnknownScanType)

	assert.True(t, errors.Is(wrapped, ErrUnknownScanType))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
}
