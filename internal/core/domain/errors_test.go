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
		{"ErrSchemaIntrospection", ErrSchemaIntrospection},
		{"ErrColumnQuery", ErrColumnQuery},
		{"ErrSeparatorInName", ErrSeparatorInName},
		{"ErrNameCollision", ErrNameCollision},
		{"ErrInvalidRecordID", ErrInvalidRecordID},
		{"ErrStagingBusy", ErrStagingBusy},
		{"ErrStageReleased", ErrStageReleased},
		{"ErrCorpusSchema", ErrCorpusSchema},
		{"ErrIndexerFailed", ErrIndexerFailed},
		{"ErrIndexerUnavailable", ErrIndexerUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrSchemaIntrospection, ErrColumnQuery))
	assert.False(t, errors.Is(ErrIndexerFailed, ErrIndexerUnavailable))
	assert.False(t, errors.Is(ErrStagingBusy, ErrStageReleased))
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: exit status 1", ErrIndexerFailed)
	assert.True(t, errors.Is(wrapped, ErrIndexerFailed))
	assert.Equal(t, "indexing engine failed: exit status 1", wrapped.Error())
}
