package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryAndSeverity(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category Category
		severity Severity
	}{
		{"config", ErrCodeConfigInvalid, CategoryConfig, SeverityError},
		{"dataset missing", ErrCodeDatasetNotFound, CategoryIO, SeverityFatal},
		{"empty query", ErrCodeQueryEmpty, CategoryValidation, SeverityWarning},
		{"title miss", ErrCodeTitleNotFound, CategoryValidation, SeverityWarning},
		{"out of range", ErrCodeOutOfRange, CategoryValidation, SeverityWarning},
		{"internal", ErrCodeInternal, CategoryInternal, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "msg", nil)
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
		})
	}
}

func TestError_FormatsCodeAndMessage(t *testing.T) {
	err := NotFound("The Matrix")
	assert.Equal(t, `[ERR_407_TITLE_NOT_FOUND] movie "The Matrix" not found in the catalog`, err.Error())
}

func TestIs_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("x"))
	assert.True(t, stderrors.Is(err, New(ErrCodeTitleNotFound, "", nil)))
	assert.False(t, stderrors.Is(err, New(ErrCodeQueryEmpty, "", nil)))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeInternal, cause)
	require.NotNil(t, err)
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.Equal(t, "boom", err.Message)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("x")))
	assert.True(t, IsEmptyInput(EmptyInput("query")))
	assert.False(t, IsNotFound(EmptyInput("query")))
	assert.Empty(t, GetCode(stderrors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := Internal("vectorization failed", nil).WithDetail("stage", "transform")
	assert.Equal(t, "transform", err.Details["stage"])
}
