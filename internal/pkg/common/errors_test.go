package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsValidationError(NewValidationError("bad input")))
	assert.True(t, IsNotFound(NewNotFoundError("missing")))
	assert.True(t, IsConflict(NewConflictError("dup", nil)))

	// 非 CustomError 一律視為內部錯誤
	plain := errors.New("boom")
	assert.False(t, IsValidationError(plain))
	assert.False(t, IsNotFound(plain))
	assert.False(t, IsConflict(plain))
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("request failed: %w", NewNotFoundError("missing"))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(NewValidationError("x")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(NewConflictError("x", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("unique constraint")
	err := NewConflictError("dup", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "unique constraint", err.Error())
}

func TestTranslationsJSONRoundTrip(t *testing.T) {
	tr := Translations{"de": "Rum", "fr": "Rhum"}
	assert.Equal(t, tr, TranslationsFromJSON(tr.ToJSON()))

	assert.Nil(t, Translations(nil).ToJSON())
	assert.Nil(t, TranslationsFromJSON(nil))
}
