package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindNotFound, KindOf(newError(KindNotFound, "x")))
	require.Equal(t, KindConflict, KindOf(fmt.Errorf("wrap: %w", newError(KindConflict, "dup"))))
	require.Equal(t, Kind(0), KindOf(errors.New("plain")))
	require.Equal(t, "Not authorized to update this session", newError(KindUnauthorized, "Not authorized to %s this session", "update").Error())
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, isUniqueViolation(fmt.Errorf("CreateUser: %w", &pgconn.PgError{Code: "23505"})))
	require.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, isUniqueViolation(errors.New("x")))
}

func TestValidationMessage(t *testing.T) {
	type payload struct {
		Title       string `json:"title" validate:"required,max=3"`
		JSONFileURL string `json:"json_file_url,omitempty" validate:"omitempty,http_url"`
		Category    string `json:"category,omitempty" validate:"omitempty,oneof=yoga other"`
		Password    string `json:"password" validate:"omitempty,min=6"`
	}
	v := NewValidator()

	require.Equal(t, "title is required", ValidationMessage(v.Struct(payload{})))
	require.Equal(t, "title cannot exceed 3 characters", ValidationMessage(v.Struct(payload{Title: "long"})))
	require.Equal(t, "please provide a valid URL", ValidationMessage(v.Struct(payload{Title: "a", JSONFileURL: "ftp://x"})))
	require.Equal(t, "category must be one of: yoga, other", ValidationMessage(v.Struct(payload{Title: "a", Category: "x"})))
	require.Equal(t, "password must be at least 6 characters", ValidationMessage(v.Struct(payload{Title: "a", Password: "x"})))
	require.Equal(t, "plain", ValidationMessage(errors.New("plain")))
}

func TestNewValidatorUsesJSONNames(t *testing.T) {
	type payload struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		JSONFileURL     string `json:"json_file_url,omitempty" validate:"required"`
		Hidden          string `json:"-" validate:"required"`
		Plain           string `validate:"required"`
	}
	err := NewValidator().Struct(payload{})
	var ves validator.ValidationErrors
	require.ErrorAs(t, err, &ves)

	fields := make([]string, 0, len(ves))
	for _, fe := range ves {
		fields = append(fields, fe.Field())
	}
	require.Equal(t, []string{"currentPassword", "json_file_url", "Hidden", "Plain"}, fields)
	require.Equal(t, "currentPassword is required", ValidationMessage(err))
}
