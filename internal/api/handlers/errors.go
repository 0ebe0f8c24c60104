package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/nmrsim/internal/processing"
	"github.com/RMahshie/nmrsim/internal/repository"
)

// serviceError maps service errors onto HTTP responses
func serviceError(msg string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return huma.Error404NotFound("Session not found", err)
	case errors.Is(err, processing.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error(), err)
	}
	return huma.Error500InternalServerError(msg, err)
}
