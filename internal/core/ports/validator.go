package ports

import (
	"context"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
)

// ModelValidator defines the interface for structural validation of a model.
//
//go:generate mockgen -source=validator.go -destination=mocks/mock_validator.go -package=mocks
type ModelValidator interface {
	// Validate returns every issue found in the model.
	// The error is reserved for failures of the validator itself.
	Validate(ctx context.Context, model *domain.Model) ([]domain.ValidationIssue, error)
}
