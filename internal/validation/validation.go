package validation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}
