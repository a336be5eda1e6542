package postgres

import (
	"errors"

	"gorm.io/gorm"
)

// Standardized database errors. Consumers should match against these with
// errors.Is instead of inspecting GORM or driver errors directly.
var (
	// ErrRecordNotFound is returned when a query matches no rows.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when a write violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key violation")

	// ErrForeignKey is returned when a write violates a foreign key constraint.
	ErrForeignKey = errors.New("foreign key violation")

	// ErrInvalidData is returned when the data being saved fails validation
	// at the database layer.
	ErrInvalidData = errors.New("invalid data")
)

// TranslateError converts GORM/driver-specific errors into the standardized
// sentinels above. Unknown errors are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	case errors.Is(err, gorm.ErrInvalidData):
		return ErrInvalidData
	}

	return err
}
