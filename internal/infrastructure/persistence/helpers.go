package persistence

import (
	"errors"
	"fmt"

	"github.com/mfgerp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

// notFound maps gorm.ErrRecordNotFound to the domain not-found error for resource
func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(resource)
	}
	return err
}
