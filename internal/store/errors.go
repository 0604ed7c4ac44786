package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup misses. For certificate
// verification this is an expected outcome, not a fault.
var ErrNotFound = errors.New("record not found")

// translate maps gorm errors to the store taxonomy.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
