package services

import (
	"errors"
	"fmt"

	"ticket-storefront/internal/status"
)

var domainErrors = []error{
	status.ErrRecordNotFound,
	status.ErrTicketNotFound,
	status.ErrTicketStatus,
	status.ErrCardNotFound,
	status.ErrDuplicateCard,
}

// storeErr keeps domain errors as they are and reports anything else from a
// store as a persistence failure.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	if errors.Is(err, status.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", status.ErrPersistence, err)
}
