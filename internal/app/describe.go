package app

import (
	"context"
	"errors"
	"fmt"

	"streamit/internal/catalog"
)

// Describe turns a catalog failure into the message shown in the error
// section.
func Describe(action string, err error) string {
	var (
		apiErr *catalog.APIError
		netErr *catalog.NetworkError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, catalog.ErrNotFound):
		return "Title not found."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Could not fetch %s (catalog returned status %d).", action, apiErr.StatusCode)
	case errors.As(err, &netErr):
		return fmt.Sprintf("Could not fetch %s. Check your connection and try again.", action)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Could not fetch %s: the catalog took too long to answer.", action)
	default:
		return fmt.Sprintf("Could not fetch %s.", action)
	}
}
