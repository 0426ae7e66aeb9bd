package errs

import "errors"

// Sentinel errors shared by the usecase and handler layers
var (
	// Cart errors
	ErrInvalidLine     = errors.New("invalid cart line")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidReward   = errors.New("invalid reward value")

	// Catalog errors
	ErrProductNotFound = errors.New("product not found")
	ErrCatalogFailed   = errors.New("catalog lookup failed")

	// Sync errors
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrInvalidToken      = errors.New("invalid session token")
	ErrRemoteSync        = errors.New("remote cart sync failed")
	ErrLoginAbandoned    = errors.New("login abandoned")
)
