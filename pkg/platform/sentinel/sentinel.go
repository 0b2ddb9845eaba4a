package sentinel

import "errors"

// Sentinel errors for store-level facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors:
// - ErrNotFound: no record matches the lookup
// - ErrAlreadyUsed: a unique key (risk name) is already taken
// - ErrConflict: the record collides with an existing one (overlapping period)
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrConflict    = errors.New("conflict")
)
