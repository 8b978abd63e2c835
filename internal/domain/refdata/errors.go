package refdata

import "errors"

// ErrIntegrity means a reference row could not be read back after an upsert
// that should have created or found it. Fatal for the ingestion unit.
var ErrIntegrity = errors.New("reference row missing after upsert")
