// Package id generates the identifiers used for account records.
package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New returns a fresh ULID string. The time-ordered prefix keeps ids
// sortable by creation while staying usable as a partition key.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
