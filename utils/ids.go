package utils

import "github.com/oklog/ulid/v2"

// NewScanID returns a lexically sortable scan id.
func NewScanID() string {
	return ulid.Make().String()
}

// IsScanID reports whether s parses as a ULID.
func IsScanID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
