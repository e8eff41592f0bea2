package memory

// Entry is a stored value with its expiry.
type Entry struct {
	Value string

	// ExpiresAt is the expiry in Unix milliseconds. Zero means the entry
	// never expires.
	ExpiresAt int64
}

// HasExpiry reports whether the entry carries an expiry.
func (e Entry) HasExpiry() bool {
	return e.ExpiresAt != 0
}

// ExpiredAt reports whether the entry is logically absent at nowMillis.
// An entry is still visible during the millisecond it expires in.
func (e Entry) ExpiredAt(nowMillis int64) bool {
	return e.HasExpiry() && nowMillis > e.ExpiresAt
}
