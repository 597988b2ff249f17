package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampFormat is the wire format of every timestamp: ISO-8601, UTC, milliseconds
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is a nullable instant. It reads from and writes to the store
// like sql.NullTime and serializes as an ISO-8601 string or null.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// NewTimestamp returns a valid timestamp in canonical form
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: true}.Canonical()
}

// Canonical returns the timestamp in UTC truncated to milliseconds
func (t Timestamp) Canonical() Timestamp {
	if !t.Valid {
		return Timestamp{}
	}
	return Timestamp{Time: t.Time.UTC().Truncate(time.Millisecond), Valid: true}
}

// String formats the timestamp, returning "" when null
func (t Timestamp) String() string {
	if !t.Valid {
		return ""
	}
	return t.Time.UTC().Format(TimestampFormat)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	*t = Timestamp{Time: parsed, Valid: true}
	return nil
}

// Scan implements sql.Scanner
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
	case time.Time:
		*t = Timestamp{Time: v, Valid: true}
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
	return nil
}

func (t *Timestamp) scanString(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	*t = Timestamp{Time: parsed, Valid: true}
	return nil
}

// Value implements driver.Valuer
func (t Timestamp) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Time, nil
}
