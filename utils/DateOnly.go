package utils

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// DateOnly is a calendar date that marshals as YYYY-MM-DD.
type DateOnly time.Time

func (d DateOnly) Time() time.Time { return time.Time(d) }

func (d DateOnly) String() string { return time.Time(d).Format(dateOnlyLayout) }

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		*d = DateOnly(time.Time{})
		return nil
	}
	t, err := time.Parse(dateOnlyLayout, s)
	if err != nil {
		return err
	}
	*d = DateOnly(t)
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Value implements the driver.Valuer interface for database writes
func (d DateOnly) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements the sql.Scanner interface for database reads
func (d *DateOnly) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = DateOnly(time.Time{})
	case time.Time:
		*d = DateOnly(v)
	case string:
		t, err := time.Parse(dateOnlyLayout, v)
		if err != nil {
			return err
		}
		*d = DateOnly(t)
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan type %T into DateOnly", value)
	}
	return nil
}
