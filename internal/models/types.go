package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// StringList is a []string stored as a JSON array in a text column so that the
// same schema works on PostgreSQL and SQLite.
type StringList []string

// GormDataType keeps the column portable across dialects.
func (StringList) GormDataType() string {
	return "text"
}

// Value implements the driver.Valuer interface. HTML escaping is off so that
// LIKE filters see "r&d" and not "r\u0026d".
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]string(s)); err != nil {
		return nil, err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Scan implements the sql.Scanner interface
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal StringList value:", value))
	}

	if len(bytes) == 0 {
		*s = StringList{}
		return nil
	}

	var result []string
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*s = StringList(result)
	return nil
}

// Contains reports whether v is in the list, ignoring case.
func (s StringList) Contains(v string) bool {
	for _, item := range s {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
