package model

import (
	"database/sql/driver"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONMap is a free form jsonb column.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := jsonAPI.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *JSONMap) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New(fmt.Sprint("failed to scan jsonb value: ", value))
	}

	out := JSONMap{}
	if err := jsonAPI.Unmarshal(raw, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

func (JSONMap) GormDataType() string {
	return "jsonb"
}

// Clone returns a deep copy normalised through a JSON round trip,
// so values look exactly as they would after reading them back from the database.
func (m JSONMap) Clone() (JSONMap, error) {
	if m == nil {
		return nil, nil
	}
	b, err := jsonAPI.Marshal(m)
	if err != nil {
		return nil, err
	}
	out := JSONMap{}
	if err := jsonAPI.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
