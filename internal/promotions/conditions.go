package promotions

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Condition is one declared requirement on a promotion, e.g.
// {"min_order_value": 50}.
type Condition struct {
	Key   string
	Value any
}

// Conditions preserves the declaration order of a promotion's conditions.
// Validators run in this order and short-circuit on the first failure, so a
// plain map would not do: Go maps iterate in random order and a JSON round
// trip through map[string]any loses the document order too.
type Conditions []Condition

// Get returns the value for key and whether it is declared.
func (c Conditions) Get(key string) (any, bool) {
	for _, entry := range c {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// MarshalJSON renders the conditions as a JSON object in declaration order.
func (c Conditions) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping the key order of the document.
func (c *Conditions) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*c = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("conditions: expected JSON object, got %v", tok)
	}

	decoded := Conditions{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("conditions: expected string key, got %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		decoded = append(decoded, Condition{Key: key, Value: normalizeNumbers(value)})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = decoded
	return nil
}

// Value serializes the conditions to JSONB.
func (c Conditions) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

// Scan decodes JSONB into the ordered condition list.
func (c *Conditions) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return c.UnmarshalJSON(raw)
}

// normalizeNumbers rewrites json.Number leaves to float64 so condition values
// behave like plain decoded JSON for validators.
func normalizeNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case []any:
		for i := range v {
			v[i] = normalizeNumbers(v[i])
		}
		return v
	case map[string]any:
		for k := range v {
			v[k] = normalizeNumbers(v[k])
		}
		return v
	default:
		return v
	}
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
