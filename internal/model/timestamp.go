package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Timestamp is a point in time normalised to epoch milliseconds. Documents
// carry createdAt either as a store-native timestamp or as a date-like
// string; both decode to the same representation so ordering is consistent.
type Timestamp int64

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

func TimestampOf(t time.Time) Timestamp {
	if t.IsZero() {
		return 0
	}
	return Timestamp(t.UnixMilli())
}

func (t Timestamp) Millis() int64 { return int64(t) }

func (t Timestamp) Time() time.Time {
	return time.UnixMilli(int64(t)).UTC()
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time().Format(time.RFC3339Nano))
}

// UnmarshalJSON never fails on an unrecognised value: a bad createdAt must
// not drop the whole product, it just sorts as the epoch.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = 0
		return nil
	}

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		*t = 0
		return nil
	}

	*t = ParseTimestamp(v)
	return nil
}

// ParseTimestamp normalises any supported createdAt representation.
func ParseTimestamp(v interface{}) Timestamp {
	switch value := v.(type) {
	case nil:
		return 0
	case Timestamp:
		return value
	case time.Time:
		return TimestampOf(value)
	case *time.Time:
		if value == nil {
			return 0
		}
		return TimestampOf(*value)
	case string:
		return parseTimestampString(value)
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return 0
		}
		return fromFloat(f)
	case float64:
		return fromFloat(value)
	case int64:
		return Timestamp(value)
	case int:
		return Timestamp(value)
	case map[string]interface{}:
		return parseTimestampObject(value)
	}
	return 0
}

func parseTimestampString(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return TimestampOf(parsed)
		}
	}
	return 0
}

// {seconds, nanoseconds} is the store-native shape; the underscored variant
// is what admin SDKs emit when a timestamp is serialised as JSON.
func parseTimestampObject(m map[string]interface{}) Timestamp {
	seconds, ok := number(m["seconds"])
	if !ok {
		seconds, ok = number(m["_seconds"])
	}
	if !ok {
		return 0
	}

	nanos, ok := number(m["nanoseconds"])
	if !ok {
		nanos, _ = number(m["_nanoseconds"])
	}

	return Timestamp(int64(seconds)*1000 + int64(nanos)/int64(time.Millisecond))
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func fromFloat(f float64) Timestamp {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Timestamp(int64(f))
}
