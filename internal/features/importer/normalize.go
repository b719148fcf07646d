package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dateTolerance absorbs serialization jitter: two timestamps within this
// window compare equal.
const dateTolerance = 60 * time.Second

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"02/01/2006",
	"1/2/06 15:04",
	"01-02-06",
}

// isEmpty treats nil and the empty string as the same "no value".
func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case primitive.DateTime:
		return t.Time(), true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", ".")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// stripIdentifier normalizes *_id values: quote characters removed, spaces
// trimmed. Spreadsheet tools love to wrap identifiers in stray quotes.
func stripIdentifier(v interface{}) string {
	s := stringify(v)
	s = strings.Trim(s, " \t\"'`")
	return s
}

func stringify(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// stringifyText renders a value for descriptive-string comparison. Dates are
// rendered date-only so "2024-05-01T00:00:00Z" equals "2024-05-01".
func stringifyText(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	case primitive.DateTime:
		return t.Time().Format("2006-01-02")
	}
	return strings.TrimSpace(stringify(v))
}

func toMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case bson.M:
		return m, true
	case bson.D:
		out := make(map[string]interface{}, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out, true
	}
	return nil, false
}

// valuesEqual applies the field-class comparison rules.
func valuesEqual(kind FieldKind, incoming, stored interface{}) bool {
	inEmpty, stEmpty := isEmpty(incoming), isEmpty(stored)
	if inEmpty || stEmpty {
		return inEmpty == stEmpty
	}

	switch kind {
	case KindDate:
		a, okA := toTime(incoming)
		b, okB := toTime(stored)
		if okA && okB {
			delta := a.Sub(b)
			if delta < 0 {
				delta = -delta
			}
			return delta <= dateTolerance
		}
		return stringifyText(incoming) == stringifyText(stored)
	case KindNumber:
		a, okA := toFloat(incoming)
		b, okB := toFloat(stored)
		if okA && okB {
			return a == b
		}
		return stringifyText(incoming) == stringifyText(stored)
	case KindIdentifier:
		return stripIdentifier(incoming) == stripIdentifier(stored)
	case KindObject:
		return objectsEqual(incoming, stored)
	default:
		return stringifyText(incoming) == stringifyText(stored)
	}
}

// objectsEqual compares composites key-by-key. Equal only when the key sets
// are identical and every sub-value compares equal under the loose rules.
func objectsEqual(a, b interface{}) bool {
	ma, okA := toMap(a)
	mb, okB := toMap(b)
	if !okA || !okB {
		return looseEqual(a, b)
	}
	if len(ma) != len(mb) {
		return false
	}
	for k, va := range ma {
		vb, ok := mb[k]
		if !ok {
			return false
		}
		if _, isMap := toMap(va); isMap {
			if !objectsEqual(va, vb) {
				return false
			}
			continue
		}
		if !looseEqual(va, vb) {
			return false
		}
	}
	return true
}

// looseEqual is the scalar fallback used inside composites: nullish/empty
// equivalence, numeric equality, date tolerance, then text comparison.
func looseEqual(a, b interface{}) bool {
	aEmpty, bEmpty := isEmpty(a), isEmpty(b)
	if aEmpty || bEmpty {
		return aEmpty == bEmpty
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	if ta, ok := toTime(a); ok {
		if tb, ok := toTime(b); ok {
			delta := ta.Sub(tb)
			if delta < 0 {
				delta = -delta
			}
			return delta <= dateTolerance
		}
	}
	return stringifyText(a) == stringifyText(b)
}

// convertValue types a raw cell value for staging into the change-set.
func convertValue(kind FieldKind, raw interface{}) (interface{}, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	switch kind {
	case KindDate:
		t, ok := toTime(raw)
		if !ok {
			return nil, fmt.Errorf("unparseable date %q", stringify(raw))
		}
		return t, nil
	case KindNumber:
		f, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("unparseable number %q", stringify(raw))
		}
		return f, nil
	case KindIdentifier:
		return stripIdentifier(raw), nil
	case KindObject:
		if m, ok := toMap(raw); ok {
			return m, nil
		}
		return nil, fmt.Errorf("expected object value, got %T", raw)
	default:
		return stringifyText(raw), nil
	}
}
