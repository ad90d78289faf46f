package core

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// tick is the service's time unit: 100 nanoseconds.
const tick = 100 * time.Nanosecond

const ticksPerSecond = int64(time.Second / tick)

var jsonNull = []byte("null")

// Coerce converts one raw wire cell into the typed value its column
// declares. It is total over the declared type domain: an unknown tag
// degrades to the string representation rather than failing, and a
// dynamic cell never errors. Null cells coerce to the type's canonical
// absence - the empty string for string and guid, untyped nil otherwise.
func Coerce(raw json.RawMessage, tag TypeTag) (any, error) {
	switch tag {
	case TypeBool:
		return coerceBool(raw)
	case TypeInt32:
		return coerceInt(raw, 32)
	case TypeInt64:
		return coerceInt(raw, 64)
	case TypeReal:
		return coerceReal(raw)
	case TypeDecimal:
		return coerceDecimal(raw)
	case TypeString:
		return coerceString(raw)
	case TypeDateTime:
		return coerceDateTime(raw)
	case TypeTimespan:
		return coerceTimespan(raw)
	case TypeGUID:
		return coerceGUID(raw)
	case TypeDynamic:
		return coerceDynamic(raw), nil
	default:
		return coerceFallback(raw), nil
	}
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

func coerceBool(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, nil
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("bool cell: %w", err)
	}
	return v, nil
}

func coerceInt(raw json.RawMessage, bits int) (any, error) {
	if isNull(raw) {
		return nil, nil
	}
	text, err := numericText(raw)
	if err != nil {
		return nil, fmt.Errorf("int%d cell: %w", bits, err)
	}
	i, err := strconv.ParseInt(text, 10, bits)
	if err != nil {
		return nil, fmt.Errorf("int%d cell: %w", bits, err)
	}
	if bits == 32 {
		return int32(i), nil
	}
	return i, nil
}

func coerceReal(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, nil
	}
	// NaN and the infinities travel as literal string tokens
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("real cell: %w", err)
		}
		switch s {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("real cell: %w", err)
		}
		return f, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("real cell: %w", err)
	}
	return f, nil
}

func coerceDecimal(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, nil
	}
	text, err := numericText(raw)
	if err != nil {
		return nil, fmt.Errorf("decimal cell: %w", err)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil, fmt.Errorf("decimal cell: %w", err)
	}
	return d, nil
}

func coerceString(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("string cell: %w", err)
	}
	return s, nil
}

func coerceDateTime(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("datetime cell: %w", err)
	}
	// RFC3339Nano keeps the sub-second digits, so tick precision survives
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, fmt.Errorf("datetime cell: %w", err)
	}
	return t.UTC(), nil
}

func coerceTimespan(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("timespan cell: %w", err)
		}
		d, err := ParseTimespan(s)
		if err != nil {
			return nil, fmt.Errorf("timespan cell: %w", err)
		}
		return d, nil
	}
	// raw integer tick form
	text, err := numericText(raw)
	if err != nil {
		return nil, fmt.Errorf("timespan cell: %w", err)
	}
	ticks, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("timespan cell: %w", err)
	}
	return time.Duration(ticks) * tick, nil
}

func coerceGUID(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("guid cell: %w", err)
	}
	if s == "" {
		return "", nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("guid cell: %w", err)
	}
	// canonical lowercase hyphenated form
	return u.String(), nil
}

// coerceDynamic never fails. The two missing-data conditions of the wire
// format stay distinguishable: an explicit JSON null nested in otherwise
// present data yields nil, while a column-absent slot arrives as an empty
// string and stays "". A JSON string keeps its text verbatim even when
// that text happens to be valid JSON - the source column typed it as a
// string. Anything unparseable degrades to the raw text.
func coerceDynamic(raw json.RawMessage) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
		return string(raw)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	return normalizeNumbers(v)
}

// coerceFallback is the unknown-tag path: the string representation of
// whatever arrived, so a single unrecognized column cannot fail the
// whole response.
func coerceFallback(raw json.RawMessage) any {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// normalizeNumbers rewrites json.Number leaves into int64 where they fit
// and float64 otherwise.
func normalizeNumbers(v any) any {
	switch vv := v.(type) {
	case json.Number:
		if i, err := vv.Int64(); err == nil {
			return i
		}
		if f, err := vv.Float64(); err == nil {
			return f
		}
		return vv.String()
	case map[string]any:
		for k, e := range vv {
			vv[k] = normalizeNumbers(e)
		}
		return vv
	case []any:
		for i, e := range vv {
			vv[i] = normalizeNumbers(e)
		}
		return vv
	default:
		return v
	}
}

// numericText accepts a bare number token or its quoted form.
func numericText(raw json.RawMessage) (string, error) {
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// ParseTimespan parses the textual duration form [-][d.]hh:mm:ss[.fffffff],
// where the fractional part counts ticks.
func ParseTimespan(s string) (time.Duration, error) {
	orig := s
	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	var days int64
	firstColon := strings.IndexByte(s, ':')
	if firstColon < 0 {
		return 0, fmt.Errorf("invalid timespan %q", orig)
	}
	if dot := strings.IndexByte(s[:firstColon], '.'); dot >= 0 {
		d, err := strconv.ParseInt(s[:dot], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timespan %q: %w", orig, err)
		}
		days = d
		s = s[dot+1:]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timespan %q", orig)
	}
	hours, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timespan %q: %w", orig, err)
	}
	minutes, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timespan %q: %w", orig, err)
	}

	secondsPart := parts[2]
	var fracTicks int64
	if dot := strings.IndexByte(secondsPart, '.'); dot >= 0 {
		frac := secondsPart[dot+1:]
		secondsPart = secondsPart[:dot]
		if len(frac) > 7 {
			frac = frac[:7]
		}
		for len(frac) < 7 {
			frac += "0"
		}
		fracTicks, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timespan %q: %w", orig, err)
		}
	}
	seconds, err := strconv.ParseInt(secondsPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timespan %q: %w", orig, err)
	}

	totalTicks := (((days*24+hours)*60+minutes)*60+seconds)*ticksPerSecond + fracTicks
	d := time.Duration(totalTicks) * tick
	if negative {
		d = -d
	}
	return d, nil
}
