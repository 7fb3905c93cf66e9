package types

import "strconv"

// ToInt64 converts an interface{} to int64.
// Supports int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, and float64.
func ToInt64(v interface{}) int64 {
	switch i := v.(type) {
	case int64:
		return i
	case int:
		return int64(i)
	case int32:
		return int64(i)
	case int16:
		return int64(i)
	case int8:
		return int64(i)
	case uint:
		return int64(i)
	case uint64:
		return int64(i)
	case uint32:
		return int64(i)
	case uint16:
		return int64(i)
	case uint8:
		return int64(i)
	case float64:
		return int64(i)
	case float32:
		return int64(i)
	case []byte:
		n, _ := strconv.ParseInt(string(i), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(i, 10, 64)
		return n
	default:
		return 0
	}
}

// ToFloat64 converts an interface{} to float64. The MySQL driver returns
// aggregate results as []byte, so numeric text is parsed as well.
func ToFloat64(v interface{}) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	case int64:
		return float64(f), true
	case int:
		return float64(f), true
	case int32:
		return float64(f), true
	case uint64:
		return float64(f), true
	case []byte:
		parsed, err := strconv.ParseFloat(string(f), 64)
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseFloat(f, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

// NormalizeValue converts driver-specific scan results into plain Go
// values: []byte becomes string, everything else passes through.
func NormalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
