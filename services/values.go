package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

var errNotNumeric = errors.New("value is not numeric")

// asString renders a loosely typed flat value the way a form would have
// sent it.
func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case models.FlexString:
		return string(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// truthy treats nil, blank strings, zero numbers, false and empty lists as
// missing.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case []models.Party:
		return len(x) > 0
	case []any:
		return len(x) > 0
	}
	return strings.TrimSpace(asString(v)) != ""
}

// nonBlank is like truthy but counts a numeric zero as provided.
func nonBlank(v any) bool {
	if v == nil {
		return false
	}
	return strings.TrimSpace(asString(v)) != ""
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, errNotNumeric
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case json.Number:
		return x.Float64()
	}
	s := strings.TrimSpace(asString(v))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNotNumeric, s)
	}
	return f, nil
}

// toInt truncates floats and parses integer strings; "3.5" is an error.
func toInt(v any) (int, error) {
	switch x := v.(type) {
	case nil:
		return 0, errNotNumeric
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("%w: %v", errNotNumeric, x)
		}
		return int(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	s := strings.TrimSpace(asString(v))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNotNumeric, s)
	}
	return n, nil
}

// floatOrZero is toFloat for untrusted input that must never fail.
func floatOrZero(v any) float64 {
	if !nonBlank(v) {
		return 0
	}
	f, err := toFloat(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
