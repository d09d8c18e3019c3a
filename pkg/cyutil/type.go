package cyutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/fj1981/durakit/pkg/cydur"
	"github.com/spf13/cast"
)

var (
	ErrNegative = errors.New("cyutil: negative value")
	ErrOverflow = errors.New("cyutil: value does not fit in 64 bits")
)

// ToUint64 converts v to an unsigned count for the cydur formatters.
//
// Strings may use '_' digit separators ("6_000_000"). A *big.Int is narrowed
// with cydur.Narrow, keeping only its low 64 bits; strings that do not fit
// are rejected with ErrOverflow instead. A time.Duration yields nanoseconds.
// Other kinds go through cast, so floats truncate toward zero.
func ToUint64(v any) (uint64, error) {
	switch x := v.(type) {
	case nil:
		return 0, errors.New("cyutil: nil value")
	case uint64:
		return x, nil
	case uint:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case uint16:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	case uintptr:
		return uint64(x), nil
	case int, int64, int32, int16, int8:
		n := cast.ToInt64(x)
		if n < 0 {
			return 0, fmt.Errorf("%w: %d", ErrNegative, n)
		}
		return uint64(n), nil
	case time.Duration:
		if x < 0 {
			return 0, fmt.Errorf("%w: %s", ErrNegative, x)
		}
		return uint64(x), nil
	case *big.Int:
		if x == nil {
			return 0, errors.New("cyutil: nil value")
		}
		if x.Sign() < 0 {
			return 0, fmt.Errorf("%w: %s", ErrNegative, x)
		}
		return cydur.Narrow(x), nil
	case json.Number:
		return parseUint(string(x))
	case string:
		return parseUint(x)
	}

	if f, err := cast.ToFloat64E(v); err == nil && f < 0 {
		return 0, fmt.Errorf("%w: %v", ErrNegative, v)
	}
	n, err := cast.ToUint64E(v)
	if err != nil {
		return 0, fmt.Errorf("cyutil: %w", err)
	}
	return n, nil
}

func parseUint(s string) (uint64, error) {
	digits := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if strings.HasPrefix(digits, "-") {
		return 0, fmt.Errorf("%w: %q", ErrNegative, s)
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(digits, "+"), 10, 64)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return 0, fmt.Errorf("cyutil: invalid unsigned integer %q", s)
}

// ToStr renders value for logs and messages. Maps and slices are rendered as
// JSON, anything cast cannot handle falls back to %v.
func ToStr(value any) string {
	if value == nil {
		return ""
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Map, reflect.Slice:
		if raw, ok := value.([]byte); ok {
			return string(raw)
		}
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(b)
	}
	v, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return v
}
