package profile

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
)

// Converter turns one raw response field into a typed attribute value.
//
// A converter returns (nil, nil) when the field is absent or null and
// (nil, err) when it is present but malformed. Callers treat both as an
// absent attribute.
type Converter func(v gjson.Result) (any, error)

// ErrMalformed is wrapped by every converter failure.
var ErrMalformed = errors.New("malformed attribute value")

func absent(v gjson.Result) bool {
	return !v.Exists() || v.Type == gjson.Null
}

func malformed(kind string, v gjson.Result) error {
	return fmt.Errorf("%w: want %s, got %s", ErrMalformed, kind, v.Type)
}

// String accepts JSON strings and scalars and returns their text.
func String(v gjson.Result) (any, error) {
	if absent(v) {
		return nil, nil
	}
	if v.IsObject() || v.IsArray() {
		return nil, malformed("string", v)
	}
	return v.String(), nil
}

// Boolean accepts JSON booleans and the strings "true" and "false".
func Boolean(v gjson.Result) (any, error) {
	if absent(v) {
		return nil, nil
	}
	switch v.Type {
	case gjson.True, gjson.False:
		return v.Bool(), nil
	case gjson.String:
		b, err := strconv.ParseBool(strings.TrimSpace(v.Str))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return b, nil
	}
	return nil, malformed("boolean", v)
}

func parseInt(v gjson.Result, bits int) (int64, error) {
	switch v.Type {
	case gjson.Number:
		if v.Num != math.Trunc(v.Num) {
			return 0, malformed("integer", v)
		}
		// Raw keeps full precision for 64-bit ids; exponent forms fall back to Num.
		if n, err := strconv.ParseInt(v.Raw, 10, bits); err == nil {
			return n, nil
		}
		return strconv.ParseInt(strconv.FormatFloat(v.Num, 'f', 0, 64), 10, bits)
	case gjson.String:
		return strconv.ParseInt(strings.TrimSpace(v.Str), 10, bits)
	}
	return 0, malformed("integer", v)
}

// Integer accepts JSON numbers without a fraction and numeric strings.
func Integer(v gjson.Result) (any, error) {
	if absent(v) {
		return nil, nil
	}
	n, err := parseInt(v, strconv.IntSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return int(n), nil
}

// Long is Integer widened to int64.
func Long(v gjson.Result) (any, error) {
	if absent(v) {
		return nil, nil
	}
	n, err := parseInt(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return n, nil
}

// Float accepts JSON numbers and numeric strings.
func Float(v gjson.Result) (any, error) {
	if absent(v) {
		return nil, nil
	}
	switch v.Type {
	case gjson.Number:
		return v.Num, nil
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return f, nil
	}
	return nil, malformed("number", v)
}

// Locale parses BCP 47 tags as well as the underscore form ("fr_FR") some
// providers send.
func Locale(v gjson.Result) (any, error) {
	if absent(v) {
		return nil, nil
	}
	if v.Type != gjson.String {
		return nil, malformed("locale", v)
	}
	s := strings.ReplaceAll(strings.TrimSpace(v.Str), "_", "-")
	if s == "" {
		return nil, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return tag, nil
}

// GenderOf maps provider-specific strings to a Gender. Matching ignores
// case. Unknown values map to GenderUnspecified.
func GenderOf(values map[string]Gender) Converter {
	lower := make(map[string]Gender, len(values))
	for k, g := range values {
		lower[strings.ToLower(k)] = g
	}
	return func(v gjson.Result) (any, error) {
		if absent(v) {
			return nil, nil
		}
		if v.Type != gjson.String {
			return nil, malformed("gender", v)
		}
		if g, ok := lower[strings.ToLower(strings.TrimSpace(v.Str))]; ok {
			return g, nil
		}
		return GenderUnspecified, nil
	}
}

// DefaultGender understands the "male" and "female" strings most providers use.
var DefaultGender = GenderOf(map[string]Gender{
	"male":   GenderMale,
	"female": GenderFemale,
})

// Date tries each layout in order and returns the first successful parse.
func Date(layouts ...string) Converter {
	if len(layouts) == 0 {
		layouts = []string{time.RFC3339}
	}
	return func(v gjson.Result) (any, error) {
		if absent(v) {
			return nil, nil
		}
		if v.Type != gjson.String {
			return nil, malformed("date", v)
		}
		s := strings.TrimSpace(v.Str)
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("%w: %q matches none of %d layouts", ErrMalformed, s, len(layouts))
	}
}

// UnixTime reads seconds since the epoch from a number or numeric string.
func UnixTime(v gjson.Result) (any, error) {
	n, err := Long(v)
	if n == nil || err != nil {
		return nil, err
	}
	return time.Unix(n.(int64), 0).UTC(), nil
}

// URL accepts absolute URLs only.
func URL(v gjson.Result) (any, error) {
	if absent(v) {
		return nil, nil
	}
	if v.Type != gjson.String {
		return nil, malformed("url", v)
	}
	s := strings.TrimSpace(v.Str)
	if s == "" {
		return nil, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrMalformed, s)
	}
	return u, nil
}

// ObjectOf converts a JSON object with build, which reads the sub-tree field
// by field through Fields.
func ObjectOf[T any](build func(Fields) T) Converter {
	return func(v gjson.Result) (any, error) {
		if absent(v) {
			return nil, nil
		}
		if !v.IsObject() {
			return nil, malformed("object", v)
		}
		return build(Fields{node: v}), nil
	}
}

// ListOf converts a JSON array element by element. Elements that are absent,
// malformed or not of type T are dropped.
func ListOf[T any](elem Converter) Converter {
	return func(v gjson.Result) (any, error) {
		if absent(v) {
			return nil, nil
		}
		if !v.IsArray() {
			return nil, malformed("array", v)
		}
		out := []T{}
		for _, item := range v.Array() {
			val, err := elem(item)
			if err != nil || val == nil {
				continue
			}
			if t, ok := val.(T); ok {
				out = append(out, t)
			}
		}
		return out, nil
	}
}

// Fields reads named members of a JSON object for ObjectOf builders. Every
// accessor returns the zero value for a missing or malformed member.
type Fields struct {
	node gjson.Result
}

// Value converts the named member. It returns nil when the member is absent
// or malformed.
func (f Fields) Value(name string, conv Converter) any {
	v, err := conv(f.node.Get(name))
	if err != nil {
		return nil
	}
	return v
}

func (f Fields) String(name string) string {
	s, _ := f.Value(name, String).(string)
	return s
}

func (f Fields) Bool(name string) bool {
	b, _ := f.Value(name, Boolean).(bool)
	return b
}

func (f Fields) Int(name string) int {
	n, _ := f.Value(name, Integer).(int)
	return n
}

func (f Fields) Int64(name string) int64 {
	n, _ := f.Value(name, Long).(int64)
	return n
}

func (f Fields) Float(name string) float64 {
	n, _ := f.Value(name, Float).(float64)
	return n
}

// Time converts the named member with conv, usually Date or UnixTime.
func (f Fields) Time(name string, conv Converter) time.Time {
	t, _ := f.Value(name, conv).(time.Time)
	return t
}

// URL returns the named member as an absolute URL, or nil.
func (f Fields) URL(name string) *url.URL {
	u, _ := f.Value(name, URL).(*url.URL)
	return u
}
