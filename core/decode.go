package core

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// Decodable lists the payload shapes the decode pipeline accepts.
type Decodable interface {
	User | Group | Event | RSVP | []Group | []Event | []RSVP
}

// DecodeFault is a response body that does not match the expected shape.
type DecodeFault struct {
	Target      string
	Description string
}

func (f *DecodeFault) Error() string {
	return fmt.Sprintf("core: decode %s: %s", f.Target, f.Description)
}

var validate = newDecodeValidator()

func newDecodeValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		ts, ok := field.Interface().(Timestamp)
		if !ok || ts.IsZero() {
			return nil
		}
		// The epoch instant is a present value.
		return true
	}, Timestamp{})
	return v
}

// Decode converts a JSON payload into T. Dates are epoch milliseconds. A
// missing required field or a mismatched shape yields a *DecodeFault.
func Decode[T Decodable](data []byte) (T, error) {
	var out T
	target := reflect.TypeOf(out).String()

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return out, &DecodeFault{Target: target, Description: "response body is empty"}
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return out, &DecodeFault{Target: target, Description: "response body is null"}
	}

	if mismatch := checkTopLevelShape(reflect.TypeOf(out), trimmed[0]); mismatch != "" {
		return out, &DecodeFault{Target: target, Description: mismatch}
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		var zero T
		return zero, &DecodeFault{Target: target, Description: describeJSONError(err)}
	}
	if err := validateDecoded(out); err != nil {
		var zero T
		return zero, &DecodeFault{Target: target, Description: err.Error()}
	}
	return out, nil
}

func validateDecoded(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return describeValidation(validate.Struct(value), -1)
	}
	for index := 0; index < rv.Len(); index++ {
		if err := describeValidation(validate.Struct(rv.Index(index).Interface()), index); err != nil {
			return err
		}
	}
	return nil
}

func describeValidation(err error, index int) error {
	if err == nil {
		return nil
	}
	prefix := ""
	if index >= 0 {
		prefix = fmt.Sprintf("item %d: ", index)
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return fmt.Errorf("%sinvalid record", prefix)
	}
	first := fieldErrors[0]
	field := fieldPath(first.Namespace())
	if first.Tag() == "required" {
		return fmt.Errorf("%sfield %q is required", prefix, field)
	}
	return fmt.Errorf("%sfield %q failed %q check", prefix, field, first.Tag())
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func describeJSONError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := strings.TrimSpace(typeErr.Field)
		if field == "" {
			return fmt.Sprintf("expected %s but found %s", describeKind(typeErr.Type), typeErr.Value)
		}
		return fmt.Sprintf("field %q expected %s but found %s", field, describeKind(typeErr.Type), typeErr.Value)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("response body is malformed at offset %d", syntaxErr.Offset)
	}
	msg := err.Error()
	if strings.Contains(msg, "milliseconds since epoch") {
		return "date field is not integer milliseconds since epoch"
	}
	return "response body does not match the expected shape"
}

// checkTopLevelShape compares the first JSON token with the target kind so a
// list where an object is expected reads as a shape error, not a syntax one.
func checkTopLevelShape(t reflect.Type, first byte) string {
	var want byte = '{'
	if t.Kind() == reflect.Slice {
		want = '['
	}
	if first == want {
		return ""
	}
	return fmt.Sprintf("expected %s but found %s", describeKind(t), describeToken(first))
}

func describeToken(first byte) string {
	switch {
	case first == '{':
		return "an object"
	case first == '[':
		return "an array"
	case first == '"':
		return "a string"
	case first == 't' || first == 'f':
		return "a boolean"
	case first == '-' || (first >= '0' && first <= '9'):
		return "a number"
	default:
		return "invalid JSON"
	}
}

func describeKind(t reflect.Type) string {
	if t == nil {
		return "a value"
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map:
		return "an object"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	default:
		return t.String()
	}
}
