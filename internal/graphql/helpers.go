package graphql

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/vektah/gqlparser/v2/ast"
)

var errInvalidArgument = errors.New("invalid argument")

// arguments reads field arguments, resolving variables.
type arguments struct {
	field *ast.Field
	vars  map[string]any
}

// argSpec reads one argument into a destination.
type argSpec func(a arguments) error

// value returns the argument value, or nil when absent or null.
func (a arguments) value(name string) (any, error) {
	arg := a.field.Arguments.ForName(name)
	if arg == nil || arg.Value == nil {
		return nil, nil
	}
	v, err := arg.Value.Value(a.vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errInvalidArgument, name, err)
	}
	return v, nil
}

// optional returns the argument as an identifier string, "" when absent.
func (a arguments) optional(name string) (string, error) {
	v, err := a.value(name)
	if err != nil || v == nil {
		return "", err
	}
	s, err := toIdentifier(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", errInvalidArgument, name, err)
	}
	return s, nil
}

func (a arguments) collect(specs ...argSpec) error {
	for _, spec := range specs {
		if err := spec(a); err != nil {
			return err
		}
	}
	return nil
}

func optionalArg(name string, dst *string) argSpec {
	return func(a arguments) error {
		s, err := a.optional(name)
		if err != nil {
			return err
		}
		*dst = s
		return nil
	}
}

func requiredArg(name string, dst *string) argSpec {
	return func(a arguments) error {
		v, err := a.value(name)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("%w: %s is required", errInvalidArgument, name)
		}
		s, err := toIdentifier(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", errInvalidArgument, name, err)
		}
		*dst = s
		return nil
	}
}

func intArg(name string, dst *int) argSpec {
	return func(a arguments) error {
		v, err := a.value(name)
		if err != nil || v == nil {
			return err
		}
		n, err := toInt(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", errInvalidArgument, name, err)
		}
		*dst = n
		return nil
	}
}

// toIdentifier accepts ids given either as GraphQL strings or numbers.
func toIdentifier(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		if x == math.Trunc(x) {
			return strconv.FormatInt(int64(x), 10), nil
		}
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case json.Number:
		return x.String(), nil
	default:
		return "", fmt.Errorf("expected string or number, got %T", v)
	}
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("expected integer, got %v", x)
		}
		return int(x), nil
	case string:
		return strconv.Atoi(x)
	case json.Number:
		n, err := x.Int64()
		return int(n), err
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}
