package config

// SingleOrArray is a helper type for flexible customization of fields that can contain either
// a single value or a list of values, of the same original data type.
type SingleOrArray[T any] []T

// NewSingleOrArray creates SingleOrArray object.
func NewSingleOrArray[T any](v ...T) SingleOrArray[T] {
	return append([]T{}, v...)
}

// UnmarshalYAML implements yaml.Unmarshaler interface.
func (o *SingleOrArray[T]) UnmarshalYAML(unmarshal func(any) error) error {
	var ret []T
	if unmarshal(&ret) != nil {
		var s T
		if err := unmarshal(&s); err != nil {
			return err
		}
		ret = []T{s}
	}
	*o = ret
	return nil
}

// MarshalYAML implements yaml.Marshaler interface.
func (o SingleOrArray[T]) MarshalYAML() (any, error) {
	var v any
	v = []T(o)
	if len(o) == 1 {
		v = o[0]
	}
	return v, nil
}

// FieldStringArrayType is alias for the custom type used `SingleOrArray` with strings
// to handle as a single string as well as a list of strings.
type FieldStringArrayType = SingleOrArray[string]
