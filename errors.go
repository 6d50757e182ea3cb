package accessible

import "errors"

// Sentinel errors for compile failures. All of them indicate a programming or
// schema-drift error rather than a transient condition: the compiler fails
// fast and never retries. Callers should surface these as configuration
// errors, not as per-request denials.
//
// Use the Is*Err helpers (or errors.Is) to classify a wrapped error.
var (
	// ErrSchemaMismatch is returned when a condition references a relation or
	// attribute that does not exist on the resolved entity type.
	ErrSchemaMismatch = errors.New("accessible: condition references unknown attribute or relation")

	// ErrInvalidEnumValue is returned when a condition on an
	// enumeration-valued attribute uses a symbolic value with no stored
	// representation.
	ErrInvalidEnumValue = errors.New("accessible: enum value has no stored representation")

	// ErrMalformedCondition is returned when a condition value is neither a
	// scalar, an enumerable, nor a nested condition tree. Well-formed rule
	// engines never produce such trees.
	ErrMalformedCondition = errors.New("accessible: condition value is not a scalar, slice, or nested tree")
)

// IsSchemaMismatchErr returns true if err is or wraps ErrSchemaMismatch.
func IsSchemaMismatchErr(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}

// IsInvalidEnumValueErr returns true if err is or wraps ErrInvalidEnumValue.
func IsInvalidEnumValueErr(err error) bool {
	return errors.Is(err, ErrInvalidEnumValue)
}

// IsMalformedConditionErr returns true if err is or wraps ErrMalformedCondition.
func IsMalformedConditionErr(err error) bool {
	return errors.Is(err, ErrMalformedCondition)
}
