package form

// Transform maps a field's stored value to the Value committed at save
// time. It declares its output kind through the Value it constructs, must
// be pure, and never mutates the stored value: a field's value stays
// untransformed in both the field and the form's raw snapshot.
type Transform[T any] func(value T) Value
