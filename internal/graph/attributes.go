package graph

import "time"

// Attributes holds the scalar fields of a node. Absent keys are absent
// scalars; the synchronizer fills documented defaults for them.
type Attributes map[string]any

// String returns a string attribute.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a[key].(string)
	return v, ok
}

// Bool returns a boolean attribute.
func (a Attributes) Bool(key string) (bool, bool) {
	v, ok := a[key].(bool)
	return v, ok
}

// Time returns a time attribute.
func (a Attributes) Time(key string) (time.Time, bool) {
	v, ok := a[key].(time.Time)
	return v, ok
}

// Float returns a float attribute.
func (a Attributes) Float(key string) (float64, bool) {
	v, ok := a[key].(float64)
	return v, ok
}

// Clone returns a copy of the map. Values are immutable scalars.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return Attributes{}
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
