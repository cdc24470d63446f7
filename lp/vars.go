package lp

import "fmt"

// Key is a tuple of entity labels usable both as a map key and as a variable name suffix.
type Key interface {
	comparable
	String() string
}

// Vars is a family of variables indexed by K, e.g. order[supplier,material,factory].
type Vars[K Key] struct {
	prefix string
	keys   []K
	byKey  map[K]Var
}

// NewVars registers one variable per key, in key order, named "prefix[key]".
// keys is expected to be a cartesian product of sorted entity sets.
//
// Errors: ErrDuplicateVar (repeated key or name clash), ErrInvalidBounds.
func NewVars[K Key](m *Model, prefix string, keys []K, d Domain) (*Vars[K], error) {
	vs := &Vars[K]{
		prefix: prefix,
		keys:   make([]K, 0, len(keys)),
		byKey:  make(map[K]Var, len(keys)),
	}
	for _, k := range keys {
		v, err := m.NewVar(fmt.Sprintf("%s[%s]", prefix, k), d)
		if err != nil {
			return nil, err
		}
		vs.keys = append(vs.keys, k)
		vs.byKey[k] = v
	}
	return vs, nil
}

// Get returns the variable for k.
func (vs *Vars[K]) Get(k K) (Var, bool) {
	v, ok := vs.byKey[k]
	return v, ok
}

// At returns the variable for k and panics when k was not part of the product.
// Scenario code only asks for keys it built the family from.
func (vs *Vars[K]) At(k K) Var {
	v, ok := vs.byKey[k]
	if !ok {
		panic(fmt.Sprintf("lp: %s has no variable for key %s", vs.prefix, k))
	}
	return v
}

// Keys returns the keys in creation order.
func (vs *Vars[K]) Keys() []K {
	out := make([]K, len(vs.keys))
	copy(out, vs.keys)
	return out
}

// Len returns the family size.
func (vs *Vars[K]) Len() int { return len(vs.keys) }

// Prefix returns the family name.
func (vs *Vars[K]) Prefix() string { return vs.prefix }
