package aggregate

import "context"

// OrderedMap holds one value per key and remembers the order keys were first inserted.
type OrderedMap[K comparable, V any] struct {
	index  map[K]*V
	keys   []K
	values []*V
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{index: make(map[K]*V)}
}

// Upsert returns the value stored under key, creating it with init on first sight.
func (m *OrderedMap[K, V]) Upsert(key K, init func() V) *V {
	if v, ok := m.index[key]; ok {
		return v
	}
	v := new(V)
	*v = init()
	m.index[key] = v
	m.keys = append(m.keys, key)
	m.values = append(m.values, v)
	return v
}

func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	if v, ok := m.index[key]; ok {
		return *v, true
	}
	var zero V
	return zero, false
}

func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

func (m *OrderedMap[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns copies of the stored values in first-insertion order.
func (m *OrderedMap[K, V]) Values() []V {
	out := make([]V, 0, len(m.values))
	for _, v := range m.values {
		out = append(out, *v)
	}
	return out
}

// OrderedSet is a set-union accumulator keyed by identity. The first value added under a key
// wins; later values with the same key are ignored even if their other fields differ.
type OrderedSet[K comparable, V any] struct {
	m *OrderedMap[K, V]
}

func NewOrderedSet[K comparable, V any]() *OrderedSet[K, V] {
	return &OrderedSet[K, V]{m: NewOrderedMap[K, V]()}
}

// Add inserts v under key and reports whether key was new.
func (s *OrderedSet[K, V]) Add(key K, v V) bool {
	added := false
	s.m.Upsert(key, func() V {
		added = true
		return v
	})
	return added
}

func (s *OrderedSet[K, V]) Len() int {
	return s.m.Len()
}

func (s *OrderedSet[K, V]) Values() []V {
	return s.m.Values()
}

// GroupBy folds rows into one accumulator per key. Groups come out in the order their key was
// first seen. init builds the accumulator from the first row of a group (first-seen fields);
// fold then runs for every row of the group, including the first.
func GroupBy[In any, K comparable, Acc any](
	ctx context.Context,
	rows []In,
	key func(In) K,
	init func(In) Acc,
	fold func(*Acc, In),
) ([]Acc, error) {
	groups := NewOrderedMap[K, Acc]()
	for i, row := range rows {
		if err := poll(ctx, i); err != nil {
			return nil, err
		}
		acc := groups.Upsert(key(row), func() Acc { return init(row) })
		fold(acc, row)
	}
	return groups.Values(), nil
}
