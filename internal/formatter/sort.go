package formatter

import (
	"sort"

	"github.com/mcncl/tidyjson/internal/value"
)

// SortKeys returns a copy of v with keys in ascending order. Top-level keys
// and the keys of maps held directly under them are sorted; deeper maps are
// left as they are. A sequence is sorted only when every element is a map:
// each element is key-sorted, then the elements are ordered by their first
// key. Anything else, including empty containers, comes back unchanged.
func SortKeys(v value.Value) value.Value {
	switch {
	case v.IsMap() && v.Len() > 0:
		return value.FromMap(sortMap(v.MapValue(), 2))

	case v.IsSeq() && v.Len() > 0:
		elems := v.Elems()
		for _, e := range elems {
			if !e.IsMap() {
				return v
			}
		}

		sorted := make([]*value.Map, len(elems))
		for i, e := range elems {
			sorted[i] = sortMap(e.MapValue(), 2)
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			return firstKey(sorted[i]) < firstKey(sorted[j])
		})

		out := make([]value.Value, len(sorted))
		for i, m := range sorted {
			out[i] = value.FromMap(m)
		}
		return value.Seq(out...)
	}
	return v
}

// sortMap sorts the keys of m and of its map values, levels deep
func sortMap(m *value.Map, levels int) *value.Map {
	keys := m.Keys()
	sort.Strings(keys)

	out := value.NewMap()
	for _, k := range keys {
		v, _ := m.Get(k)
		if v.IsMap() && levels > 1 {
			out.Set(k, value.FromMap(sortMap(v.MapValue(), levels-1)))
			continue
		}
		out.Set(k, v.Clone())
	}
	return out
}

func firstKey(m *value.Map) string {
	if keys := m.Keys(); len(keys) > 0 {
		return keys[0]
	}
	return ""
}
