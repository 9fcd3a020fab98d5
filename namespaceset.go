package abc

import "github.com/samber/lo"

// NamespaceSet is an ordered sequence of namespaces. Order is
// preserved on the wire and equality is order-sensitive (spec §3, §9:
// the canonicalizing/order-insensitive variant is permitted only as
// an optimization that updates hash and equals in lockstep together —
// not done here).
type NamespaceSet struct {
	Namespaces []*Namespace
}

var namespaceSetOps = Ops[*NamespaceSet]{
	Hash:   namespaceSetHash,
	Equals: namespaceSetEquals,
	Clone:  namespaceSetClone,
}

// namespaceSetHash folds over the contained namespaces in order,
// mixing each one's access and name (spec §4.3).
func namespaceSetHash(s *NamespaceSet) uint32 {
	if s == nil {
		return 0
	}
	var h uint32
	for _, ns := range s.Namespaces {
		h = h*31 + namespaceHash(ns)
	}
	return h
}

func namespaceSetEquals(a, b *NamespaceSet) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Namespaces) != len(b.Namespaces) {
		return false
	}
	indices := lo.Range(len(a.Namespaces))
	return lo.EveryBy(indices, func(i int) bool {
		return namespaceEquals(a.Namespaces[i], b.Namespaces[i])
	})
}

func namespaceSetClone(s *NamespaceSet) *NamespaceSet {
	if s == nil {
		return nil
	}
	return &NamespaceSet{
		Namespaces: lo.Map(s.Namespaces, func(ns *Namespace, _ int) *Namespace {
			return namespaceClone(ns)
		}),
	}
}

// String renders the set as "{ns1, ns2, ...}" for diagnostics.
func (s *NamespaceSet) String() string {
	if s == nil {
		return "NULL"
	}
	parts := lo.Map(s.Namespaces, func(ns *Namespace, _ int) string {
		return ns.String()
	})
	out := "{"
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out + "}"
}
