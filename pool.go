// Package abc implements the constant-pool subsystem of an AVM2 ABC
// codec: a deduplicating interner for ints, uints, floats, strings,
// namespaces, namespace sets, and multinames, plus a codec that reads
// and writes a pool against a tag byte stream.
package abc

import (
	"math"

	"github.com/saferwall/abc/internal/log"
)

var scalarInt32Ops = Ops[int32]{
	Hash:   func(v int32) uint32 { return uint32(v) },
	Equals: func(a, b int32) bool { return a == b },
	Clone:  func(v int32) int32 { return v },
}

var scalarUint32Ops = Ops[uint32]{
	Hash:   func(v uint32) uint32 { return v },
	Equals: func(a, b uint32) bool { return a == b },
	Clone:  func(v uint32) uint32 { return v },
}

var scalarFloat64Ops = Ops[float64]{
	Hash:   func(v float64) uint32 { return uint32(math.Float64bits(v)) },
	Equals: func(a, b float64) bool { return a == b },
	Clone:  func(v float64) float64 { return v },
}

var scalarStringOps = Ops[string]{
	Hash: func(s string) uint32 {
		var h uint32 = 2166136261
		for i := 0; i < len(s); i++ {
			h ^= uint32(s[i])
			h *= 16777619
		}
		return h
	},
	Equals: func(a, b string) bool { return a == b },
	Clone:  func(s string) string { return s },
}

// Pool is a container for the seven kind-keyed InternedArrays. Index 0
// in every array is a reserved sentinel; valid pool indices are
// 1-based (spec §3).
type Pool struct {
	Ints          *InternedArray[int32]
	Uints         *InternedArray[uint32]
	Floats        *InternedArray[float64]
	Strings       *InternedArray[string]
	Namespaces    *InternedArray[*Namespace]
	NamespaceSets *InternedArray[*NamespaceSet]
	Multinames    *InternedArray[*Multiname]

	logger *log.Helper
}

// NewPool creates an empty pool with the zeroth sentinel pre-populated
// in each array.
func NewPool() *Pool {
	return &Pool{
		Ints:          NewInternedArray(scalarInt32Ops),
		Uints:         NewInternedArray(scalarUint32Ops),
		Floats:        NewInternedArray(scalarFloat64Ops),
		Strings:       NewInternedArray(scalarStringOps),
		Namespaces:    NewInternedArray(namespaceOps),
		NamespaceSets: NewInternedArray(namespaceSetOps),
		Multinames:    NewInternedArray(multinameOps),
		logger:        log.Default(),
	}
}

// SetLogger overrides the pool's diagnostic sink.
func (p *Pool) SetLogger(logger *log.Helper) {
	p.logger = logger
}

// Clone deep-copies the pool and every array it owns, re-keying each
// hash bucket. Supplements spec.md per SPEC_FULL.md §4, grounded on
// the original's per-kind duplication used when a pool is carried
// across ABC blocks.
func (p *Pool) Clone() *Pool {
	return &Pool{
		Ints:          p.Ints.Clone(),
		Uints:         p.Uints.Clone(),
		Floats:        p.Floats.Clone(),
		Strings:       p.Strings.Clone(),
		Namespaces:    p.Namespaces.Clone(),
		NamespaceSets: p.NamespaceSets.Clone(),
		Multinames:    p.Multinames.Clone(),
		logger:        p.logger,
	}
}

// --- registration -----------------------------------------------------

// RegisterInt interns a signed integer and returns its 1-based index.
func (p *Pool) RegisterInt(v int32) int { return p.Ints.AppendIfNew(v) }

// RegisterUint interns an unsigned integer and returns its 1-based index.
func (p *Pool) RegisterUint(v uint32) int { return p.Uints.AppendIfNew(v) }

// RegisterFloat interns a float and returns its 1-based index.
func (p *Pool) RegisterFloat(v float64) int { return p.Floats.AppendIfNew(v) }

// RegisterString interns s and returns its 1-based index. An empty
// string is still a real, storable value (it is not the sentinel).
func (p *Pool) RegisterString(s string) int { return p.Strings.AppendIfNew(s) }

// RegisterNamespace interns ns and returns its 1-based index, or 0 if
// ns is nil.
func (p *Pool) RegisterNamespace(ns *Namespace) int {
	if ns == nil {
		return 0
	}
	return p.Namespaces.AppendIfNew(ns)
}

// RegisterNamespaceSet interns set and returns its 1-based index, or 0
// if set is nil.
func (p *Pool) RegisterNamespaceSet(set *NamespaceSet) int {
	if set == nil {
		return 0
	}
	return p.NamespaceSets.AppendIfNew(set)
}

// RegisterMultiname interns m and returns its 1-based index, or 0 if m
// is nil.
func (p *Pool) RegisterMultiname(m *Multiname) int {
	if m == nil {
		return 0
	}
	return p.Multinames.AppendIfNew(m)
}

// RegisterMultinameFromString parses s as "namespace::name" and interns
// the resulting QName.
func (p *Pool) RegisterMultinameFromString(s string) int {
	m := MultinameFromString(s, p.logger)
	return p.RegisterMultiname(m)
}

// --- lookup by structural value ----------------------------------------

// FindInt returns v's index, or 0 and a diagnostic if absent.
func (p *Pool) FindInt(v int32) int { return p.find("int", p.Ints.Find(v)) }

// FindUint returns v's index, or 0 and a diagnostic if absent.
func (p *Pool) FindUint(v uint32) int { return p.find("uint", p.Uints.Find(v)) }

// FindFloat returns v's index, or 0 and a diagnostic if absent.
func (p *Pool) FindFloat(v float64) int { return p.find("float", p.Floats.Find(v)) }

// FindString returns s's index, or 0 and a diagnostic if absent.
func (p *Pool) FindString(s string) int { return p.find("string", p.Strings.Find(s)) }

// FindNamespace returns ns's index, or 0 and a diagnostic if absent.
func (p *Pool) FindNamespace(ns *Namespace) int {
	if ns == nil {
		return 0
	}
	return p.find("namespace", p.Namespaces.Find(ns))
}

// FindNamespaceSet returns set's index, or 0 and a diagnostic if absent.
func (p *Pool) FindNamespaceSet(set *NamespaceSet) int {
	if set == nil {
		return 0
	}
	return p.find("namespace set", p.NamespaceSets.Find(set))
}

// FindMultiname returns m's index, or 0 and a diagnostic if absent.
func (p *Pool) FindMultiname(m *Multiname) int {
	if m == nil {
		return 0
	}
	return p.find("multiname", p.Multinames.Find(m))
}

func (p *Pool) find(kind string, index int) int {
	if index == 0 {
		logf(p.logger, "couldn't find %s in constant pool", kind)
	}
	return index
}

// --- lookup by index -----------------------------------------------------

// LookupInt returns the int stored at index; 0 for the sentinel.
func (p *Pool) LookupInt(index int) int32 { return p.Ints.Get(index) }

// LookupUint returns the uint stored at index; 0 for the sentinel.
func (p *Pool) LookupUint(index int) uint32 { return p.Uints.Get(index) }

// LookupFloat returns the float stored at index; NaN for the sentinel.
func (p *Pool) LookupFloat(index int) float64 {
	if index <= 0 || index >= p.Floats.Len() {
		return math.NaN()
	}
	return p.Floats.Get(index)
}

// LookupString returns the string stored at index; "" for the sentinel.
func (p *Pool) LookupString(index int) string { return p.Strings.Get(index) }

// LookupNamespace returns a borrowed reference to the namespace stored
// at index.
func (p *Pool) LookupNamespace(index int) *Namespace { return p.Namespaces.Get(index) }

// LookupNamespaceSet returns a borrowed reference to the namespace set
// stored at index.
func (p *Pool) LookupNamespaceSet(index int) *NamespaceSet { return p.NamespaceSets.Get(index) }

// LookupMultiname returns a borrowed reference to the multiname stored
// at index.
func (p *Pool) LookupMultiname(index int) *Multiname { return p.Multinames.Get(index) }
