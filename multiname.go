package abc

import (
	"strconv"
	"strings"
)

// MultinameType is the wire-format type discriminant (spec §3 table).
type MultinameType byte

const (
	MultinameTypeQName       MultinameType = 0x07
	MultinameTypeQNameA      MultinameType = 0x0D
	MultinameTypeRTQName     MultinameType = 0x0F
	MultinameTypeRTQNameA    MultinameType = 0x10
	MultinameTypeRTQNameL    MultinameType = 0x11
	MultinameTypeRTQNameLA   MultinameType = 0x12
	MultinameTypeMultiname   MultinameType = 0x09
	MultinameTypeMultinameA  MultinameType = 0x0E
	MultinameTypeMultinameL  MultinameType = 0x1B
	MultinameTypeMultinameLA MultinameType = 0x1C
)

// fieldShape records which of {ns, name, namespace_set} a given type
// carries, straight from spec §3's "fields present" column.
type fieldShape struct {
	ns  bool
	nm  bool
	set bool
}

var multinameShapes = map[MultinameType]fieldShape{
	MultinameTypeQName:       {ns: true, nm: true},
	MultinameTypeQNameA:      {ns: true, nm: true},
	MultinameTypeRTQName:     {nm: true},
	MultinameTypeRTQNameA:    {nm: true},
	MultinameTypeRTQNameL:    {},
	MultinameTypeRTQNameLA:   {},
	MultinameTypeMultiname:   {nm: true, set: true},
	MultinameTypeMultinameA:  {nm: true, set: true},
	MultinameTypeMultinameL:  {set: true},
	MultinameTypeMultinameLA: {set: true},
}

func shapeFor(t MultinameType) (fieldShape, bool) {
	s, ok := multinameShapes[t]
	return s, ok
}

// Multiname is a tagged variant whose Type determines which of NS,
// Name, and Set are populated. A zero-value Name ("") on a type whose
// shape includes the name field denotes the wildcard "any name";
// absent fields on other types are simply left at their zero value.
type Multiname struct {
	Type MultinameType
	NS   *Namespace
	Name string
	Set  *NamespaceSet
}

// LateNamespace reports whether the namespace is runtime-resolved.
func (m *Multiname) LateNamespace() bool {
	switch m.Type {
	case MultinameTypeRTQName, MultinameTypeRTQNameA, MultinameTypeRTQNameL, MultinameTypeRTQNameLA:
		return true
	default:
		return false
	}
}

// LateName reports whether the local name is runtime-resolved.
func (m *Multiname) LateName() bool {
	switch m.Type {
	case MultinameTypeRTQNameL, MultinameTypeRTQNameLA, MultinameTypeMultinameL, MultinameTypeMultinameLA:
		return true
	default:
		return false
	}
}

// IsAnyName reports whether the multiname's local name is the
// wildcard, mirroring the original pool_read/pool_write's repeated
// "name_index == 0 means *" check.
func (m *Multiname) IsAnyName() bool {
	shape, ok := shapeFor(m.Type)
	return !ok || !shape.nm || m.Name == ""
}

var multinameOps = Ops[*Multiname]{
	Hash:   multinameHash,
	Equals: multinameEquals,
	Clone:  multinameClone,
}

func multinameHash(m *Multiname) uint32 {
	if m == nil {
		return 0
	}
	shape, _ := shapeFor(m.Type)
	h := uint32(m.Type)
	if shape.nm {
		for i := 0; i < len(m.Name); i++ {
			h = h*31 + uint32(m.Name[i])
		}
	}
	if shape.ns {
		h = h*31 + namespaceHash(m.NS)
	}
	if shape.set {
		h = h*31 + namespaceSetHash(m.Set)
	}
	return h
}

func multinameEquals(a, b *Multiname) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type {
		return false
	}
	shape, ok := shapeFor(a.Type)
	if !ok {
		return true // unknown-type entries compare equal on type alone
	}
	if shape.nm && a.Name != b.Name {
		return false
	}
	if shape.ns && !namespaceEquals(a.NS, b.NS) {
		return false
	}
	if shape.set && !namespaceSetEquals(a.Set, b.Set) {
		return false
	}
	return true
}

func multinameClone(m *Multiname) *Multiname {
	if m == nil {
		return nil
	}
	return &Multiname{
		Type: m.Type,
		NS:   namespaceClone(m.NS),
		Name: m.Name,
		Set:  namespaceSetClone(m.Set),
	}
}

// String renders a diagnostic representation of m, e.g.
// "<q>[package]flash.display::Sprite".
func (m *Multiname) String() string {
	if m == nil {
		return "NULL"
	}
	name := "*"
	if !m.IsAnyName() {
		name = EscapeString(m.Name)
	}
	switch m.Type {
	case MultinameTypeQName, MultinameTypeQNameA:
		attr := ""
		if m.Type == MultinameTypeQNameA {
			attr = ",attr"
		}
		return "<q" + attr + ">" + m.NS.String() + "::" + name
	case MultinameTypeRTQName, MultinameTypeRTQNameA:
		attr := ""
		if m.Type == MultinameTypeRTQNameA {
			attr = ",attr"
		}
		return "<rt" + attr + ">" + name
	case MultinameTypeRTQNameL, MultinameTypeRTQNameLA:
		return "<rtl>"
	case MultinameTypeMultiname, MultinameTypeMultinameA:
		return "<multi>" + m.Set.String() + "::" + name
	case MultinameTypeMultinameL, MultinameTypeMultinameLA:
		return "<multil>" + m.Set.String()
	default:
		return "<multiname type=" + strconv.Itoa(int(m.Type)) + ">"
	}
}

// MultinameFromString parses "namespace::name", splitting on the first
// "::". No "::" (and no stray ':') yields an empty-string namespace and
// the whole input as name. A stray ':' is reported but not fatal. The
// result is always a QName.
func MultinameFromString(s string, logger diagnosticSink) *Multiname {
	ns, name, found := strings.Cut(s, "::")
	if !found {
		if strings.Contains(s, ":") {
			logf(logger, "single ':' in name %q", s)
		}
		return &Multiname{
			Type: MultinameTypeQName,
			NS:   NamespaceFromString("", logger),
			Name: s,
		}
	}
	if strings.Contains(ns, ":") {
		logf(logger, "single ':' in namespace %q", ns)
	}
	if strings.Contains(name, ":") {
		logf(logger, "single ':' in qualified name %q", name)
	}
	return &Multiname{
		Type: MultinameTypeQName,
		NS:   NamespaceFromString(ns, logger),
		Name: name,
	}
}
