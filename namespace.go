package abc

import (
	"hash/crc32"
	"strconv"
	"strings"
)

// AccessKind classifies a Namespace's visibility. The byte values are
// wire-format constants straight from the ABC spec.
type AccessKind byte

const (
	AccessPrivate         AccessKind = 0x05
	Access08              AccessKind = 0x08 // historical "public/undefined"
	AccessPackage         AccessKind = 0x16
	AccessPackageInternal AccessKind = 0x17
	AccessProtected       AccessKind = 0x18
	AccessExplicit        AccessKind = 0x19
	AccessStaticProtected AccessKind = 0x1A
)

// accessLabels is the access-byte <-> diagnostic-label table from
// pool.c's access2str/namespace_fromstring.
var accessLabels = map[AccessKind]string{
	AccessPrivate:         "private",
	Access08:              "access08",
	AccessPackage:         "package",
	AccessPackageInternal: "packageinternal",
	AccessProtected:       "protected",
	AccessExplicit:        "explicit",
	AccessStaticProtected: "staticprotected",
}

var labelToAccess = func() map[string]AccessKind {
	m := make(map[string]AccessKind, len(accessLabels))
	for k, v := range accessLabels {
		m[v] = k
	}
	return m
}()

// AccessLabel returns the diagnostic label for access, or "undefined"
// if access is not one of the seven known kinds.
func AccessLabel(access AccessKind) string {
	if l, ok := accessLabels[access]; ok {
		return l
	}
	return "undefined"
}

// Namespace is an access-qualified naming scope. Name is present
// (non-empty) only when the namespace is not anonymous; an absent name
// round-trips as the empty string, matching spec §3.
type Namespace struct {
	Access AccessKind
	Name   string
}

// IsAny reports whether the namespace carries no name, the same
// "name_idx == 0" condition the original pool_read/pool_write check
// before resolving a namespace's name string.
func (n *Namespace) IsAny() bool {
	return n == nil || n.Name == ""
}

// namespaceOps is the InternedArray capability set for *Namespace.
var namespaceOps = Ops[*Namespace]{
	Hash:   namespaceHash,
	Equals: namespaceEquals,
	Clone:  namespaceClone,
}

// namespaceHash mixes the access byte then rolls a CRC-32 over the
// name bytes, per spec §4.2.
func namespaceHash(n *Namespace) uint32 {
	if n == nil {
		return 0
	}
	h := crc32.NewIEEE()
	h.Write([]byte{byte(n.Access)})
	if n.Name != "" {
		h.Write([]byte(n.Name))
	}
	return h.Sum32()
}

func namespaceEquals(a, b *Namespace) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Access == b.Access && a.Name == b.Name
}

func namespaceClone(n *Namespace) *Namespace {
	if n == nil {
		return nil
	}
	cp := *n
	return &cp
}

// String renders "[<access-label>]<escaped-name>".
func (n *Namespace) String() string {
	if n == nil {
		return "NULL"
	}
	return "[" + AccessLabel(n.Access) + "]" + EscapeString(n.Name)
}

// NamespaceFromString parses "[<label>]<name>"; a leading character
// other than '[' yields access=package with the entire input as name.
// An unrecognized label is reported through logger and yields nil.
func NamespaceFromString(s string, logger diagnosticSink) *Namespace {
	if !strings.HasPrefix(s, "[") {
		return &Namespace{Access: AccessPackage, Name: s}
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return &Namespace{Access: AccessPackage, Name: s}
	}
	label := s[1:end]
	name := s[end+1:]
	access, ok := labelToAccess[label]
	if !ok {
		logf(logger, "undefined access label: %q", label)
		return nil
	}
	return &Namespace{Access: access, Name: name}
}

// EscapeString escapes bytes < 32 and >= 127 as \d, \dd, \xhh, with
// \n, \r, \t special-cased, per spec §4.2 and table entry 5.
func EscapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 10:
			b.WriteByte('\\')
			b.WriteString(strconv.Itoa(int(c)))
		case c < 32:
			b.WriteByte('\\')
			b.WriteString(strconv.Itoa(int(c)))
		case c < 127:
			b.WriteByte(c)
		default:
			b.WriteString(`\x`)
			const hexDigits = "0123456789abcdef"
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xf])
		}
	}
	return b.String()
}
