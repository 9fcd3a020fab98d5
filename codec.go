package abc

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/saferwall/abc/internal/log"
	"github.com/saferwall/abc/tagio"
)

// ErrMissingIndexOnWrite is the fatal, programming-error-class failure
// raised when the write closure phase should have registered an index
// but find comes up empty (spec §7: MissingIndexOnWrite is "treated as
// a programming error").
var ErrMissingIndexOnWrite = errors.New("abc: missing index on write, closure phase invariant broken")

// Options configures a Codec. The zero value is ready to use.
type Options struct {
	// Logger receives recoverable diagnostics (spec §7). Defaults to
	// internal/log's error-level stderr logger.
	Logger log.Logger

	// StrictMultinameTypes, when true, makes an unrecognized multiname
	// type byte abort Read instead of being logged and appended as a
	// type-only entry (spec §7's default policy).
	StrictMultinameTypes bool

	// StubFloats, when true, reproduces the original swftools writer's
	// lossy "always emit 0.0" stub instead of the stored double value,
	// for compatibility testing against historical tool output. The
	// zero value (false) is the faithful, corrected behavior: Write
	// emits the pool's actual stored doubles. Per SPEC_FULL.md §4 and
	// spec §9.
	StubFloats bool
}

// Codec reads and writes a Pool against a tagio byte stream.
type Codec struct {
	opts   Options
	logger *log.Helper
}

// NewCodec builds a Codec. A zero Options uses the faithful
// (StubFloats=false) float behavior and the default stderr logger.
func NewCodec(opts Options) *Codec {
	c := &Codec{opts: opts}
	if opts.Logger != nil {
		c.logger = log.NewHelper(opts.Logger)
	} else {
		c.logger = log.Default()
	}
	return c
}

// DefaultCodec returns a Codec configured with spec-faithful defaults:
// recoverable diagnostics logged, unknown multiname types tolerated,
// and float payloads preserved.
func DefaultCodec() *Codec {
	return NewCodec(Options{})
}

// Read parses a constant pool from r into pool, following the fixed
// order in spec §4.6: ints, uints, floats, strings, namespaces,
// namespace sets, multinames. A count of 0 is equivalent to 1
// (sentinel-only, no entry bytes).
func (c *Codec) Read(r *tagio.Reader, pool *Pool) error {
	if err := c.readInts(r, pool); err != nil {
		return errors.Wrap(err, "read ints")
	}
	if err := c.readUints(r, pool); err != nil {
		return errors.Wrap(err, "read uints")
	}
	if err := c.readFloats(r, pool); err != nil {
		return errors.Wrap(err, "read floats")
	}
	if err := c.readStrings(r, pool); err != nil {
		return errors.Wrap(err, "read strings")
	}
	if err := c.readNamespaces(r, pool); err != nil {
		return errors.Wrap(err, "read namespaces")
	}
	if err := c.readNamespaceSets(r, pool); err != nil {
		return errors.Wrap(err, "read namespace sets")
	}
	if err := c.readMultinames(r, pool); err != nil {
		return errors.Wrap(err, "read multinames")
	}
	return nil
}

func (c *Codec) readInts(r *tagio.Reader, pool *Pool) error {
	count, err := r.ReadU30()
	if err != nil {
		return err
	}
	for i := uint32(1); i < count; i++ {
		v, err := r.ReadS30()
		if err != nil {
			return err
		}
		pool.Ints.Append(v)
	}
	return nil
}

func (c *Codec) readUints(r *tagio.Reader, pool *Pool) error {
	count, err := r.ReadU30()
	if err != nil {
		return err
	}
	for i := uint32(1); i < count; i++ {
		v, err := r.ReadU30()
		if err != nil {
			return err
		}
		pool.Uints.Append(v)
	}
	return nil
}

func (c *Codec) readFloats(r *tagio.Reader, pool *Pool) error {
	count, err := r.ReadU30()
	if err != nil {
		return err
	}
	for i := uint32(1); i < count; i++ {
		v, err := r.ReadD64()
		if err != nil {
			return err
		}
		pool.Floats.Append(v)
	}
	return nil
}

func (c *Codec) readStrings(r *tagio.Reader, pool *Pool) error {
	count, err := r.ReadU30()
	if err != nil {
		return err
	}
	for i := uint32(1); i < count; i++ {
		s, err := r.ReadU30String()
		if err != nil {
			return err
		}
		pool.Strings.Append(s)
	}
	return nil
}

func (c *Codec) readNamespaces(r *tagio.Reader, pool *Pool) error {
	count, err := r.ReadU30()
	if err != nil {
		return err
	}
	for i := uint32(1); i < count; i++ {
		access, err := r.ReadU8()
		if err != nil {
			return err
		}
		nameIdx, err := r.ReadU30()
		if err != nil {
			return err
		}
		name := ""
		if nameIdx != 0 {
			name = pool.Strings.Get(int(nameIdx))
		}
		pool.Namespaces.Append(&Namespace{Access: AccessKind(access), Name: name})
	}
	return nil
}

func (c *Codec) readNamespaceSets(r *tagio.Reader, pool *Pool) error {
	count, err := r.ReadU30()
	if err != nil {
		return err
	}
	for i := uint32(1); i < count; i++ {
		n, err := r.ReadU30()
		if err != nil {
			return err
		}
		set := &NamespaceSet{Namespaces: make([]*Namespace, 0, n)}
		for j := uint32(0); j < n; j++ {
			nsIdx, err := r.ReadU30()
			if err != nil {
				return err
			}
			if nsIdx == 0 {
				logf(c.logger, "zero entry in namespace set")
			}
			ns := namespaceClone(pool.Namespaces.Get(int(nsIdx)))
			set.Namespaces = append(set.Namespaces, ns)
		}
		pool.NamespaceSets.Append(set)
	}
	return nil
}

func (c *Codec) readMultinames(r *tagio.Reader, pool *Pool) error {
	count, err := r.ReadU30()
	if err != nil {
		return err
	}
	for i := uint32(1); i < count; i++ {
		typeByte, err := r.ReadU8()
		if err != nil {
			return err
		}
		t := MultinameType(typeByte)
		shape, known := shapeFor(t)
		if !known {
			if c.opts.StrictMultinameTypes {
				return errors.Errorf("unknown multiname type 0x%02x", typeByte)
			}
			logf(c.logger, "can't parse type %d multinames yet", typeByte)
			pool.Multinames.Append(&Multiname{Type: t})
			continue
		}

		m := &Multiname{Type: t}
		switch t {
		case MultinameTypeQName, MultinameTypeQNameA:
			nsIdx, err := r.ReadU30()
			if err != nil {
				return err
			}
			m.NS = namespaceClone(pool.Namespaces.Get(int(nsIdx)))
			nameIdx, err := r.ReadU30()
			if err != nil {
				return err
			}
			if nameIdx != 0 {
				m.Name = pool.Strings.Get(int(nameIdx))
			}
		case MultinameTypeRTQName, MultinameTypeRTQNameA:
			nameIdx, err := r.ReadU30()
			if err != nil {
				return err
			}
			if nameIdx != 0 {
				m.Name = pool.Strings.Get(int(nameIdx))
			}
		case MultinameTypeRTQNameL, MultinameTypeRTQNameLA:
			// no wire fields
		case MultinameTypeMultiname, MultinameTypeMultinameA:
			nameIdx, err := r.ReadU30()
			if err != nil {
				return err
			}
			setIdx, err := r.ReadU30()
			if err != nil {
				return err
			}
			if nameIdx != 0 {
				m.Name = pool.Strings.Get(int(nameIdx))
			}
			m.Set = namespaceSetClone(pool.NamespaceSets.Get(int(setIdx)))
		case MultinameTypeMultinameL, MultinameTypeMultinameLA:
			setIdx, err := r.ReadU30()
			if err != nil {
				return err
			}
			m.Set = namespaceSetClone(pool.NamespaceSets.Get(int(setIdx)))
		}
		_ = shape
		pool.Multinames.Append(m)
	}
	return nil
}

// Write closes transitive references and emits pool to w, per spec
// §4.7: a closure phase registers every namespace/set/string a
// multiname, set, or namespace reaches, then an emit phase writes the
// seven arrays in order.
func (c *Codec) Write(w *tagio.Writer, pool *Pool) error {
	c.closeReferences(pool)

	if err := c.writeInts(w, pool); err != nil {
		return err
	}
	if err := c.writeUints(w, pool); err != nil {
		return err
	}
	c.writeFloats(w, pool)
	c.writeStrings(w, pool)
	if err := c.writeNamespaces(w, pool); err != nil {
		return err
	}
	if err := c.writeNamespaceSets(w, pool); err != nil {
		return err
	}
	return c.writeMultinames(w, pool)
}

// closeReferences walks multinames, then namespace sets, then
// namespaces, registering everything they reach with AppendIfNew so
// every index the emit phase looks up is guaranteed present.
func (c *Codec) closeReferences(pool *Pool) {
	for i := 1; i < pool.Multinames.Len(); i++ {
		m := pool.Multinames.Get(i)
		if m == nil {
			continue
		}
		if m.NS != nil {
			pool.RegisterNamespace(m.NS)
		}
		if m.Set != nil {
			pool.RegisterNamespaceSet(m.Set)
		}
		shape, known := shapeFor(m.Type)
		if known && shape.nm && m.Name != "" {
			pool.RegisterString(m.Name)
		}
	}
	for i := 1; i < pool.NamespaceSets.Len(); i++ {
		set := pool.NamespaceSets.Get(i)
		if set == nil {
			continue
		}
		for _, ns := range set.Namespaces {
			pool.RegisterNamespace(ns)
		}
	}
	for i := 1; i < pool.Namespaces.Len(); i++ {
		ns := pool.Namespaces.Get(i)
		if ns != nil && ns.Name != "" {
			pool.RegisterString(ns.Name)
		}
	}
}

func emitCount(n int) uint32 {
	if n <= 1 {
		return 0
	}
	return uint32(n)
}

func (c *Codec) writeInts(w *tagio.Writer, pool *Pool) error {
	w.WriteU30(emitCount(pool.Ints.Len()))
	for i := 1; i < pool.Ints.Len(); i++ {
		w.WriteS30(pool.Ints.Get(i))
	}
	return nil
}

func (c *Codec) writeUints(w *tagio.Writer, pool *Pool) error {
	w.WriteU30(emitCount(pool.Uints.Len()))
	for i := 1; i < pool.Uints.Len(); i++ {
		w.WriteU30(pool.Uints.Get(i))
	}
	return nil
}

func (c *Codec) writeFloats(w *tagio.Writer, pool *Pool) {
	w.WriteU30(emitCount(pool.Floats.Len()))
	for i := 1; i < pool.Floats.Len(); i++ {
		if c.opts.StubFloats {
			w.WriteD64(0.0) // reproduces the original writer's stub, see spec §9
		} else {
			w.WriteD64(pool.Floats.Get(i))
		}
	}
}

func (c *Codec) writeStrings(w *tagio.Writer, pool *Pool) {
	w.WriteU30(emitCount(pool.Strings.Len()))
	for i := 1; i < pool.Strings.Len(); i++ {
		w.WriteU30String(pool.Strings.Get(i))
	}
}

func (c *Codec) writeNamespaces(w *tagio.Writer, pool *Pool) error {
	w.WriteU30(emitCount(pool.Namespaces.Len()))
	for i := 1; i < pool.Namespaces.Len(); i++ {
		ns := pool.Namespaces.Get(i)
		w.WriteU8(byte(ns.Access))
		idx := 0
		if ns.Name != "" {
			idx = pool.FindString(ns.Name)
			if idx == 0 {
				return errors.Wrapf(ErrMissingIndexOnWrite, "namespace %s", ns.String())
			}
		}
		w.WriteU30(uint32(idx))
	}
	return nil
}

func (c *Codec) writeNamespaceSets(w *tagio.Writer, pool *Pool) error {
	w.WriteU30(emitCount(pool.NamespaceSets.Len()))
	for i := 1; i < pool.NamespaceSets.Len(); i++ {
		set := pool.NamespaceSets.Get(i)
		w.WriteU30(uint32(len(set.Namespaces)))
		for _, ns := range set.Namespaces {
			idx := pool.FindNamespace(ns)
			if idx == 0 {
				return errors.Wrapf(ErrMissingIndexOnWrite, "namespace set member %s", ns.String())
			}
			w.WriteU30(uint32(idx))
		}
	}
	return nil
}

func (c *Codec) writeMultinames(w *tagio.Writer, pool *Pool) error {
	w.WriteU30(emitCount(pool.Multinames.Len()))
	for i := 1; i < pool.Multinames.Len(); i++ {
		m := pool.Multinames.Get(i)
		w.WriteU8(byte(m.Type))

		shape, known := shapeFor(m.Type)
		if !known {
			continue // type-only entry, nothing else recorded on read
		}
		if err := assertFieldDiscipline(m, shape); err != nil {
			return err
		}

		if shape.ns {
			idx := pool.FindNamespace(m.NS)
			if idx == 0 {
				return errors.Wrapf(ErrMissingIndexOnWrite, "multiname %s ns", m.String())
			}
			w.WriteU30(uint32(idx))
		}
		if shape.nm {
			idx := 0
			if m.Name != "" {
				idx = pool.FindString(m.Name)
				if idx == 0 {
					return errors.Wrapf(ErrMissingIndexOnWrite, "multiname %s name", m.String())
				}
			}
			w.WriteU30(uint32(idx))
		}
		if shape.set {
			idx := pool.FindNamespaceSet(m.Set)
			if idx == 0 {
				return errors.Wrapf(ErrMissingIndexOnWrite, "multiname %s set", m.String())
			}
			w.WriteU30(uint32(idx))
		}
	}
	return nil
}

// assertFieldDiscipline enforces spec §4.4/§8 scenario 6: the set of
// populated fields on m must equal exactly the set its type prescribes.
// An empty Name is the wildcard, so a missing name is not an error.
func assertFieldDiscipline(m *Multiname, shape fieldShape) error {
	if shape.ns && m.NS == nil {
		return fmt.Errorf("abc: multiname type 0x%02x must carry ns", m.Type)
	}
	if shape.set && m.Set == nil {
		return fmt.Errorf("abc: multiname type 0x%02x must carry namespace_set", m.Type)
	}
	if !shape.ns && m.NS != nil {
		return fmt.Errorf("abc: multiname type 0x%02x must not carry ns", m.Type)
	}
	if !shape.set && m.Set != nil {
		return fmt.Errorf("abc: multiname type 0x%02x must not carry namespace_set", m.Type)
	}
	if !shape.nm && m.Name != "" {
		return fmt.Errorf("abc: multiname type 0x%02x must not carry name", m.Type)
	}
	return nil
}
