package abc

import (
	"bytes"
	"testing"

	"github.com/saferwall/abc/tagio"
)

func TestCodecEmptyPoolRoundTrip(t *testing.T) {
	w := tagio.NewWriter()
	// An empty, freshly-created pool has nothing but sentinels: every
	// count on the wire is the spec's "0 means 1" sentinel-only form.
	if err := DefaultCodec().Write(w, NewPool()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got := NewPool()
	if err := DefaultCodec().Read(tagio.NewReader(w.Bytes()), got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Ints.Len() != 1 || got.Strings.Len() != 1 || got.Multinames.Len() != 1 {
		t.Fatalf("expected every array to hold only its sentinel, got ints=%d strings=%d multinames=%d",
			got.Ints.Len(), got.Strings.Len(), got.Multinames.Len())
	}
}

func TestCodecWireLevelSingleQName(t *testing.T) {
	pool := NewPool()
	ns := &Namespace{Access: AccessPackage, Name: "X"}
	m := &Multiname{Type: MultinameTypeQName, NS: ns, Name: "X"}
	pool.RegisterMultiname(m)

	w := tagio.NewWriter()
	if err := DefaultCodec().Write(w, pool); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := []byte{
		0x00, 0x00, 0x00, // ints, uints, floats counts = 0
		0x02, 0x01, 0x58, // strings: count=2, len=1, "X"
		0x02, 0x16, 0x01, // namespaces: count=2, access=package, name-idx=1
		0x00,             // namespace sets: count=0
		0x02, 0x07, 0x01, 0x01, // multinames: count=2, type=QName, ns-idx=1, name-idx=1
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("wire bytes = % x, want % x", w.Bytes(), want)
	}
}

func TestCodecRoundTripNamespaceSet(t *testing.T) {
	pool := NewPool()
	ns1 := &Namespace{Access: AccessPackage, Name: "A"}
	ns2 := &Namespace{Access: AccessPackageInternal, Name: "B"}
	set := &NamespaceSet{Namespaces: []*Namespace{ns1, ns2}}
	m := &Multiname{Type: MultinameTypeMultiname, Name: "C", Set: set}
	pool.RegisterMultiname(m)

	w := tagio.NewWriter()
	if err := DefaultCodec().Write(w, pool); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got := NewPool()
	if err := DefaultCodec().Read(tagio.NewReader(w.Bytes()), got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	gotM := got.LookupMultiname(1)
	if gotM.Name != "C" {
		t.Fatalf("Name = %q, want %q", gotM.Name, "C")
	}
	if len(gotM.Set.Namespaces) != 2 {
		t.Fatalf("Set length = %d, want 2", len(gotM.Set.Namespaces))
	}
	if !namespaceEquals(gotM.Set.Namespaces[0], ns1) || !namespaceEquals(gotM.Set.Namespaces[1], ns2) {
		t.Fatalf("Set = %s, want order-preserved {%s, %s}", gotM.Set.String(), ns1.String(), ns2.String())
	}
}

func TestCodecUnknownMultinameTypeRecoverable(t *testing.T) {
	w := tagio.NewWriter()
	w.WriteU30(0) // ints
	w.WriteU30(0) // uints
	w.WriteU30(0) // floats
	w.WriteU30(0) // strings
	w.WriteU30(0) // namespaces
	w.WriteU30(0) // namespace sets
	w.WriteU30(2) // multinames count
	w.WriteU8(0xFF) // unrecognized type byte

	pool := NewPool()
	if err := DefaultCodec().Read(tagio.NewReader(w.Bytes()), pool); err != nil {
		t.Fatalf("Read should tolerate an unknown multiname type by default: %v", err)
	}
	if got := pool.Multinames.Len(); got != 2 {
		t.Fatalf("Multinames.Len() = %d, want 2 (sentinel + type-only entry)", got)
	}
}

func TestCodecUnknownMultinameTypeStrict(t *testing.T) {
	w := tagio.NewWriter()
	w.WriteU30(0)
	w.WriteU30(0)
	w.WriteU30(0)
	w.WriteU30(0)
	w.WriteU30(0)
	w.WriteU30(0)
	w.WriteU30(2)
	w.WriteU8(0xFF)

	pool := NewPool()
	strict := NewCodec(Options{StrictMultinameTypes: true})
	if err := strict.Read(tagio.NewReader(w.Bytes()), pool); err == nil {
		t.Fatal("expected an error in strict mode for an unrecognized multiname type")
	}
}

func TestCodecFloatStubOption(t *testing.T) {
	pool := NewPool()
	pool.RegisterFloat(3.14159)

	faithful := tagio.NewWriter()
	if err := DefaultCodec().Write(faithful, pool); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := NewPool()
	if err := DefaultCodec().Read(tagio.NewReader(faithful.Bytes()), got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v := got.LookupFloat(1); v != 3.14159 {
		t.Fatalf("faithful codec: LookupFloat = %v, want 3.14159", v)
	}

	stubbed := tagio.NewWriter()
	stubCodec := NewCodec(Options{StubFloats: true})
	if err := stubCodec.Write(stubbed, pool); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got2 := NewPool()
	if err := DefaultCodec().Read(tagio.NewReader(stubbed.Bytes()), got2); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v := got2.LookupFloat(1); v != 0.0 {
		t.Fatalf("StubFloats codec: LookupFloat = %v, want 0.0", v)
	}
}

func TestCodecTypeDisciplineViolation(t *testing.T) {
	pool := NewPool()
	// MultinameL (0x1B) must not carry a name; forcing one in must
	// fail the writer-side field-discipline assertion (spec §8 scenario 6).
	m := &Multiname{Type: MultinameTypeMultinameL, Name: "illegal", Set: &NamespaceSet{}}
	pool.Multinames.Append(m)

	w := tagio.NewWriter()
	if err := DefaultCodec().Write(w, pool); err == nil {
		t.Fatal("expected a field-discipline error for a MultinameL carrying a name")
	}
}

func TestCodecMissingIndexOnWrite(t *testing.T) {
	// A namespace appended directly (bypassing closeReferences) whose
	// name was never interned as a string breaks writeNamespaces's
	// invariant that FindString must succeed.
	pool := NewPool()
	pool.Namespaces.Append(&Namespace{Access: AccessPackage, Name: "untouched"})

	w := tagio.NewWriter()
	if err := DefaultCodec().writeNamespaces(w, pool); err == nil {
		t.Fatal("expected ErrMissingIndexOnWrite when a namespace's name was never interned as a string")
	}
}
