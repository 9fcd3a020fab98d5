package abc

import "testing"

func TestNamespaceSetEqualsOrderSensitive(t *testing.T) {
	ns1 := &Namespace{Access: AccessPackage, Name: "A"}
	ns2 := &Namespace{Access: AccessPackage, Name: "B"}

	forward := &NamespaceSet{Namespaces: []*Namespace{ns1, ns2}}
	backward := &NamespaceSet{Namespaces: []*Namespace{ns2, ns1}}
	same := &NamespaceSet{Namespaces: []*Namespace{ns1, ns2}}

	if namespaceSetEquals(forward, backward) {
		t.Fatal("expected reordered sets to compare unequal (order-sensitive equality)")
	}
	if !namespaceSetEquals(forward, same) {
		t.Fatal("expected identically-ordered sets to compare equal")
	}
}

func TestNamespaceSetEqualsLengthMismatch(t *testing.T) {
	ns1 := &Namespace{Access: AccessPackage, Name: "A"}
	a := &NamespaceSet{Namespaces: []*Namespace{ns1}}
	b := &NamespaceSet{Namespaces: []*Namespace{ns1, ns1}}
	if namespaceSetEquals(a, b) {
		t.Fatal("expected sets of different length to compare unequal")
	}
}

func TestNamespaceSetClone(t *testing.T) {
	ns := &Namespace{Access: AccessPackage, Name: "A"}
	set := &NamespaceSet{Namespaces: []*Namespace{ns}}
	clone := namespaceSetClone(set)

	if !namespaceSetEquals(set, clone) {
		t.Fatal("clone must be structurally equal to original")
	}
	if clone.Namespaces[0] == set.Namespaces[0] {
		t.Fatal("clone must deep-copy its namespace elements")
	}
	clone.Namespaces[0].Name = "B"
	if set.Namespaces[0].Name != "A" {
		t.Fatal("mutating a clone must not affect the original")
	}
}

func TestNamespaceSetString(t *testing.T) {
	ns1 := &Namespace{Access: AccessPackage, Name: "A"}
	ns2 := &Namespace{Access: AccessPrivate, Name: "B"}
	set := &NamespaceSet{Namespaces: []*Namespace{ns1, ns2}}
	want := "{[package]A, [private]B}"
	if got := set.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
