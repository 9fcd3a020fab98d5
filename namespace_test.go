package abc

import "testing"

func TestNamespaceStringRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ns   *Namespace
		want string
	}{
		{"package", &Namespace{Access: AccessPackage, Name: "flash.display"}, "[package]flash.display"},
		{"private-anon", &Namespace{Access: AccessPrivate, Name: ""}, "[private]"},
		{"protected", &Namespace{Access: AccessProtected, Name: "Sprite"}, "[protected]Sprite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ns.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
			parsed := NamespaceFromString(tt.want, nil)
			if !namespaceEquals(parsed, tt.ns) {
				t.Fatalf("NamespaceFromString(%q) = %+v, want %+v", tt.want, parsed, tt.ns)
			}
		})
	}
}

func TestNamespaceFromStringNoBracket(t *testing.T) {
	ns := NamespaceFromString("flash.display", nil)
	want := &Namespace{Access: AccessPackage, Name: "flash.display"}
	if !namespaceEquals(ns, want) {
		t.Fatalf("got %+v, want %+v", ns, want)
	}
}

func TestNamespaceFromStringUnknownLabel(t *testing.T) {
	if ns := NamespaceFromString("[bogus]name", nil); ns != nil {
		t.Fatalf("expected nil for unknown access label, got %+v", ns)
	}
}

func TestNamespaceEqualsAndHash(t *testing.T) {
	a := &Namespace{Access: AccessPackage, Name: "X"}
	b := &Namespace{Access: AccessPackage, Name: "X"}
	c := &Namespace{Access: AccessPackageInternal, Name: "X"}
	if !namespaceEquals(a, b) {
		t.Fatal("expected structurally equal namespaces to compare equal")
	}
	if namespaceHash(a) != namespaceHash(b) {
		t.Fatal("expected equal namespaces to hash equal")
	}
	if namespaceEquals(a, c) {
		t.Fatal("expected different access kinds to compare unequal")
	}
}

func TestEscapeString(t *testing.T) {
	got := EscapeString("a\tb\n\xff")
	want := `a\tb\n\xff`
	if got != want {
		t.Fatalf("EscapeString() = %q, want %q", got, want)
	}
}

func TestAccessLabelUndefined(t *testing.T) {
	if got := AccessLabel(AccessKind(0x99)); got != "undefined" {
		t.Fatalf("AccessLabel(0x99) = %q, want %q", got, "undefined")
	}
}
