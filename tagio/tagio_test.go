package tagio

import "testing"

func TestU30RoundTrip(t *testing.T) {
	tests := []uint32{0, 1, 127, 128, 300, 1 << 20, 1<<30 - 1}
	for _, v := range tests {
		w := NewWriter()
		w.WriteU30(v)
		r := NewReader(w.Bytes())
		got, err := r.ReadU30()
		if err != nil {
			t.Fatalf("ReadU30(%d) error: %v", v, err)
		}
		if got != v {
			t.Fatalf("ReadU30 roundtrip: got %d, want %d", got, v)
		}
	}
}

func TestS30RoundTrip(t *testing.T) {
	tests := []int32{0, 1, -1, 127, -128, 1 << 20, -(1 << 20)}
	for _, v := range tests {
		w := NewWriter()
		w.WriteS30(v)
		r := NewReader(w.Bytes())
		got, err := r.ReadS30()
		if err != nil {
			t.Fatalf("ReadS30(%d) error: %v", v, err)
		}
		if got != v {
			t.Fatalf("ReadS30 roundtrip: got %d, want %d", got, v)
		}
	}
}

func TestD64RoundTrip(t *testing.T) {
	tests := []float64{0, 1.5, -3.25, 3.14159265358979}
	for _, v := range tests {
		w := NewWriter()
		w.WriteD64(v)
		r := NewReader(w.Bytes())
		got, err := r.ReadD64()
		if err != nil {
			t.Fatalf("ReadD64(%v) error: %v", v, err)
		}
		if got != v {
			t.Fatalf("ReadD64 roundtrip: got %v, want %v", got, v)
		}
	}
}

func TestU30StringRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteU30String("flash.display::Sprite")
	r := NewReader(w.Bytes())
	got, err := r.ReadU30String()
	if err != nil {
		t.Fatalf("ReadU30String error: %v", err)
	}
	if got != "flash.display::Sprite" {
		t.Fatalf("got %q", got)
	}
}

func TestReadTruncated(t *testing.T) {
	r := NewReader([]byte{0x80})
	if _, err := r.ReadU30(); err == nil {
		t.Fatal("expected truncation error")
	}
	r2 := NewReader(nil)
	if _, err := r2.ReadU8(); err == nil {
		t.Fatal("expected truncation error on empty buffer")
	}
}
