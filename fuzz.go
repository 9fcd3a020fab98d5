package abc

import "github.com/saferwall/abc/tagio"

// Fuzz decodes data as a constant pool and reports whether it parsed
// cleanly, in the go-fuzz convention (0 = uninteresting/reject, 1 =
// keep in the corpus).
func Fuzz(data []byte) int {
	pool := NewPool()
	r := tagio.NewReader(data)
	if err := DefaultCodec().Read(r, pool); err != nil {
		return 0
	}
	return 1
}
