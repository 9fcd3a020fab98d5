package abc

// diagnosticSink is the minimal surface the value-type parsers need
// from internal/log.Helper to report recoverable failures (spec §7)
// without importing internal/log directly from every file.
type diagnosticSink interface {
	Errorf(format string, args ...interface{})
}

// logf reports msg on sink if one was supplied; recoverable diagnostics
// are allowed to have no sink (best-effort, silently dropped).
func logf(sink diagnosticSink, format string, args ...interface{}) {
	if sink == nil {
		return
	}
	sink.Errorf(format, args...)
}
