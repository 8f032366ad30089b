package heapcore

import "unsafe"

// Must panics with the error, logging it first if AppScope has a Logger
// installed. Used at startup for conditions that should never be recovered
// from (bad config, a listener that won't bind) — never on the allocator's
// hot path, which always returns ok/nil instead of panicking.
func Must[T any](ret T, err error) T {
	if err != nil {
		if AppScope.Log != nil {
			AppScope.Log.Err().Caller(1).Msg(err.Error())
		}
		panic(err)
	}

	return ret
}

// BytesToString reinterprets b as a string without copying. The returned
// string must not outlive b, and b must not be mutated afterwards.
func BytesToString(bs []byte) string {
	return *(*string)(unsafe.Pointer(&bs))
}

// StringToBytes reinterprets s as a []byte without copying. The returned
// slice must never be written to.
func StringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
