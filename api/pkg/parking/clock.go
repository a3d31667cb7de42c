package parking

import "time"

// Clock abstracts the monotonic time source the engine stamps requests and
// operation records with. The core never reads wall-clock time directly so
// tests can supply a deterministic sequence.
type Clock func() int64

// processStart anchors SystemClock: its wall-clock reading fixes the epoch
// offset and its monotonic reading measures all elapsed time after it.
var processStart = time.Now()

// SystemClock returns milliseconds on a monotonic scale: the wall-clock time
// at process start plus the monotonic time elapsed since, so it never runs
// backwards when the wall clock is adjusted.
func SystemClock() int64 {
	return processStart.UnixMilli() + time.Since(processStart).Milliseconds()
}
