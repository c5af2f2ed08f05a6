package main

import (
	"fmt"
	"runtime"
	"strings"
)

// assert panics when a caller precondition does not hold. A panic escaping
// an exported function terminates the host process, which is the intended
// outcome for a null pointer or a stale handle.
func assert(truth bool, msg string) {
	if truth {
		return
	}
	panic(fmt.Sprintf("%s: assertion failed (%s)", exportedCaller(), msg))
}

// exportedCaller names the exported function on the current stack. Frame
// names carry the package path, "main." in the shared library and the full
// import path under go test, so only the part after the last dot counts.
func exportedCaller() string {
	pcs := make([]uintptr, 16)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(2, pcs)])
	for {
		frame, more := frames.Next()
		name := frame.Function[strings.LastIndex(frame.Function, ".")+1:]
		if strings.HasPrefix(name, "udpsocket_") {
			return name
		}
		if !more {
			return "udpsocket"
		}
	}
}
