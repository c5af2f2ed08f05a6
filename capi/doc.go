// Package main provides C API bindings for udpsocket, so that C programs
// and other language bindings can bind, connect and exchange datagrams
// through a Go-owned UDP socket.
//
// # Build Instructions
//
// To build as a C shared library:
//
//	go build -buildmode=c-shared -o libudpsocket.so ./capi/
//
// This generates:
//   - libudpsocket.so: The shared library
//   - libudpsocket.h: Auto-generated C header file with function declarations
//
// # Header Types
//
// The generated header declares the exports with cgo's Go typedefs rather
// than <stdbool.h> and <stddef.h> names. They are ABI-compatible with the
// C types used below:
//
//	bool      GoUint8
//	size_t    GoUintptr
//	uint8_t*  GoUint8*
//	void**    void** (socket out-parameter)
//
// C callers may pass true, false and size_t values unchanged.
//
// # C API Usage
//
// Every fallible function returns NULL on success or an error handle on
// failure. Outputs are written through pointers only on success.
//
//	#include "libudpsocket.h"
//
//	void *sock = NULL;
//	void *err = udpsocket_bind((uint8_t *)"127.0.0.1:5000", &sock);
//	if (err != NULL) {
//	    uint8_t msg[256];
//	    size_t n = udpsocket_error_print(err, msg, sizeof msg);
//	    fprintf(stderr, "%.*s\n", (int)n, msg);
//	    udpsocket_error_drop(err);
//	    return 1;
//	}
//
//	udpsocket_connect(sock, (uint8_t *)"127.0.0.1:6000");
//	udpsocket_set_nonblocking(sock, true);
//
//	uint8_t buf[2048];
//	size_t n = 0;
//	err = udpsocket_recv(sock, buf, sizeof buf, &n);
//	// err == NULL && n == 0: nothing queued yet
//
//	udpsocket_drop(sock);
//
// # Error Text
//
// udpsocket_error_print copies the error's context chain, outermost first
// and joined with ": ", into the caller's buffer. The text is not NUL
// terminated and is cut at the buffer's capacity. For example binding
// "not-an-address" prints:
//
//	parse_addr: parse: not an ip:port
//
// An error handle may be printed any number of times and must be released
// exactly once with udpsocket_error_drop.
//
// # Handles
//
// Socket and error handles are opaque addresses allocated on the C heap and
// looked up in Go-side tables. No Go pointer is ever handed to C.
//
// Passing NULL where a pointer is required, or a handle that was already
// released, panics and terminates the process with a message naming the
// offending function.
//
// # Thread Safety
//
// Distinct handles are independent and may be used from different threads
// at the same time. A single socket must not be used concurrently.
//
// # Configuration
//
// The library reads UDPSOCKET_LOG_LEVEL and UDPSOCKET_LOG_FORMAT when it is
// loaded. Failed operations are logged at debug level.
package main
