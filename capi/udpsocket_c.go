package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/opd-ai/udpsocket"
	"github.com/opd-ai/udpsocket/config"
	"github.com/sirupsen/logrus"
)

// This is the main package required for building as c-shared.
// It exposes udpsocket.Socket and udpsocket.Error to C as opaque handles.

func main() {} // Required for c-shared build mode

var (
	sockets = newHandleTable[*udpsocket.Socket]("socket")
	errs    = newHandleTable[*udpsocket.Error]("error")
)

func init() {
	cfg := config.Default()
	config.ApplyEnvironmentOverrides(cfg)
	if err := config.ConfigureLogging(cfg.Log); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "init",
			"error":    err.Error(),
		}).Warn("Failed to configure logging from environment")
	}
}

// newError registers err and returns its handle, or nil when err is nil.
func newError(function string, err error) unsafe.Pointer {
	if err == nil {
		return nil
	}

	var e *udpsocket.Error
	if !errors.As(err, &e) {
		e = &udpsocket.Error{Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"function": function,
		"error":    e.Error(),
	}).Debug("Returning error handle")

	return errs.insert(e)
}

// goString copies a NUL-terminated C string.
func goString(s *byte) string {
	return C.GoString((*C.char)(unsafe.Pointer(s)))
}

// goBytes views a caller buffer of n bytes.
func goBytes(buf *byte, n uintptr) []byte {
	if n == 0 {
		return []byte{}
	}
	return unsafe.Slice(buf, n)
}

//export udpsocket_bind
func udpsocket_bind(addr *byte, socketOut *unsafe.Pointer) unsafe.Pointer {
	assert(addr != nil, "addr is null")
	assert(socketOut != nil, "socket_out is null")

	sock, err := udpsocket.Bind(goString(addr))
	if err != nil {
		return newError("udpsocket_bind", err)
	}

	*socketOut = sockets.insert(sock)

	logrus.WithFields(logrus.Fields{
		"function":   "udpsocket_bind",
		"local_addr": sock.LocalAddr().String(),
		"live":       sockets.len(),
	}).Debug("Created socket handle")
	return nil
}

//export udpsocket_drop
func udpsocket_drop(socket unsafe.Pointer) {
	sock := sockets.remove(socket)
	if err := sock.Close(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "udpsocket_drop",
			"error":    err.Error(),
		}).Warn("Failed to close socket")
		return
	}

	logrus.WithFields(logrus.Fields{
		"function": "udpsocket_drop",
		"live":     sockets.len(),
	}).Debug("Released socket handle")
}

//export udpsocket_set_nonblocking
func udpsocket_set_nonblocking(socket unsafe.Pointer, nonblocking bool) unsafe.Pointer {
	sock := sockets.get(socket)
	return newError("udpsocket_set_nonblocking", sock.SetNonBlocking(nonblocking))
}

//export udpsocket_connect
func udpsocket_connect(socket unsafe.Pointer, addr *byte) unsafe.Pointer {
	sock := sockets.get(socket)
	assert(addr != nil, "addr is null")

	return newError("udpsocket_connect", sock.Connect(goString(addr)))
}

//export udpsocket_send
func udpsocket_send(socket unsafe.Pointer, buf *byte, length uintptr, nOut *uintptr) unsafe.Pointer {
	sock := sockets.get(socket)
	assert(buf != nil, "buf is null")
	assert(nOut != nil, "n_out is null")

	n, err := sock.Send(goBytes(buf, length))
	if err != nil {
		return newError("udpsocket_send", err)
	}

	*nOut = uintptr(n)
	return nil
}

//export udpsocket_recv
func udpsocket_recv(socket unsafe.Pointer, buf *byte, length uintptr, nOut *uintptr) unsafe.Pointer {
	sock := sockets.get(socket)
	assert(buf != nil, "buf is null")
	assert(nOut != nil, "n_out is null")

	n, err := sock.Recv(goBytes(buf, length))
	if err != nil {
		return newError("udpsocket_recv", err)
	}

	*nOut = uintptr(n)
	return nil
}

// udpsocket_error_print writes as much of the error text as fits into buf,
// without a terminator, and returns the number of bytes written.
//
//export udpsocket_error_print
func udpsocket_error_print(err unsafe.Pointer, buf *byte, length uintptr) uintptr {
	e := errs.get(err)
	assert(buf != nil, "buf is null")

	return uintptr(e.Print(goBytes(buf, length)))
}

//export udpsocket_error_drop
func udpsocket_error_drop(err unsafe.Pointer) {
	errs.remove(err)
}
