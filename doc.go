// Package udpsocket implements a thin, pass-through UDP socket with an
// explicit error context chain, designed to sit behind a C ABI (see the capi
// directory) but equally usable from Go.
//
// # Getting Started
//
// Bind a socket, associate a default peer and exchange datagrams:
//
//	sock, err := udpsocket.Bind("127.0.0.1:0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sock.Close()
//
//	if err := sock.Connect("127.0.0.1:5000"); err != nil {
//	    log.Fatal(err)
//	}
//
//	n, err := sock.Send([]byte("hello"))
//
// A successful Connect or Send does not mean the peer exists. UDP delivery is
// unacknowledged; the kernel accepting the datagram into its send buffer is
// all a nil error promises.
//
// # Blocking and Non-Blocking Mode
//
// Sockets start in blocking mode: Recv waits until a datagram arrives and
// Send waits for send buffer space. After SetNonBlocking(true) both return
// immediately. A non-blocking Recv with nothing queued is not an error; it
// reports zero bytes:
//
//	_ = sock.SetNonBlocking(true)
//	for {
//	    n, err := sock.Recv(buf)
//	    if err != nil {
//	        return err
//	    }
//	    if n == 0 {
//	        time.Sleep(10 * time.Millisecond)
//	        continue
//	    }
//	    handle(buf[:n])
//	}
//
// # Errors
//
// Every failure is an [*Error] carrying an ordered context chain, outermost
// first, followed by the operating system cause:
//
//	parse_addr: parse: not an ip:port
//
// [Error.Print] copies that text into a caller-supplied buffer, truncating
// silently, which is what the C binding exposes as udpsocket_error_print.
//
// # Concurrency
//
// A Socket performs no internal locking and starts no goroutines. Distinct
// sockets are independent; a single socket must not be used from two
// goroutines without external synchronization.
package udpsocket
