package main

/*
#include <stdlib.h>
*/
import "C"

import "unsafe"

// allocToken reserves one byte of C heap. Its address is unique for as long
// as it is not freed and is what C holds as the handle.
func allocToken() unsafe.Pointer {
	token := C.malloc(1)
	assert(token != nil, "out of memory allocating handle")
	return token
}

func freeToken(token unsafe.Pointer) {
	C.free(token)
}
