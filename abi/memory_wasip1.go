//go:build wasip1

package abi

import "unsafe"

type linearMemory struct{}

// LinearMemory resolves buffers to their address in this module's memory.
func LinearMemory() Memory {
	return linearMemory{}
}

func (linearMemory) AddressOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

func (linearMemory) AddressOfString(s string) uintptr {
	return uintptr(unsafe.Pointer(unsafe.StringData(s)))
}
