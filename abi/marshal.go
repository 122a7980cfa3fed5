package abi

import (
	"math"

	"github.com/wippyai/tardis-games/errors"
)

// Ref is a transient (address, length) pair into guest linear memory.
type Ref struct {
	Addr int32
	Len  int32
}

// Empty reports whether the reference covers no bytes.
func (r Ref) Empty() bool {
	return r.Len == 0
}

// Marshaller converts guest buffers to boundary references and copies host
// produced data into freshly owned guest storage.
type Marshaller struct {
	mem Memory
}

// NewMarshaller creates a marshaller over the given address resolver.
func NewMarshaller(mem Memory) *Marshaller {
	return &Marshaller{mem: mem}
}

// String exposes the bytes of s. The string must stay reachable until the
// host call using the Ref returns.
func (m *Marshaller) String(s string) (Ref, error) {
	if len(s) == 0 {
		return Ref{}, nil
	}
	return m.ref(m.mem.AddressOfString(s), len(s))
}

// Bytes exposes b. The slice must stay reachable until the host call using
// the Ref returns.
func (m *Marshaller) Bytes(b []byte) (Ref, error) {
	if len(b) == 0 {
		return Ref{}, nil
	}
	return m.ref(m.mem.AddressOf(b), len(b))
}

// Decode allocates exactly length bytes and lets fill copy host data into
// them. A zero length returns an empty slice without calling fill.
func (m *Marshaller) Decode(length int32, fill func(addr int32)) ([]byte, error) {
	if length < 0 {
		return nil, errors.Overflow(errors.PhaseDecode, []string{"length"}, length, "u32")
	}
	if length == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, length)
	addr, err := ToI32(uint64(m.mem.AddressOf(buf)), "address")
	if err != nil {
		return nil, err
	}
	fill(addr)
	return buf, nil
}

func (m *Marshaller) ref(addr uintptr, length int) (Ref, error) {
	a, err := ToI32(uint64(addr), "address")
	if err != nil {
		return Ref{}, err
	}
	n, err := ToI32(uint64(length), "length")
	if err != nil {
		return Ref{}, err
	}
	return Ref{Addr: a, Len: n}, nil
}

// ToI32 narrows an address, length or dimension to the boundary's integer
// width, failing with a ConversionOverflow when it does not fit.
func ToI32(v uint64, what string) (int32, error) {
	if v > math.MaxInt32 {
		return 0, errors.New(errors.PhaseEncode, errors.KindOverflow).
			Path(what).
			GoType("uint64").
			ABIType("i32").
			Value(v).
			Detail("value %d overflows i32", v).
			Build()
	}
	return int32(v), nil
}
