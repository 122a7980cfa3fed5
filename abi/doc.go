// Package abi is the flat boundary between a guest game module and its host.
//
// The host exposes its functions under the "mini_tardis_games" import module and
// only ever exchanges i32, i64 and f32 values. Text and byte sequences cross the
// boundary as (address, length) pairs into the guest's linear memory.
//
//	Imports      raw host functions, one method per mtg_* import
//	Memory       resolves guest buffers to linear-memory addresses
//	Marshaller   buffer <-> Ref conversion with overflow checks
//
// On GOOS=wasip1 the package binds Imports to //go:wasmimport declarations and
// Memory to the module's own linear memory (see WasmImports and LinearMemory).
// Other targets supply their own implementations, which is how the guest runtime
// is exercised in native tests.
//
// # Ownership
//
// A Ref is valid only for the duration of the host call it is passed to. The
// caller must keep the source buffer reachable until the call returns.
package abi
