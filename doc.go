// Package tardisgames runs small stateful mini-games inside sandboxed wasm
// guests driven through a flat integer FFI.
//
// # Architecture Overview
//
// The guest side compiles with GOOS=wasip1 into a reactor module; the host
// side runs those modules on wazero:
//
//	tardisgames/
//	├── abi/            Import/export names, enums, string and byte marshalling
//	├── frames/         4-bit packed video frame codec
//	├── guest/          Registry, callback dispatcher, panic trap, wasm exports
//	├── games/          Counter and Bad Apple games
//	├── cmd/counter     Guest entry points (wasip1 reactors)
//	├── cmd/badapple
//	├── host/           wazero runtime, host module, canvas and palette
//	├── store/          Persistent data stores (memory, sqlite)
//	├── catalog/        Game module discovery (*.wasm, *.wasm.gz, games.toml)
//	├── config/         MTG_* environment configuration
//	├── cmd/mtg         Terminal player
//	└── errors/         Structured error types
//
// # Writing a Game
//
// A game implements guest.Game and optionally the BackgroundDrawer, Ticker,
// Opener and Closer capabilities. Its command binds a factory:
//
//	func init() {
//	    guest.Bind(counter.New)
//	}
//
//	func main() {}
//
// Build it as a reactor:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o counter.wasm ./cmd/counter
//
// # Running Games
//
//	rt, err := host.NewRuntime(ctx, host.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	s, err := rt.Load(ctx, "counter", wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = s.Open(ctx)
//	_ = s.Render(ctx)
//
// # Error Handling
//
// Errors carry a Phase and a Kind from package errors. Guest failures are
// fatal to the callback: the guest logs them through the host and the host
// terminates the session.
package tardisgames
