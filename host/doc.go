// Package host runs game modules on wazero and provides the
// mini_tardis_games host functions they import.
//
// Each loaded module becomes a Session holding the guest instance, its
// canvas and its persistent data. The host calls exports in the order the
// console screen would:
//
//	sess, err := rt.Load(ctx, "counter", wasm)
//	sess.Open(ctx)
//	for each tick {
//		sess.Tick(ctx)
//		sess.Render(ctx)
//	}
//	sess.Close(ctx)
//
// Canvas imports are only valid while Render runs; calling them from any
// other callback fails the call. A game that calls close_app terminates its
// session after the current call returns.
package host
