// Package guest turns the raw exported entry points of a game module into a
// typed callback lifecycle for a single game object.
//
// A module binds one Factory at init time. The host calls mtg_alloc_data once
// to construct the game and receive its handle, then drives the screen
// callbacks with that handle:
//
//	mtg_alloc_data            -> Runtime.Register
//	mtg_draw(h)               -> Game.Draw
//	mtg_on_click(h, t, x, y)  -> Game.OnClick
//	mtg_draw_background(h)    -> BackgroundDrawer.DrawBackground
//	mtg_screen_tick(h)        -> Ticker.ScreenTick
//	mtg_screen_open(h)        -> Opener.ScreenOpen
//	mtg_screen_close(h)       -> Closer.ScreenClose
//
// Once registration succeeds every entry point runs under a Trap: a panic in
// game code is logged to the host at error level and the call returns 0
// instead of aborting the module.
//
// Runtime is not safe for concurrent use. The host drives a module from one
// thread at a time.
package guest
