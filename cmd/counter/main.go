//go:build wasip1

// Command counter builds the counter game module.
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o counter.wasm ./cmd/counter
package main

import (
	"github.com/wippyai/tardis-games/games/counter"
	"github.com/wippyai/tardis-games/guest"
)

func init() {
	guest.Bind(counter.New)
}

func main() {}
