//go:build wasip1

// Command badapple builds the badapple game module.
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o badapple.wasm ./cmd/badapple
package main

import (
	"github.com/wippyai/tardis-games/games/badapple"
	"github.com/wippyai/tardis-games/guest"
)

func init() {
	guest.Bind(badapple.New)
}

func main() {}
