// Package counter is a click counter whose count survives between sessions.
package counter

import (
	"encoding/binary"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/tardis-games/abi"
	"github.com/wippyai/tardis-games/errors"
	"github.com/wippyai/tardis-games/guest"
)

// BlobSize is the length of the persisted count.
const BlobSize = 8

// TextColor is opaque white.
const TextColor = int32(-1)

// Counter counts clicks and shows the total across the whole canvas.
type Counter struct {
	count uint64
	text  string
}

var (
	_ guest.Game   = (*Counter)(nil)
	_ guest.Closer = (*Counter)(nil)
)

// New loads the stored count. It is the module's guest.Factory.
func New(s *guest.Screen) guest.Game {
	count, err := Decode(s.PersistentData())
	if err != nil {
		panic(err)
	}
	s.Logger().Debug("counter loaded", zap.Uint64("count", count))
	return newCounter(count)
}

func newCounter(count uint64) *Counter {
	return &Counter{count: count, text: strconv.FormatUint(count, 10)}
}

// Count returns the current total.
func (c *Counter) Count() uint64 {
	return c.count
}

func (c *Counter) Draw(_ *guest.Screen, canvas *guest.Canvas) {
	canvas.DrawText(0, 0, c.text, int32(96/len(c.text)), TextColor)
}

// OnClick counts every click, whichever button.
func (c *Counter) OnClick(_ *guest.Screen, _ abi.ClickType, _, _ int32) bool {
	c.count++
	c.text = strconv.FormatUint(c.count, 10)
	return true
}

// ScreenClose persists the count.
func (c *Counter) ScreenClose(s *guest.Screen) {
	s.SavePersistentData(Encode(c.count))
}

// Encode returns the native-endian representation of count.
func Encode(count uint64) []byte {
	return binary.NativeEndian.AppendUint64(make([]byte, 0, BlobSize), count)
}

// Decode reads a blob written by Encode. An empty blob is a count of zero;
// any length other than BlobSize is a shape mismatch.
func Decode(blob []byte) (uint64, error) {
	switch len(blob) {
	case 0:
		return 0, nil
	case BlobSize:
		return binary.NativeEndian.Uint64(blob), nil
	}
	return 0, errors.ShapeMismatch(errors.PhaseDecode, []string{"counter", "count"}, len(blob), BlobSize)
}
