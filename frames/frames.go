// Package frames decodes the packed 4-bit video format used by frame
// playback games.
//
// Layout: byte 0 is the width, byte 1 the height, followed by a stream of
// samples packed two per byte. The sample for (frame, x, y) sits at index
// frame*w*h + x*h + y (column-major); even indexes occupy the high nibble.
package frames

import (
	"fmt"

	"github.com/wippyai/tardis-games/errors"
)

// HeaderSize is the number of bytes before the sample stream.
const HeaderSize = 2

// MaxSample is the largest value a packed sample can hold.
const MaxSample = 0x0f

// Header holds the frame dimensions.
type Header struct {
	Width  uint8
	Height uint8
}

// Area returns the number of samples per frame.
func (h Header) Area() int {
	return int(h.Width) * int(h.Height)
}

// Asset is an immutable, parsed frame blob.
type Asset struct {
	data   []byte
	header Header
	frames int
}

// Parse reads the header of data and computes the frame count. The slice is
// retained, not copied.
func Parse(data []byte) (*Asset, error) {
	if len(data) < HeaderSize {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"frames", "header"},
			fmt.Sprintf("need %d header bytes, have %d", HeaderSize, len(data)))
	}

	h := Header{Width: data[0], Height: data[1]}
	if h.Area() == 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"frames", "header"},
			fmt.Sprintf("empty frame %dx%d", h.Width, h.Height))
	}

	return &Asset{
		data:   data,
		header: h,
		frames: (len(data) - HeaderSize) * 2 / h.Area(),
	}, nil
}

// MustParse is like Parse but panics on a malformed blob. It is meant for
// embedded assets.
func MustParse(data []byte) *Asset {
	a, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Asset) Header() Header  { return a.header }
func (a *Asset) Width() int      { return int(a.header.Width) }
func (a *Asset) Height() int     { return int(a.header.Height) }
func (a *Asset) FrameCount() int { return a.frames }

// Len returns the size of the underlying blob in bytes.
func (a *Asset) Len() int { return len(a.data) }

// Pixel returns the 4-bit sample at (frame, x, y). Arguments are not range
// checked; callers clamp frame to [0, FrameCount) and the coordinates to the
// header dimensions.
func (a *Asset) Pixel(frame, x, y int) uint8 {
	w, h := int(a.header.Width), int(a.header.Height)
	index := frame*w*h + x*h + y
	b := a.data[HeaderSize+index/2]
	if index%2 == 0 {
		return b >> 4
	}
	return b & MaxSample
}

// Pack encodes frames in the layout Parse reads. Each frame is a w*h slice in
// column-major order.
func Pack(width, height uint8, frames [][]uint8) ([]byte, error) {
	h := Header{Width: width, Height: height}
	area := h.Area()
	if area == 0 {
		return nil, errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("empty frame %dx%d", width, height))
	}

	samples := area * len(frames)
	out := make([]byte, HeaderSize+(samples+1)/2)
	out[0], out[1] = width, height

	for f, frame := range frames {
		if len(frame) != area {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Path("frames", fmt.Sprint(f)).
				Value(len(frame)).
				Detail("frame has %d samples, want %d", len(frame), area).
				Build()
		}
		for i, s := range frame {
			if s > MaxSample {
				return nil, errors.New(errors.PhaseEncode, errors.KindOverflow).
					Path("frames", fmt.Sprint(f)).
					ABIType("u4").
					Value(s).
					Detail("sample %d at %d overflows 4 bits", s, i).
					Build()
			}
			index := f*area + i
			if index%2 == 0 {
				out[HeaderSize+index/2] |= s << 4
			} else {
				out[HeaderSize+index/2] |= s
			}
		}
	}
	return out, nil
}
