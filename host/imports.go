package host

import (
	"context"
	"math"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/tardis-games/abi"
	"github.com/wippyai/tardis-games/errors"
	"github.com/wippyai/tardis-games/guest"
)

type hostFunc struct {
	fn      api.GoModuleFunc
	name    string
	params  []api.ValueType
	results []api.ValueType
}

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
	f32 = api.ValueTypeF32
)

func types(t ...api.ValueType) []api.ValueType { return t }

// hostFuncs lists the mini_tardis_games imports. Panics inside them trap
// the guest call; the session logs the failure and terminates.
func hostFuncs(r *Runtime) []hostFunc {
	return []hostFunc{
		{name: abi.FuncLog, params: types(i32, i32, i32), fn: func(ctx context.Context, mod api.Module, stack []uint64) {
			s := sessionFrom(ctx)
			msg := readString(mod, abi.FuncLog, stack[0], stack[1])
			level := abi.LogLevel(api.DecodeI32(stack[2]))
			if ce := Logger().Named("guest").Check(guest.ZapLevel(level), msg); ce != nil {
				ce.Write(zap.String("app", s.app))
			}
		}},
		{name: abi.FuncNanoTime, results: types(i64), fn: func(ctx context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI64(r.nanoTime())
		}},
		{name: abi.FuncSavePersistentData, params: types(i32, i32), fn: func(ctx context.Context, mod api.Module, stack []uint64) {
			s := sessionFrom(ctx)
			data := readBytes(mod, abi.FuncSavePersistentData, stack[0], stack[1])
			if err := r.opts.Store.Save(ctx, s.app, data); err != nil {
				panic(err)
			}
			s.data = data
		}},
		{name: abi.FuncGetPersistentDataLen, results: types(i32), fn: func(ctx context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(int32(len(sessionFrom(ctx).data)))
		}},
		{name: abi.FuncGetPersistentData, params: types(i32), fn: func(ctx context.Context, mod api.Module, stack []uint64) {
			s := sessionFrom(ctx)
			if len(s.data) == 0 {
				return
			}
			if !mod.Memory().Write(api.DecodeU32(stack[0]), s.data) {
				panic(outOfBounds(abi.FuncGetPersistentData, stack[0], uint64(len(s.data))))
			}
		}},
		{name: abi.FuncRandomI32, results: types(i32), fn: func(ctx context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(int32(sessionFrom(ctx).rng.Uint32()))
		}},
		{name: abi.FuncPlaySound, params: types(i32, i32, i32, f32, f32), fn: func(ctx context.Context, mod api.Module, stack []uint64) {
			s := sessionFrom(ctx)
			id := readString(mod, abi.FuncPlaySound, stack[0], stack[1])
			category, err := abi.DecodeSoundCategory(api.DecodeI32(stack[2]))
			if err != nil {
				panic(err)
			}
			r.playSound(Sound{
				App:      s.app,
				ID:       id,
				Category: category,
				Volume:   api.DecodeF32(stack[3]),
				Pitch:    api.DecodeF32(stack[4]),
			})
		}},
		{name: abi.FuncCloseApp, fn: func(ctx context.Context, _ api.Module, _ []uint64) {
			s := sessionFrom(ctx)
			s.log.Debug("game requested close")
			s.closing = true
		}},
		{name: abi.FuncGetWidth, results: types(i32), fn: func(ctx context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(int32(drawingCanvas(ctx, "get_width()").Width()))
		}},
		{name: abi.FuncGetHeight, results: types(i32), fn: func(ctx context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(int32(drawingCanvas(ctx, "get_height()").Height()))
		}},
		{name: abi.FuncGetRaw, params: types(i32, i32), results: types(i32), fn: func(ctx context.Context, _ api.Module, stack []uint64) {
			c := drawingCanvas(ctx, "get_raw(x, y)")
			stack[0] = api.EncodeI32(int32(int8(c.Raw(int(api.DecodeI32(stack[0])), int(api.DecodeI32(stack[1]))))))
		}},
		{name: abi.FuncSetRaw, params: types(i32, i32, i32), fn: func(ctx context.Context, _ api.Module, stack []uint64) {
			c := drawingCanvas(ctx, "set_raw(x, y, color)")
			color := api.DecodeI32(stack[2])
			if color < math.MinInt8 || color > math.MaxInt8 {
				panic(errors.New(errors.PhaseHost, errors.KindOverflow).
					Path(abi.FuncSetRaw, "color").
					ABIType("i8").
					Value(color).
					Detail("raw color %d is out of bounds for byte", color).
					Build())
			}
			c.SetRaw(int(api.DecodeI32(stack[0])), int(api.DecodeI32(stack[1])), uint8(color))
		}},
		{name: abi.FuncSetRGB, params: types(i32, i32, i32), fn: func(ctx context.Context, _ api.Module, stack []uint64) {
			c := drawingCanvas(ctx, "set_rgb(x, y, color)")
			c.SetRaw(int(api.DecodeI32(stack[0])), int(api.DecodeI32(stack[1])), ClosestRGB(api.DecodeI32(stack[2])))
		}},
		{name: abi.FuncSetARGB, params: types(i32, i32, i32), fn: func(ctx context.Context, _ api.Module, stack []uint64) {
			c := drawingCanvas(ctx, "set_argb(x, y, color)")
			c.SetRaw(int(api.DecodeI32(stack[0])), int(api.DecodeI32(stack[1])), ClosestARGB(api.DecodeI32(stack[2])))
		}},
		{name: abi.FuncDrawInbuiltSprite, params: types(i32, i32, i32, i32), fn: func(ctx context.Context, mod api.Module, stack []uint64) {
			c := drawingCanvas(ctx, "draw_inbuilt_sprite(x, y, name_address, name_len)")
			name := readString(mod, abi.FuncDrawInbuiltSprite, stack[2], stack[3])
			sprite, ok := LookupSprite(name)
			if !ok {
				sessionFrom(ctx).log.Warn("unknown sprite", zap.String("sprite", name))
				sprite = MissingSprite()
			}
			c.DrawSprite(int(api.DecodeI32(stack[0])), int(api.DecodeI32(stack[1])), sprite)
		}},
		{name: abi.FuncDrawText, params: types(i32, i32, i32, i32, i32, i32), fn: func(ctx context.Context, mod api.Module, stack []uint64) {
			c := drawingCanvas(ctx, "draw_text(x, y, text_address, text_len, size, argb)")
			text := readString(mod, abi.FuncDrawText, stack[2], stack[3])
			c.DrawText(int(api.DecodeI32(stack[0])), int(api.DecodeI32(stack[1])), text,
				int(api.DecodeI32(stack[4])), ClosestARGB(api.DecodeI32(stack[5])))
		}},
	}
}

func drawingCanvas(ctx context.Context, call string) *Canvas {
	s := sessionFrom(ctx)
	if !s.drawing {
		panic(errors.New(errors.PhaseHost, errors.KindInvalidInput).
			Detail("called %s while not currently drawing", call).
			Build())
	}
	return s.canvas
}

func readBytes(mod api.Module, fn string, addr, length uint64) []byte {
	a, n := api.DecodeU32(addr), api.DecodeU32(length)
	if n == 0 {
		return []byte{}
	}
	view, ok := mod.Memory().Read(a, n)
	if !ok {
		panic(outOfBounds(fn, addr, length))
	}
	return append([]byte(nil), view...)
}

func readString(mod api.Module, fn string, addr, length uint64) string {
	return string(readBytes(mod, fn, addr, length))
}

func outOfBounds(fn string, addr, length uint64) error {
	return errors.New(errors.PhaseHost, errors.KindInvalidInput).
		Path(fn).
		Detail("memory access at %d (+%d) out of bounds", api.DecodeI32(addr), api.DecodeI32(length)).
		Build()
}
