package guest

import (
	"strconv"

	"github.com/wippyai/tardis-games/errors"
)

// Handle is the opaque integer the host uses to address the game object.
// Zero is never issued.
type Handle int32

func (h Handle) String() string {
	return "handle(" + strconv.Itoa(int(h)) + ")"
}

// registry owns the game object. A module hosts exactly one game, so the
// arena has a single slot and a handle is its index plus one.
type registry struct {
	slots  [1]Game
	issued int
}

func (r *registry) insert(g Game) Handle {
	r.slots[0] = g
	r.issued = 1
	return Handle(1)
}

// resolve returns the game behind h for the duration of one callback.
func (r *registry) resolve(h Handle) (Game, error) {
	if h <= 0 || int(h) > r.issued {
		return nil, errors.NullHandle(int32(h))
	}
	return r.slots[h-1], nil
}

func (r *registry) handle() Handle {
	return Handle(r.issued)
}
