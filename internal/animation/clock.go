package animation

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"

	"golang.org/x/exp/constraints"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 30

// DefaultClock runs at DefaultFPS.
var DefaultClock = Clock{FPS: DefaultFPS}

// Clock converts between seconds and animation frames.
// A non-positive FPS behaves like DefaultFPS.
type Clock struct {
	FPS int
}

// NewClock returns a clock running at fps frames per second.
func NewClock(fps int) (Clock, error) {
	if fps <= 0 {
		return Clock{}, fmt.Errorf("animation: fps must be positive, got %d", fps)
	}
	return Clock{FPS: fps}, nil
}

func (c Clock) fps() int64 {
	if c.FPS <= 0 {
		return DefaultFPS
	}
	return int64(c.FPS)
}

// FrameDuration is the time between two frames.
func (c Clock) FrameDuration() time.Duration {
	return time.Second / time.Duration(c.fps())
}

// SecondsPerFrame is FrameDuration in seconds.
func (c Clock) SecondsPerFrame() float64 {
	return 1 / float64(c.fps())
}

// Frames converts a number of frames to seconds.
func (c Clock) Frames(n float64) float64 {
	return n * c.SecondsPerFrame()
}

// ToFrames converts seconds to an exact number of frames. Seconds are
// taken at their shortest decimal form, so 0.15s at 10 fps is exactly 1.5
// frames. It returns nil for NaN and infinite inputs.
func (c Clock) ToFrames(seconds float64) *big.Rat {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return nil
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(seconds, 'g', -1, 64))
	if !ok {
		return nil
	}
	return r.Mul(r, new(big.Rat).SetInt64(c.fps()))
}

func Minutes(n float64) float64 { return n * 60 }

func Seconds(n float64) float64 { return n }

func Milliseconds(n float64) float64 { return n / 1000 }

func LesserOf[T constraints.Ordered](a, b T) T {
	if b < a {
		return b
	}
	return a
}

func GreaterOf[T constraints.Ordered](a, b T) T {
	if b > a {
		return b
	}
	return a
}
