package animation

import (
	"math"
	"math/big"
)

var half = big.NewRat(1, 2)

// Interval is a span between two exact values. Start may be greater than Finish.
type Interval struct {
	Start  *big.Rat
	Finish *big.Rat
}

// Span returns the interval between two integers.
func Span(start, finish int64) Interval {
	return Interval{Start: big.NewRat(start, 1), Finish: big.NewRat(finish, 1)}
}

// SpanRat returns the interval between copies of start and finish.
func SpanRat(start, finish *big.Rat) Interval {
	return Interval{Start: new(big.Rat).Set(start), Finish: new(big.Rat).Set(finish)}
}

// Distance is |Finish - Start|.
func (iv Interval) Distance() *big.Rat {
	d := new(big.Rat).Sub(iv.Finish, iv.Start)
	return d.Abs(d)
}

// Descending reports whether the interval runs downwards.
func (iv Interval) Descending() bool {
	return iv.Start.Cmp(iv.Finish) > 0
}

// Stepper walks an interval one animation frame at a time.
//
// The first value is always Start and the last is always exactly Finish.
// Each step divides the distance still to go by the frames still left, so
// the walk lands on Finish without drift.
type Stepper struct {
	iv       Interval
	distance *big.Rat
	frames   int64

	value     *big.Rat
	remaining int64
	started   bool
	done      bool
}

// Over breaks iv into the frames of seconds at the clock's rate.
// The frame count is seconds*fps rounded half up, and never less than 1.
func Over(iv Interval, seconds float64, clock Clock) *Stepper {
	s := &Stepper{
		iv:       SpanRat(iv.Start, iv.Finish),
		distance: iv.Distance(),
		frames:   frameCount(clock.ToFrames(seconds)),
	}
	s.Reset()
	return s
}

func frameCount(frames *big.Rat) int64 {
	if frames == nil {
		return 1
	}
	rounded := new(big.Rat).Add(frames, half)
	n := new(big.Int).Quo(rounded.Num(), rounded.Denom())
	if !n.IsInt64() {
		if n.Sign() > 0 {
			return math.MaxInt64
		}
		return 1
	}
	return GreaterOf(n.Int64(), 1)
}

// Frames is the frame budget of the walk.
func (s *Stepper) Frames() int64 { return s.frames }

// Reset rewinds the stepper to Start.
func (s *Stepper) Reset() {
	s.value = new(big.Rat).Set(s.iv.Start)
	s.remaining = s.frames
	s.started = false
	s.done = false
}

// Done reports whether Finish has been returned.
func (s *Stepper) Done() bool { return s.done }

// Next returns the next value, or false once Finish has been returned.
func (s *Stepper) Next() (*big.Rat, bool) {
	if s.done {
		return nil, false
	}

	if s.started {
		covered := new(big.Rat).Sub(s.iv.Start, s.value)
		covered.Abs(covered)
		delta := new(big.Rat).Sub(s.distance, covered)
		delta.Quo(delta, new(big.Rat).SetInt64(GreaterOf(s.remaining, 1)))
		if s.iv.Descending() {
			delta.Neg(delta)
		}
		s.value.Add(s.value, delta)
		s.remaining--
	}
	s.started = true

	if s.value.Cmp(s.iv.Finish) == 0 {
		s.done = true
	}
	return new(big.Rat).Set(s.value), true
}

// Values rewinds the stepper and collects the whole walk.
func (s *Stepper) Values() []*big.Rat {
	s.Reset()
	var out []*big.Rat
	for v, ok := s.Next(); ok; v, ok = s.Next() {
		out = append(out, v)
	}
	return out
}

// Level converts a value to a channel level, rounding half up and
// clamping to 0..255.
func Level(v *big.Rat) byte {
	r := new(big.Rat).Add(v, half)
	n := new(big.Int).Div(r.Num(), r.Denom())
	if !n.IsInt64() {
		if n.Sign() < 0 {
			return 0
		}
		return math.MaxUint8
	}
	return byte(LesserOf(GreaterOf(n.Int64(), 0), math.MaxUint8))
}
