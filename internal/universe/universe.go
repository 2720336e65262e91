package universe

import (
	"fmt"
	"sync"

	"rdmx/internal/logger"
)

// NumChannels is the number of channel slots in one DMX universe.
const NumChannels = 512

// Range is an inclusive span of channels.
type Range struct {
	First int
	Last  int
}

// All covers every channel of the universe.
var All = Range{First: 0, Last: NumChannels - 1}

// Block returns the range of count channels starting at first.
func Block(first, count int) Range {
	return Range{First: first, Last: first + count - 1}
}

// Len returns the number of channels in the range.
func (r Range) Len() int {
	if r.Last < r.First {
		return 0
	}
	return r.Last - r.First + 1
}

func (r Range) channels() []int {
	out := make([]int, 0, r.Len())
	for ch := r.First; ch <= r.Last; ch++ {
		out = append(out, ch)
	}
	return out
}

// Channels is read/write access to channel values.
// Both *Universe and *Tx implement it.
type Channels interface {
	Get(channel int) (byte, error)
	Slice(r Range) ([]byte, error)
	Set(channel int, value byte) error
	SetRange(r Range, values ...byte) error
	SetChannels(channels []int, values ...byte) error
}

// Universe holds the channel values of one DMX line and flushes them to a Transport.
type Universe struct {
	mu        sync.Mutex
	name      string
	log       logger.Logger
	transport Transport
	values    [NumChannels]byte
	buffering bool
	fixtures  Fixtures
}

// New creates a universe with every channel at zero, sends that state once
// and patches layout into it.
func New(name string, transport Transport, log logger.Logger, layout Layout) (*Universe, error) {
	u := &Universe{
		name:      name,
		log:       log,
		transport: transport,
	}

	fixtures, err := Allocate(u, layout)
	if err != nil {
		return nil, err
	}
	u.fixtures = fixtures

	if err := u.Flush(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *Universe) Name() string { return u.name }

func (u *Universe) String() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fmt.Sprintf("universe %s %v", u.name, u.values)
}

// Values returns a copy of the current channel values.
func (u *Universe) Values() [NumChannels]byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.values
}

// Buffering reports whether a batch is in progress.
func (u *Universe) Buffering() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.buffering
}

func (u *Universe) Get(channel int) (byte, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.get(channel)
}

func (u *Universe) Slice(r Range) ([]byte, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.slice(r)
}

// Set writes a single channel.
func (u *Universe) Set(channel int, value byte) error {
	return u.SetChannels([]int{channel}, value)
}

// SetRange writes values over r, repeating them to fill the range.
func (u *Universe) SetRange(r Range, values ...byte) error {
	if r.Len() == 0 {
		return ErrNoChannels
	}
	return u.SetChannels(r.channels(), values...)
}

// SetChannels writes values over the listed channels, repeating them to fill the list.
func (u *Universe) SetChannels(channels []int, values ...byte) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.write(channels, values)
}

// Flush sends the current values unless a batch is in progress.
func (u *Universe) Flush() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.flush()
}

// Batch runs fn with flushing suppressed and flushes exactly once when fn
// returns, fails or panics. The universe is locked for the duration of fn:
// calling any Universe method, or a Fixture bound to the universe, from fn
// deadlocks. Use tx, tx.Fixtures and tx.Fixture instead.
func (u *Universe) Batch(fn func(tx *Tx) error) (err error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	tx := &Tx{u: u}
	u.buffering = true
	defer func() {
		tx.closed = true
		u.buffering = false
		if ferr := u.flush(); ferr != nil && err == nil {
			err = ferr
		}
	}()

	return fn(tx)
}

// Fixtures returns the units currently patched into the universe.
func (u *Universe) Fixtures() Fixtures {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append(Fixtures(nil), u.fixtures...)
}

// Repatch drops every fixture and allocates layout from channel 0.
// Channel values are left as they are.
func (u *Universe) Repatch(layout Layout) error {
	fixtures, err := Allocate(u, layout)
	if err != nil {
		return err
	}

	u.mu.Lock()
	u.fixtures = fixtures
	u.mu.Unlock()

	u.log.With(logger.Fields{"module": "universe", "universe": u.name}).
		Debugf("repatched %d fixtures", len(fixtures))
	return nil
}

func (u *Universe) get(channel int) (byte, error) {
	if channel < 0 || channel >= NumChannels {
		return 0, &ChannelRangeError{Channel: channel}
	}
	return u.values[channel], nil
}

func (u *Universe) slice(r Range) ([]byte, error) {
	if r.Len() == 0 {
		return nil, ErrNoChannels
	}
	for _, ch := range []int{r.First, r.Last} {
		if ch < 0 || ch >= NumChannels {
			return nil, &ChannelRangeError{Channel: ch}
		}
	}
	out := make([]byte, r.Len())
	copy(out, u.values[r.First:r.Last+1])
	return out, nil
}

// write validates the whole request before touching any value.
func (u *Universe) write(channels []int, values []byte) error {
	switch {
	case len(values) == 0:
		return ErrNoValues
	case len(channels) == 0:
		return ErrNoChannels
	case len(channels)%len(values) != 0:
		return &MismatchedPatternError{Slots: len(channels), Values: len(values)}
	}
	for _, ch := range channels {
		if ch < 0 || ch >= NumChannels {
			return &ChannelRangeError{Channel: ch}
		}
	}

	for i, ch := range channels {
		u.values[ch] = values[i%len(values)]
	}
	return u.flush()
}

func (u *Universe) flush() error {
	if u.buffering {
		return nil
	}
	u.log.With(logger.Fields{"module": "universe", "universe": u.name}).Debug("flush")
	if err := u.transport.Send(u.values); err != nil {
		return fmt.Errorf("flush universe %s: %w", u.name, err)
	}
	return nil
}

// Tx is the write handle passed to a Batch function.
type Tx struct {
	u      *Universe
	closed bool
}

func (tx *Tx) Get(channel int) (byte, error) {
	if tx.closed {
		return 0, ErrTxClosed
	}
	return tx.u.get(channel)
}

func (tx *Tx) Slice(r Range) ([]byte, error) {
	if tx.closed {
		return nil, ErrTxClosed
	}
	return tx.u.slice(r)
}

func (tx *Tx) Set(channel int, value byte) error {
	return tx.SetChannels([]int{channel}, value)
}

func (tx *Tx) SetRange(r Range, values ...byte) error {
	if r.Len() == 0 {
		return ErrNoChannels
	}
	return tx.SetChannels(r.channels(), values...)
}

func (tx *Tx) SetChannels(channels []int, values ...byte) error {
	if tx.closed {
		return ErrTxClosed
	}
	return tx.u.write(channels, values)
}

// Fixture returns f bound to this batch.
func (tx *Tx) Fixture(f *Fixture) *Fixture {
	return f.On(tx)
}

// Fixtures returns the patched fixtures bound to this batch.
func (tx *Tx) Fixtures() Fixtures {
	out := make(Fixtures, len(tx.u.fixtures))
	for i, f := range tx.u.fixtures {
		out[i] = f.On(tx)
	}
	return out
}
