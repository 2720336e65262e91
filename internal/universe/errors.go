package universe

import (
	"errors"
	"fmt"
)

var (
	ErrNoValues   = errors.New("no values to write")
	ErrNoChannels = errors.New("no channels to write")
	ErrTxClosed   = errors.New("batch is already closed")
)

// MismatchedPatternError is returned when a value pattern cannot be tiled
// over the target channels without a partial repeat.
type MismatchedPatternError struct {
	Slots  int // Slots - number of target channels.
	Values int // Values - length of the supplied pattern.
}

func (e *MismatchedPatternError) Error() string {
	return fmt.Sprintf("pattern of %d values does not fit %d channels", e.Values, e.Slots)
}

// ChannelRangeError reports a channel outside 0..NumChannels-1.
type ChannelRangeError struct {
	Channel int
}

func (e *ChannelRangeError) Error() string {
	return fmt.Sprintf("channel %d is out of range 0..%d", e.Channel, NumChannels-1)
}

// InvalidShapeError is returned when a layout cannot be patched into a universe.
type InvalidShapeError struct {
	Profile  string // Profile - the profile that did not fit.
	Channels int    // Channels - channels already used before Profile.
	Reason   string
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("invalid layout at profile %q (%d channels): %s", e.Profile, e.Channels, e.Reason)
}
