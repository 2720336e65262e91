package universe

import (
	"errors"
	"sync"

	"rdmx/internal/fifo"
	"rdmx/internal/logger"
)

// Transport sends a full universe snapshot to an output.
type Transport interface {
	Send(snapshot [NumChannels]byte) error
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(snapshot [NumChannels]byte) error

func (f TransportFunc) Send(snapshot [NumChannels]byte) error {
	return f(snapshot)
}

// WithLogging wraps t so every send is logged at debug level.
func WithLogging(t Transport, log logger.Logger, output string) Transport {
	l := log.With(logger.Fields{"module": "transport", "output": output})
	return TransportFunc(func(snapshot [NumChannels]byte) error {
		l.Debug("sending snapshot")
		if err := t.Send(snapshot); err != nil {
			l.Errorf("send failed: %v", err)
			return err
		}
		return nil
	})
}

// Multi sends every snapshot to all transports, even if some of them fail.
func Multi(ts ...Transport) Transport {
	return TransportFunc(func(snapshot [NumChannels]byte) error {
		var errs []error
		for _, t := range ts {
			if err := t.Send(snapshot); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Recorder is a Transport that keeps the most recent snapshots in memory.
type Recorder struct {
	mu      sync.Mutex
	sends   int
	history *fifo.Queue[[NumChannels]byte]
}

// NewRecorder returns a recorder remembering up to size snapshots.
func NewRecorder(size int) *Recorder {
	return &Recorder{history: fifo.New[[NumChannels]byte](size)}
}

func (r *Recorder) Send(snapshot [NumChannels]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends++
	r.history.Push(snapshot)
	return nil
}

// Sends returns the number of snapshots received so far.
func (r *Recorder) Sends() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sends
}

// Last returns the latest snapshot.
func (r *Recorder) Last() ([NumChannels]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Last()
}

// History returns the remembered snapshots, oldest first.
func (r *Recorder) History() [][NumChannels]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Items()
}
