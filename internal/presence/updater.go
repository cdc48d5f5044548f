// Package presence keeps the bot's "watching" status in sync with the
// current price.
package presence

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// State of the update loop.
type State int32

const (
	NotStarted State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NOT_STARTED"
	case Running:
		return "RUNNING"
	case Stopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// PriceFunc returns the current price.
type PriceFunc func(ctx context.Context) (decimal.Decimal, error)

// Publisher sets the visible status text. *discordgo.Session satisfies it.
type Publisher interface {
	UpdateWatchStatus(idle int, name string) error
}

// Updater republishes the price as status text every interval between the
// connection-ready and connection-closed signals.
type Updater struct {
	price     PriceFunc
	status    func(decimal.Decimal) string
	publisher Publisher
	interval  time.Duration

	ready     chan struct{}
	closed    chan struct{}
	readyOnce sync.Once
	closeOnce sync.Once

	state atomic.Int32
}

// NewUpdater creates an Updater in the NotStarted state.
func NewUpdater(price PriceFunc, status func(decimal.Decimal) string, publisher Publisher, interval time.Duration) *Updater {
	return &Updater{
		price:     price,
		status:    status,
		publisher: publisher,
		interval:  interval,
		ready:     make(chan struct{}),
		closed:    make(chan struct{}),
	}
}

// Ready signals that the platform connection is established. Only the first
// call has an effect.
func (u *Updater) Ready() {
	u.readyOnce.Do(func() { close(u.ready) })
}

// Closed signals that the platform connection is gone. The loop finishes the
// iteration in progress, if any, and exits.
func (u *Updater) Closed() {
	u.closeOnce.Do(func() { close(u.closed) })
}

// State returns the current loop state.
func (u *Updater) State() State {
	return State(u.state.Load())
}

// Run blocks until Closed is called or ctx is done.
func (u *Updater) Run(ctx context.Context) {
	defer u.state.Store(int32(Stopped))

	select {
	case <-u.ready:
	case <-u.closed:
		return
	case <-ctx.Done():
		return
	}

	if u.stopped() {
		return
	}

	u.state.Store(int32(Running))
	slog.Info("Presence updater started", slog.Duration("interval", u.interval))

	timer := time.NewTimer(u.interval)
	defer timer.Stop()

	for {
		u.update(ctx)

		// go1.23+ timers: Reset needs no drain
		timer.Reset(u.interval)
		select {
		case <-u.closed:
			slog.Info("Presence updater stopped")
			return
		case <-ctx.Done():
			slog.Info("Presence updater stopped", slog.Any("reason", ctx.Err()))
			return
		case <-timer.C:
		}

		if u.stopped() {
			slog.Info("Presence updater stopped")
			return
		}
	}
}

func (u *Updater) stopped() bool {
	select {
	case <-u.closed:
		return true
	default:
		return false
	}
}

// update runs one iteration. Failures are logged and the iteration skipped.
func (u *Updater) update(ctx context.Context) {
	price, err := u.price(ctx)
	if err != nil {
		slog.Warn("Presence update skipped", slog.Any("error", err))
		return
	}

	text := u.status(price)
	if err := u.publisher.UpdateWatchStatus(0, text); err != nil {
		slog.Warn("Presence publish failed", slog.String("status", text), slog.Any("error", err))
		return
	}
	slog.Debug("Presence updated", slog.String("status", text))
}
