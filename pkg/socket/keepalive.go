package socket

import (
	"sync"
	"time"
)

// Close reasons reported by the keep-alive.
const (
	ReasonPongNotReceived = "pong not received"
	ReasonPongMismatch    = "pong mismatch"
)

// keepAlive sends application pings and watches for the matching pong.
// At most one ping is outstanding; the next ping is sent on the first tick
// after the pong arrived.
type keepAlive struct {
	interval time.Duration
	timeout  time.Duration

	sendPing  func(id string) error
	newID     func() string
	onFailure func(reason string)
	onLatency func(latency time.Duration)

	mu          sync.Mutex
	running     bool
	pendingID   string
	lastPingAt  time.Time
	lastLatency time.Duration

	stopCh chan struct{}
	pongCh chan string
}

func newKeepAlive(interval, timeout time.Duration, newID func() string, sendPing func(id string) error, onFailure func(string)) *keepAlive {
	return &keepAlive{
		interval:  interval,
		timeout:   timeout,
		newID:     newID,
		sendPing:  sendPing,
		onFailure: onFailure,
		stopCh:    make(chan struct{}),
		pongCh:    make(chan string, 1),
	}
}

// start sends the first ping immediately and begins the loop.
func (ka *keepAlive) start() {
	ka.mu.Lock()
	if ka.running {
		ka.mu.Unlock()
		return
	}
	ka.running = true
	ka.mu.Unlock()

	go ka.loop()
}

func (ka *keepAlive) stop() {
	ka.mu.Lock()
	defer ka.mu.Unlock()

	if !ka.running {
		return
	}
	ka.running = false
	close(ka.stopCh)
}

// pongReceived hands a pong id to the loop. It never blocks the read loop.
func (ka *keepAlive) pongReceived(id string) {
	select {
	case ka.pongCh <- id:
	case <-ka.stopCh:
	default:
	}
}

func (ka *keepAlive) latency() time.Duration {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	return ka.lastLatency
}

func (ka *keepAlive) loop() {
	ticker := time.NewTicker(ka.interval)
	defer ticker.Stop()

	timeout := time.NewTimer(ka.timeout)
	defer timeout.Stop()

	if !ka.ping() {
		return
	}

	for {
		select {
		case <-ka.stopCh:
			return

		case <-ticker.C:
			ka.mu.Lock()
			pending := ka.pendingID != ""
			ka.mu.Unlock()
			if pending {
				continue
			}
			if !ka.ping() {
				return
			}
			timeout.Reset(ka.timeout)

		case <-timeout.C:
			ka.mu.Lock()
			pending := ka.pendingID != ""
			ka.mu.Unlock()
			if pending {
				ka.fail(ReasonPongNotReceived)
				return
			}

		case id := <-ka.pongCh:
			ka.mu.Lock()
			if ka.pendingID == "" {
				ka.mu.Unlock()
				continue
			}
			if id != ka.pendingID {
				ka.mu.Unlock()
				ka.fail(ReasonPongMismatch)
				return
			}
			latency := time.Since(ka.lastPingAt)
			ka.pendingID = ""
			ka.lastLatency = latency
			ka.mu.Unlock()

			if !timeout.Stop() {
				select {
				case <-timeout.C:
				default:
				}
			}
			if ka.onLatency != nil {
				ka.onLatency(latency)
			}
		}
	}
}

func (ka *keepAlive) ping() bool {
	id := ka.newID()

	ka.mu.Lock()
	ka.pendingID = id
	ka.lastPingAt = time.Now()
	ka.mu.Unlock()

	if err := ka.sendPing(id); err != nil {
		ka.fail(ReasonPongNotReceived)
		return false
	}
	return true
}

func (ka *keepAlive) fail(reason string) {
	if ka.onFailure != nil {
		ka.onFailure(reason)
	}
}
