// usartx/usartx.go

// Package usartx provides an interrupt-driven, buffered serial transceiver
// engine over an abstract byte-level Hardware interface. The foreground API
// (Begin/End/WriteByte/Flush/ReadByte/...) and the two interrupt entry points
// share a pair of ring buffers under a single-writer-per-cursor discipline;
// multi-step state updates run inside critical sections obtained from the
// hardware's interrupt mask. Write blocks until the byte is accepted by the
// driver; Flush provides an explicit "on the wire" completion.
package usartx

import "errors"

var (
	errUSARTBufferEmpty = errors.New("USART buffer empty")
	errInvalidBaud      = errors.New("invalid baud rate")
	errInvalidDataBits  = errors.New("invalid databits")
	errInvalidStopBits  = errors.New("invalid stopbits")
	errInvalidParity    = errors.New("invalid parity")
)

// Parity defines the parity setting used for serial communication.
type Parity uint8

const (
	// ParityNone disables parity generation and checking (the most common setting).
	ParityNone Parity = iota
	// ParityEven sets even parity (total number of 1 bits is even).
	ParityEven
	// ParityOdd sets odd parity (total number of 1 bits is odd).
	ParityOdd
)

// USART is one buffered transceiver bound to one Hardware instance.
//
// Invariants (TX path):
//   - The data-empty interrupt is armed iff the software TX buffer is
//     non-empty, so "interrupt disarmed && data register empty" means the
//     whole transmit path is idle.
//   - The foreground is the sole producer of the TX ring and the interrupt
//     context its sole consumer; the RX ring is the mirror image.
//
// Signalling:
//   - notify/txNotify are 1-deep coalesced wakeups fed from the interrupt
//     entry points. Callers must re-check state after waking.
type USART struct {
	hw   Hardware
	pins PinController

	rx *RingBuffer
	tx *RingBuffer

	// True once at least one byte has ever been handed to the hardware.
	// The transmit-complete flag has no defined state before the first
	// transmission, so Flush keys off this instead.
	written bool

	notify   chan struct{} // coalesced RX readiness notifications
	txNotify chan struct{} // coalesced TX progress notifications

	event func() // optional receive-event hook, see event.go

	stats statsField
}

// New returns a transceiver bound to hw. pins may be nil when the RX/TX lines
// are configured elsewhere.
func New(hw Hardware, pins PinController) *USART {
	return &USART{
		hw:       hw,
		pins:     pins,
		rx:       NewRingBuffer(),
		tx:       NewRingBuffer(),
		notify:   make(chan struct{}, 1),
		txNotify: make(chan struct{}, 1),
	}
}

// critical runs fn with interrupt preemption suppressed, restoring the prior
// mask state afterwards so it is safe inside callers that have already
// suppressed interrupts.
func (u *USART) critical(fn func()) {
	state := u.hw.DisableInterrupts()
	fn()
	u.hw.RestoreInterrupts(state)
}

// Begin configures and activates the peripheral: pins, baud, frame format,
// receiver+transmitter and the receive-complete interrupt. The data-empty
// interrupt stays disarmed until the first buffered write. Calling Begin on
// an active instance restarts it cleanly (implicit End). It returns an error
// for a zero baud rate rather than programming a meaningless divisor.
func (u *USART) Begin(baud uint32, cfg FrameConfig) error {
	if baud == 0 {
		return errInvalidBaud
	}

	// Make sure no transmission is ongoing in case Begin is called again
	// without an End in between.
	if u.written {
		u.End()
	}

	setting := BaudSetting(u.hw.ClockFrequency(), baud, u.hw.OscillatorError())

	u.critical(func() {
		// RX line must be ready before the receiver is enabled, and TX must
		// idle high before the transmitter drives it.
		if u.pins != nil {
			u.pins.PrepareRx()
			u.pins.PrepareTx()
		}

		u.hw.WriteBaud(setting)
		u.hw.WriteFrame(cfg)
		u.hw.SetEnabled(true)
		u.hw.SetRxCompleteInterrupt(true)

		if u.pins != nil {
			u.pins.EnableTx()
		}
	})
	return nil
}

// End drains outgoing data, then deactivates the peripheral and discards any
// unread received data. The TX output pin state is left unchanged. The
// instance may be Begin-ed again afterwards.
func (u *USART) End() {
	// Wait for transmission of outgoing data before tearing down.
	u.Flush()

	u.critical(func() {
		u.hw.SetEnabled(false)
		u.hw.SetRxCompleteInterrupt(false)
		u.hw.SetDataEmptyInterrupt(false)

		// Clear any received data not read yet.
		u.rx.Clear()

		u.written = false
	})
}

// WriteByte sends one byte, blocking until the driver accepts it. It returns
// once the byte is in the hardware data register or the software TX buffer;
// use Flush for on-the-wire completion. There is no upper bound on the wait:
// with a full buffer it spins until the interrupt context, or the internal
// poll fallback, drains at least one byte.
func (u *USART) WriteByte(c byte) error {
	for {
		accepted := false
		u.critical(func() {
			// If the buffer and the data register are both empty, write the
			// byte straight to the hardware. Going through the buffer under
			// light load adds an interrupt round-trip per byte, which caps
			// throughput at high bit rates. The data-empty interrupt is
			// always disarmed when the buffer is empty.
			if !u.hw.DataEmptyInterruptEnabled() && u.hw.TxDataEmpty() {
				u.hw.WriteTxData(c)
				// Clear transmit-complete so Flush waits for this byte
				// rather than a stale prior completion.
				u.hw.ClearTxComplete()
				u.written = true
				accepted = true
				return
			}

			if u.tx.Put(c) {
				u.hw.SetDataEmptyInterrupt(true)
				accepted = true
			}
		})
		if accepted {
			return nil
		}

		// Buffer full. Pump the transmit path manually until room appears,
		// then retry the whole operation. The poll is what keeps this loop
		// alive when interrupts are globally suppressed. The data-empty
		// interrupt is necessarily armed at this point.
		u.pollTxDataEmpty()
	}
}

// Write implements io.Writer with the byte-at-a-time blocking behaviour of
// WriteByte.
func (u *USART) Write(p []byte) (int, error) {
	for i, c := range p {
		if err := u.WriteByte(c); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// AvailableForWrite returns the free space in the software TX buffer in
// bytes.
func (u *USART) AvailableForWrite() int {
	var free uint8
	u.critical(func() { free = u.tx.Free() })
	return int(free)
}

// Flush blocks until the software TX buffer has drained and the hardware
// reports the last byte fully shifted out. Each spin iteration pumps the
// poll fallback so draining proceeds even while interrupts are globally
// suppressed by the caller.
func (u *USART) Flush() {
	// Nothing has ever been transmitted: the transmit-complete flag has no
	// defined initial state, so there is nothing to wait on.
	if !u.written {
		return
	}

	// Armed data-empty interrupt means bytes are still queued; a clear
	// transmit-complete flag means the hardware is still shifting.
	for u.hw.DataEmptyInterruptEnabled() || !u.hw.TxComplete() {
		u.pollTxDataEmpty()
	}
}

// Available returns the number of buffered unread receive bytes.
func (u *USART) Available() int {
	var used uint8
	u.critical(func() { used = u.rx.Used() })
	return int(used)
}

// Peek returns the oldest buffered receive byte without consuming it, or
// an error if nothing is buffered.
func (u *USART) Peek() (byte, error) {
	var b byte
	var ok bool
	u.critical(func() { b, ok = u.rx.Peek() })
	if !ok {
		return 0, errUSARTBufferEmpty
	}
	return b, nil
}

// ReadByte consumes and returns the oldest buffered receive byte, or an
// error if nothing is buffered.
func (u *USART) ReadByte() (byte, error) {
	var b byte
	var ok bool
	u.critical(func() { b, ok = u.rx.Get() })
	if !ok {
		return 0, errUSARTBufferEmpty
	}
	return b, nil
}

// --- Interrupt entry points ---

// HandleRxComplete is the receive-complete interrupt entry point, invoked by
// the vector dispatch (or a host adapter) once per received byte, with
// interrupt preemption already suppressed. A byte arriving while the RX
// buffer is full is dropped silently; there is no flow control at this layer,
// matching the hardware's own behaviour.
func (u *USART) HandleRxComplete() {
	b, status := u.hw.ReadRxData()

	ok := u.rx.Put(b)
	u.dbgRxByte(status, ok)

	// Coalesce a readable notification.
	select {
	case u.notify <- struct{}{}:
	default:
	}
}

// HandleTxDataEmpty is the transmit-data-empty interrupt entry point, invoked
// when the hardware is ready for the next byte, with interrupt preemption
// already suppressed. Foreground code must go through pollTxDataEmpty
// instead, which re-checks the armed+ready condition inside a critical
// section.
func (u *USART) HandleTxDataEmpty() {
	u.txDataEmptyIRQ()
}

func (u *USART) txDataEmptyIRQ() {
	// The interrupt is only armed while the buffer is non-empty; an empty
	// pop here means the arming invariant was broken externally, so just
	// disarm and bail.
	b, ok := u.tx.Get()
	if !ok {
		u.hw.SetDataEmptyInterrupt(false)
		return
	}

	u.hw.WriteTxData(b)

	// Clear the transmit-complete flag so Flush won't return until this
	// byte actually got written.
	u.hw.ClearTxComplete()
	u.dbgTxDrain()

	if u.tx.Used() == 0 {
		// Buffer empty, nothing left to feed the hardware.
		u.hw.SetDataEmptyInterrupt(false)
	}

	// Coalesce a TX progress notification.
	select {
	case u.txNotify <- struct{}{}:
	default:
	}
}

// pollTxDataEmpty invokes the data-empty drain logic via a call instead of
// the interrupt, so Write and Flush make forward progress even when the real
// interrupt cannot fire (interrupts globally suppressed by the caller).
func (u *USART) pollTxDataEmpty() {
	// Testing the global interrupt flag here would only establish whether
	// interrupts are disabled, not whether we are racing the real handler,
	// so always suppress and re-check the armed+ready condition inside the
	// critical section.
	u.critical(func() {
		if u.hw.DataEmptyInterruptEnabled() && u.hw.TxDataEmpty() {
			u.txDataEmptyIRQ()
		}
	})
}
