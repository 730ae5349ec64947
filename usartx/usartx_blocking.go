// usartx/usartx_blocking.go

package usartx

import "context"

// Readable returns a coalesced notification for RX readiness.
// A receive interrupt that enqueues one or more bytes will send on this
// channel. The channel is level-coalesced; callers must re-check state after
// waking.
func (u *USART) Readable() <-chan struct{} { return u.notify }

// Writable returns a coalesced notification for TX progress. The interrupt
// context sends on this channel when it moves a byte from the software buffer
// to the hardware. The channel is level-coalesced; callers must re-check
// state after waking.
func (u *USART) Writable() <-chan struct{} { return u.txNotify }

// TryRead returns immediately with up to len(p) bytes copied from the RX
// buffer. It never blocks and never returns an error. A return value of 0
// means "no data now".
func (u *USART) TryRead(p []byte) int {
	n := 0
	// Read at most len(p) bytes; stop on first empty.
	for n < len(p) {
		b, err := u.ReadByte()
		if err != nil {
			break
		}
		p[n] = b
		n++
	}
	return n
}

// WaitReadableContext blocks until data is available or ctx is done.
func (u *USART) WaitReadableContext(ctx context.Context) error {
	for {
		if u.Available() > 0 {
			return nil
		}
		u.dbgReadWait()
		select {
		case <-u.notify:
			// re-check; if empty, it was a spurious wake (coalesced notify)
			if u.Available() == 0 {
				u.dbgSpuriousWake()
			}
		case <-ctx.Done():
			u.dbgTimeout()
			return ctx.Err()
		}
	}
}

// RecvSomeContext blocks until at least one byte is available, then reads up
// to len(p).
func (u *USART) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if n := u.TryRead(p); n > 0 {
		return n, nil
	}
	for {
		u.dbgReadWait()
		select {
		case <-u.notify:
			if n := u.TryRead(p); n > 0 {
				return n, nil
			}
			u.dbgSpuriousWake()
		case <-ctx.Done():
			u.dbgTimeout()
			return 0, ctx.Err()
		}
	}
}

// RecvByteContext blocks for a single byte or until ctx is done.
func (u *USART) RecvByteContext(ctx context.Context) (byte, error) {
	if b, err := u.ReadByte(); err == nil {
		return b, nil
	}
	for {
		u.dbgReadWait()
		select {
		case <-u.notify:
			if b, err := u.ReadByte(); err == nil {
				return b, nil
			}
			u.dbgSpuriousWake()
		case <-ctx.Done():
			u.dbgTimeout()
			return 0, ctx.Err()
		}
	}
}
