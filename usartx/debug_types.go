//go:build usartxdebug

package usartx

import "sync/atomic"

type statsField = Stats

// Stats holds counters since the last reset.
type Stats struct {
	// RX path
	RxBytes     uint32 // bytes delivered to the RX ring
	RingDrops   uint32 // receive bytes dropped because the RX ring was full
	RingMaxUsed uint32 // high-water mark of RX ring occupancy

	// Per-byte hardware error flags
	ErrParity  uint32 // parity check failed
	ErrFraming uint32 // malformed stop bit
	ErrOverrun uint32 // hardware receive FIFO overflow

	// TX path
	TxDrains uint32 // bytes moved software buffer -> hardware

	// Blocking API behaviour
	ReadWaits     uint32 // times Recv*/Wait* had to wait
	SpuriousWakes uint32 // notify received but no data available
	Timeouts      uint32 // context expiries in Recv*/Wait* APIs
}

func (u *USART) DebugReset() {
	// Zero the struct by reassigning (safe as Stats is POD)
	u.stats = Stats{}
}

func (u *USART) DebugStats() Stats {
	return Stats{
		RxBytes:     atomic.LoadUint32(&u.stats.RxBytes),
		RingDrops:   atomic.LoadUint32(&u.stats.RingDrops),
		RingMaxUsed: atomic.LoadUint32(&u.stats.RingMaxUsed),

		ErrParity:  atomic.LoadUint32(&u.stats.ErrParity),
		ErrFraming: atomic.LoadUint32(&u.stats.ErrFraming),
		ErrOverrun: atomic.LoadUint32(&u.stats.ErrOverrun),

		TxDrains: atomic.LoadUint32(&u.stats.TxDrains),

		ReadWaits:     atomic.LoadUint32(&u.stats.ReadWaits),
		SpuriousWakes: atomic.LoadUint32(&u.stats.SpuriousWakes),
		Timeouts:      atomic.LoadUint32(&u.stats.Timeouts),
	}
}
