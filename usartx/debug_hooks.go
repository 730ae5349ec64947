//go:build usartxdebug

package usartx

import "sync/atomic"

// Called per received byte with the hardware status flags and the ring
// Put() outcome.
func (u *USART) dbgRxByte(status RxStatus, putOK bool) {
	if status&RxParityError != 0 {
		atomic.AddUint32(&u.stats.ErrParity, 1)
	}
	if status&RxFrameError != 0 {
		atomic.AddUint32(&u.stats.ErrFraming, 1)
	}
	if status&RxBufferOverflow != 0 {
		atomic.AddUint32(&u.stats.ErrOverrun, 1)
	}
	if putOK {
		atomic.AddUint32(&u.stats.RxBytes, 1)
		// track high-water mark
		used := uint32(u.rx.Used())
		for {
			max := atomic.LoadUint32(&u.stats.RingMaxUsed)
			if used <= max {
				break
			}
			if atomic.CompareAndSwapUint32(&u.stats.RingMaxUsed, max, used) {
				break
			}
		}
	} else {
		atomic.AddUint32(&u.stats.RingDrops, 1)
	}
}

func (u *USART) dbgTxDrain() {
	atomic.AddUint32(&u.stats.TxDrains, 1)
}

func (u *USART) dbgReadWait() {
	atomic.AddUint32(&u.stats.ReadWaits, 1)
}
func (u *USART) dbgSpuriousWake() {
	atomic.AddUint32(&u.stats.SpuriousWakes, 1)
}
func (u *USART) dbgTimeout() {
	atomic.AddUint32(&u.stats.Timeouts, 1)
}
