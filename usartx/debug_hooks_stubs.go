//go:build !usartxdebug

package usartx

func (u *USART) dbgRxByte(RxStatus, bool) {}
func (u *USART) dbgTxDrain()              {}
func (u *USART) dbgReadWait()             {}
func (u *USART) dbgSpuriousWake()         {}
func (u *USART) dbgTimeout()              {}
