//go:build !usartxdebug

package usartx

type statsField = struct{}

type Stats struct{}

func (u *USART) DebugReset()       {}
func (u *USART) DebugStats() Stats { return Stats{} }
