// usartx/atmega_instances.go

//go:build atmega

package usartx

import (
	"device/avr"
	"machine"
	"runtime/interrupt"
)

// USART register block base addresses in the megaAVR 0-series data space.
const (
	usart0Base uintptr = 0x0800
	usart1Base uintptr = 0x0820
)

// Serial0 is USART0 on the board's default serial pins. Serial1 is USART1;
// its pin mux is a board wiring concern, so no PinController is attached.
var (
	Serial0 = New(
		&megaHardware{regs: regsAt(usart0Base)},
		megaPins{rx: machine.UART_RX_PIN, tx: machine.UART_TX_PIN},
	)

	Serial1 = New(&megaHardware{regs: regsAt(usart1Base)}, nil)
)

func init() {
	interrupt.New(avr.IRQ_USART0_RXC, serial0RxIRQ)
	interrupt.New(avr.IRQ_USART0_DRE, serial0DreIRQ)
	interrupt.New(avr.IRQ_USART1_RXC, serial1RxIRQ)
	interrupt.New(avr.IRQ_USART1_DRE, serial1DreIRQ)

	eventSerials = append(eventSerials, Serial0, Serial1)
}

func serial0RxIRQ(interrupt.Interrupt)  { Serial0.HandleRxComplete() }
func serial0DreIRQ(interrupt.Interrupt) { Serial0.HandleTxDataEmpty() }
func serial1RxIRQ(interrupt.Interrupt)  { Serial1.HandleRxComplete() }
func serial1DreIRQ(interrupt.Interrupt) { Serial1.HandleTxDataEmpty() }
