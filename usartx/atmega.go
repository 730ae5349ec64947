// usartx/atmega.go

//go:build atmega

// megaAVR 0-series USART binding. The engine drives the peripheral through
// the Hardware interface; this file maps that interface onto the register
// block and the global interrupt flag.

package usartx

import (
	"machine"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"
)

// usartRegs is the megaAVR 0-series USART register block layout.
type usartRegs struct {
	rxdatal volatile.Register8 // 0x00 receive data
	rxdatah volatile.Register8 // 0x01 receive flags (PERR/FERR/BUFOVF)
	txdatal volatile.Register8 // 0x02 transmit data
	txdatah volatile.Register8 // 0x03
	status  volatile.Register8 // 0x04 RXCIF/TXCIF/DREIF
	ctrla   volatile.Register8 // 0x05 interrupt enables
	ctrlb   volatile.Register8 // 0x06 RXEN/TXEN/RXMODE
	ctrlc   volatile.Register8 // 0x07 frame format
	baudl   volatile.Register8 // 0x08
	baudh   volatile.Register8 // 0x09
}

const (
	statusRXCIF = 0x80
	statusTXCIF = 0x40
	statusDREIF = 0x20

	ctrlaRXCIE = 0x80
	ctrlaTXCIE = 0x40
	ctrlaDREIE = 0x20

	ctrlbRXEN       = 0x80
	ctrlbTXEN       = 0x40
	ctrlbRXModeMask = 0x06 // 00 = normal speed (no CLK2X)
)

// Factory oscillator error for the 16 MHz oscillator at 5 V
// (SIGROW.OSC16ERR5V), in 1/1024ths.
var osc16Err5V = (*volatile.Register8)(unsafe.Pointer(uintptr(0x1121)))

func regsAt(base uintptr) *usartRegs {
	return (*usartRegs)(unsafe.Pointer(base))
}

// megaHardware implements Hardware for one megaAVR USART instance.
type megaHardware struct {
	regs *usartRegs
}

func (h *megaHardware) ClockFrequency() uint32 { return machine.CPUFrequency() }
func (h *megaHardware) OscillatorError() int8  { return int8(osc16Err5V.Get()) }

func (h *megaHardware) WriteBaud(setting uint16) {
	h.regs.baudl.Set(uint8(setting))
	h.regs.baudh.Set(uint8(setting >> 8))
}

func (h *megaHardware) WriteFrame(cfg FrameConfig) {
	h.regs.ctrlc.Set(uint8(cfg))
}

func (h *megaHardware) SetEnabled(on bool) {
	if on {
		// Normal-speed sampling; clear any CLK2X mode first.
		h.regs.ctrlb.ClearBits(ctrlbRXModeMask)
		h.regs.ctrlb.SetBits(ctrlbRXEN | ctrlbTXEN)
	} else {
		h.regs.ctrlb.ClearBits(ctrlbRXEN | ctrlbTXEN)
	}
}

func (h *megaHardware) WriteTxData(b byte) {
	h.regs.txdatal.Set(b)
}

func (h *megaHardware) ReadRxData() (byte, RxStatus) {
	// Flags must be read before the data byte: reading RXDATAL pops the
	// hardware FIFO and advances RXDATAH with it.
	status := RxStatus(h.regs.rxdatah.Get())
	return h.regs.rxdatal.Get(), status
}

func (h *megaHardware) TxDataEmpty() bool {
	return h.regs.status.Get()&statusDREIF != 0
}

func (h *megaHardware) TxComplete() bool {
	return h.regs.status.Get()&statusTXCIF != 0
}

func (h *megaHardware) ClearTxComplete() {
	// TXCIF is cleared by writing a one to its bit location.
	h.regs.status.Set(statusTXCIF)
}

func (h *megaHardware) SetRxCompleteInterrupt(on bool) {
	if on {
		h.regs.ctrla.SetBits(ctrlaRXCIE)
	} else {
		h.regs.ctrla.ClearBits(ctrlaRXCIE)
	}
}

func (h *megaHardware) SetDataEmptyInterrupt(on bool) {
	if on {
		h.regs.ctrla.SetBits(ctrlaDREIE)
	} else {
		h.regs.ctrla.ClearBits(ctrlaDREIE)
	}
}

func (h *megaHardware) DataEmptyInterruptEnabled() bool {
	return h.regs.ctrla.Get()&ctrlaDREIE != 0
}

func (h *megaHardware) DisableInterrupts() InterruptState {
	return InterruptState(interrupt.Disable())
}

func (h *megaHardware) RestoreInterrupts(state InterruptState) {
	interrupt.Restore(interrupt.State(state))
}

// megaPins sequences the RX/TX lines around peripheral activation.
type megaPins struct {
	rx, tx machine.Pin
}

func (p megaPins) PrepareRx() {
	p.rx.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
}

func (p megaPins) PrepareTx() {
	p.tx.High()
}

func (p megaPins) EnableTx() {
	p.tx.Configure(machine.PinConfig{Mode: machine.PinOutput})
}
