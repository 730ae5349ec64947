// usartx/hardware.go

package usartx

// InterruptState is the opaque interrupt-mask state captured by
// Hardware.DisableInterrupts and handed back to RestoreInterrupts, so
// critical sections nest correctly inside callers that have already
// suppressed interrupts.
type InterruptState uintptr

// RxStatus carries the per-byte error flags latched by the hardware alongside
// a received byte. Reading the data register clears them, so they are
// delivered together with the byte.
type RxStatus uint8

const (
	// RxParityError indicates the received byte failed the parity check.
	RxParityError RxStatus = 1 << 1
	// RxFrameError indicates a malformed stop bit.
	RxFrameError RxStatus = 1 << 2
	// RxBufferOverflow indicates the hardware receive FIFO overflowed before
	// the interrupt handler got to it.
	RxBufferOverflow RxStatus = 1 << 6
)

// Hardware is the register-level capability the engine drives for one
// peripheral instance: byte transmit/receive, status-flag tests,
// interrupt-enable toggles and the global interrupt mask used for critical
// sections. Implementations exist for the megaAVR USART (atmega builds) and
// for host serial ports (package hostserial); tests supply a scripted one.
type Hardware interface {
	// ClockFrequency returns the peripheral clock in Hz, the basis of the
	// baud register arithmetic.
	ClockFrequency() uint32
	// OscillatorError returns the factory calibration correction for the
	// oscillator, in 1/1024ths, applied to the computed baud setting.
	OscillatorError() int8

	// WriteBaud programs the baud-rate register with a setting computed by
	// BaudSetting.
	WriteBaud(setting uint16)
	// WriteFrame programs character size, parity and stop bits.
	WriteFrame(cfg FrameConfig)
	// SetEnabled turns the receiver and transmitter on or off together.
	SetEnabled(on bool)

	// WriteTxData writes one byte to the transmit data register. Callers must
	// have established that the register is empty.
	WriteTxData(b byte)
	// ReadRxData reads the received byte and its error flags, clearing the
	// receive-complete condition.
	ReadRxData() (byte, RxStatus)

	// TxDataEmpty reports whether the transmit data register can accept a
	// byte.
	TxDataEmpty() bool
	// TxComplete reports whether the last written byte has fully left the
	// shift register.
	TxComplete() bool
	// ClearTxComplete clears the transmit-complete flag so a later Flush
	// observes the completion of the byte about to be written, not a stale
	// prior one.
	ClearTxComplete()

	// SetRxCompleteInterrupt arms or disarms the receive-complete interrupt.
	SetRxCompleteInterrupt(on bool)
	// SetDataEmptyInterrupt arms or disarms the transmit-data-empty
	// interrupt.
	SetDataEmptyInterrupt(on bool)
	// DataEmptyInterruptEnabled reports whether the transmit-data-empty
	// interrupt is currently armed. Armed implies the software TX buffer is
	// non-empty.
	DataEmptyInterruptEnabled() bool

	// DisableInterrupts suppresses interrupt preemption and returns the
	// prior mask state.
	DisableInterrupts() InterruptState
	// RestoreInterrupts reinstates the mask state captured by
	// DisableInterrupts.
	RestoreInterrupts(InterruptState)
}

// PinController configures the RX/TX lines around peripheral activation.
// It is optional: an instance whose pins are muxed elsewhere passes nil.
type PinController interface {
	// PrepareRx sets the RX line to input with pull-up, before the receiver
	// is enabled.
	PrepareRx()
	// PrepareTx drives the TX line to its idle-high level, before the
	// transmitter is enabled.
	PrepareTx()
	// EnableTx switches the TX line to output, after the transmitter is
	// enabled.
	EnableTx()
}

// FrameConfig is the opaque frame-format bitfield programmed into the
// hardware by Begin: character size in bits 1:0, stop-bit mode in bit 3,
// parity mode in bits 5:4 (the megaAVR CTRLC layout).
type FrameConfig uint8

const (
	frameCharSize5 FrameConfig = 0x00
	frameCharSize6 FrameConfig = 0x01
	frameCharSize7 FrameConfig = 0x02
	frameCharSize8 FrameConfig = 0x03
	frameStopBits2 FrameConfig = 0x08
	frameParityEve FrameConfig = 0x20
	frameParityOdd FrameConfig = 0x30
)

// Common frame formats.
const (
	Frame8N1 = frameCharSize8
	Frame8N2 = frameCharSize8 | frameStopBits2
	Frame8E1 = frameCharSize8 | frameParityEve
	Frame8O1 = frameCharSize8 | frameParityOdd
	Frame7E1 = frameCharSize7 | frameParityEve
)

// FrameFormat builds a FrameConfig from data bits (5-8), stop bits (1 or 2)
// and parity.
func FrameFormat(databits, stopbits uint8, parity Parity) (FrameConfig, error) {
	if databits < 5 || databits > 8 {
		return 0, errInvalidDataBits
	}
	if stopbits != 1 && stopbits != 2 {
		return 0, errInvalidStopBits
	}
	cfg := FrameConfig(databits - 5)
	if stopbits == 2 {
		cfg |= frameStopBits2
	}
	switch parity {
	case ParityNone:
	case ParityEven:
		cfg |= frameParityEve
	case ParityOdd:
		cfg |= frameParityOdd
	default:
		return 0, errInvalidParity
	}
	return cfg, nil
}

// DataBits returns the character size encoded in the frame config.
func (cfg FrameConfig) DataBits() uint8 {
	return uint8(cfg&0x03) + 5
}

// StopBits returns the number of stop bits encoded in the frame config.
func (cfg FrameConfig) StopBits() uint8 {
	if cfg&frameStopBits2 != 0 {
		return 2
	}
	return 1
}

// Parity returns the parity mode encoded in the frame config.
func (cfg FrameConfig) Parity() Parity {
	switch cfg & 0x30 {
	case frameParityEve:
		return ParityEven
	case frameParityOdd:
		return ParityOdd
	}
	return ParityNone
}
