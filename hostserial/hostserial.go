// hostserial/hostserial.go

//go:build !tinygo && !baremetal

// Package hostserial adapts a host OS serial port to the usartx.Hardware
// interface, so the transceiver engine and anything layered on it run
// unmodified on a workstation against a USB-TTL adapter. The register model
// maps onto the port: the transmit data register is a one-byte latch drained
// by a writer goroutine, a reader goroutine plays the receive-complete
// interrupt, and a mutex stands in for the global interrupt mask.
package hostserial

import (
	"sync"

	"go.bug.st/serial"

	"github.com/jangala-dev/tinygo-usartx/usartx"
)

// openPort is a seam for tests; production code goes through serial.Open.
var openPort = serial.Open

// Port presents one OS serial port as a usartx peripheral.
type Port struct {
	name  string
	clock uint32

	mu  sync.Mutex // interrupt mask analogue; held while handlers run
	reg sync.Mutex // register state

	engine *usartx.USART

	port serial.Port
	err  error

	baudSetting uint16
	frame       usartx.FrameConfig

	rxcIE bool
	dreIE bool

	txData *byte // transmit data register latch, nil when empty
	txc    bool
	txKick chan struct{}

	rxByte byte

	done chan struct{}
}

// Open prepares an adapter for the named port. clock is the pretend
// peripheral clock the engine computes its baud setting against; the adapter
// inverts that arithmetic when it opens the OS port. The port itself is
// opened by Begin (via SetEnabled) and closed by End.
func Open(name string, clock uint32) *Port {
	return &Port{
		name:   name,
		clock:  clock,
		txKick: make(chan struct{}, 1),
	}
}

// Bind attaches the engine whose interrupt entry points this adapter drives.
// Call it before Begin.
func (p *Port) Bind(u *usartx.USART) { p.engine = u }

// Err returns the first OS-level port error observed, if any. The Hardware
// surface has no error channel, mirroring a peripheral that cannot fail.
func (p *Port) Err() error {
	p.reg.Lock()
	defer p.reg.Unlock()
	return p.err
}

func (p *Port) setErr(err error) {
	p.reg.Lock()
	if p.err == nil {
		p.err = err
	}
	p.reg.Unlock()
}

// --- usartx.Hardware ---

func (p *Port) ClockFrequency() uint32 { return p.clock }

// OscillatorError is zero: the OS port has no calibration to correct for.
func (p *Port) OscillatorError() int8 { return 0 }

func (p *Port) WriteBaud(setting uint16) {
	p.reg.Lock()
	p.baudSetting = setting
	p.reg.Unlock()
}

func (p *Port) WriteFrame(cfg usartx.FrameConfig) {
	p.reg.Lock()
	p.frame = cfg
	p.reg.Unlock()
}

// SetEnabled opens or closes the OS port. The baud setting is inverted back
// to a bit rate (setting ~= 4*clock/baud) and the frame config decoded into
// the port mode.
func (p *Port) SetEnabled(on bool) {
	if !on {
		p.reg.Lock()
		port, done := p.port, p.done
		p.port, p.done = nil, nil
		p.reg.Unlock()
		if done != nil {
			close(done)
		}
		if port != nil {
			port.Close()
		}
		return
	}

	p.reg.Lock()
	setting := p.baudSetting
	frame := p.frame
	p.reg.Unlock()
	if setting == 0 {
		return
	}

	mode := &serial.Mode{
		BaudRate: int(4 * uint64(p.clock) / uint64(setting)),
		DataBits: int(frame.DataBits()),
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	switch frame.Parity() {
	case usartx.ParityEven:
		mode.Parity = serial.EvenParity
	case usartx.ParityOdd:
		mode.Parity = serial.OddParity
	}
	if frame.StopBits() == 2 {
		mode.StopBits = serial.TwoStopBits
	}

	port, err := openPort(p.name, mode)
	if err != nil {
		p.setErr(err)
		return
	}

	done := make(chan struct{})
	p.reg.Lock()
	p.port = port
	p.done = done
	p.reg.Unlock()

	go p.writer(port, done)
	go p.reader(port, done)
}

func (p *Port) WriteTxData(b byte) {
	p.reg.Lock()
	v := b
	p.txData = &v
	p.reg.Unlock()
	select {
	case p.txKick <- struct{}{}:
	default:
	}
}

// ReadRxData returns the latched byte. The OS layer strips framing and
// parity detail, so the status flags are always clear.
func (p *Port) ReadRxData() (byte, usartx.RxStatus) {
	p.reg.Lock()
	defer p.reg.Unlock()
	return p.rxByte, 0
}

func (p *Port) TxDataEmpty() bool {
	p.reg.Lock()
	defer p.reg.Unlock()
	return p.txData == nil
}

func (p *Port) TxComplete() bool {
	p.reg.Lock()
	defer p.reg.Unlock()
	return p.txc
}

func (p *Port) ClearTxComplete() {
	p.reg.Lock()
	p.txc = false
	p.reg.Unlock()
}

func (p *Port) SetRxCompleteInterrupt(on bool) {
	p.reg.Lock()
	p.rxcIE = on
	p.reg.Unlock()
}

func (p *Port) SetDataEmptyInterrupt(on bool) {
	p.reg.Lock()
	p.dreIE = on
	p.reg.Unlock()
	if on {
		select {
		case p.txKick <- struct{}{}:
		default:
		}
	}
}

func (p *Port) DataEmptyInterruptEnabled() bool {
	p.reg.Lock()
	defer p.reg.Unlock()
	return p.dreIE
}

func (p *Port) DisableInterrupts() usartx.InterruptState {
	p.mu.Lock()
	return 0
}

func (p *Port) RestoreInterrupts(usartx.InterruptState) {
	p.mu.Unlock()
}

// --- goroutines standing in for the shift register and the interrupt lines ---

// writer drains the data-register latch to the OS port. After each byte it
// raises transmit-complete and, with the mask held, delivers the data-empty
// interrupt if armed — which typically refills the latch from the engine's
// software buffer.
func (p *Port) writer(port serial.Port, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-p.txKick:
		}
		for {
			p.reg.Lock()
			b := p.txData
			p.txData = nil
			p.reg.Unlock()
			if b == nil {
				break
			}
			if _, err := port.Write([]byte{*b}); err != nil {
				select {
				case <-done:
				default:
					p.setErr(err)
				}
				return
			}
			p.mu.Lock()
			p.reg.Lock()
			p.txc = true
			armed := p.dreIE
			p.reg.Unlock()
			if armed && p.engine != nil {
				p.engine.HandleTxDataEmpty()
			}
			p.mu.Unlock()
		}
	}
}

// reader delivers received bytes one at a time through the engine's
// receive-complete entry point, with the mask held, exactly as the hardware
// vector dispatch would.
func (p *Port) reader(port serial.Port, done chan struct{}) {
	buf := make([]byte, 1)
	for {
		n, err := port.Read(buf)
		if err != nil {
			select {
			case <-done:
			default:
				p.setErr(err)
			}
			return
		}
		if n == 0 {
			continue
		}
		p.mu.Lock()
		p.reg.Lock()
		p.rxByte = buf[0]
		armed := p.rxcIE
		p.reg.Unlock()
		if armed && p.engine != nil {
			p.engine.HandleRxComplete()
		}
		p.mu.Unlock()
	}
}
