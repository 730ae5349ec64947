// usartx/mock_test.go

package usartx

import "sync"

// mockHardware scripts the register level of one peripheral for engine
// tests. mu models the global interrupt mask: critical sections and
// simulated interrupt deliveries hold it. reg serializes individual register
// accesses the way the hardware bus does, so flag polls that run outside a
// critical section (Flush) stay well-defined while a test goroutine plays
// the role of the shift register.
//
// Two drain models:
//   - instant: a written byte settles onto the wire at the next flag query,
//     so the data register is always observed empty and every write takes
//     the fast path.
//   - manual: a written byte sits in the data register until the test pumps
//     it, forcing writes onto the buffered path.
type mockHardware struct {
	mu  sync.Mutex // interrupt mask
	reg sync.Mutex // register access

	instant bool

	clock  uint32
	oscErr int8

	baud    uint16
	frame   FrameConfig
	enabled bool
	rxcIE   bool
	dreIE   bool

	dataReg *byte // TX data register, nil when empty
	txc     bool  // transmit-complete flag
	wire    []byte

	rxByte   byte
	rxStatus RxStatus
}

func newMockHardware(instant bool) *mockHardware {
	return &mockHardware{instant: instant, clock: 20_000_000}
}

// settle is the instant-mode shift register: completes any in-flight byte.
// Caller holds reg.
func (m *mockHardware) settle() {
	if m.instant && m.dataReg != nil {
		m.wire = append(m.wire, *m.dataReg)
		m.dataReg = nil
		m.txc = true
	}
}

func (m *mockHardware) ClockFrequency() uint32 { return m.clock }
func (m *mockHardware) OscillatorError() int8  { return m.oscErr }

func (m *mockHardware) WriteBaud(setting uint16) {
	m.reg.Lock()
	m.baud = setting
	m.reg.Unlock()
}

func (m *mockHardware) WriteFrame(cfg FrameConfig) {
	m.reg.Lock()
	m.frame = cfg
	m.reg.Unlock()
}

func (m *mockHardware) SetEnabled(on bool) {
	m.reg.Lock()
	m.enabled = on
	m.reg.Unlock()
}

func (m *mockHardware) WriteTxData(b byte) {
	m.reg.Lock()
	if m.dataReg != nil {
		m.reg.Unlock()
		panic("mockHardware: write to a full data register")
	}
	v := b
	m.dataReg = &v
	m.reg.Unlock()
}

func (m *mockHardware) ReadRxData() (byte, RxStatus) {
	m.reg.Lock()
	defer m.reg.Unlock()
	return m.rxByte, m.rxStatus
}

func (m *mockHardware) TxDataEmpty() bool {
	m.reg.Lock()
	defer m.reg.Unlock()
	m.settle()
	return m.dataReg == nil
}

func (m *mockHardware) TxComplete() bool {
	m.reg.Lock()
	defer m.reg.Unlock()
	m.settle()
	return m.txc
}

func (m *mockHardware) ClearTxComplete() {
	m.reg.Lock()
	m.txc = false
	m.reg.Unlock()
}

func (m *mockHardware) SetRxCompleteInterrupt(on bool) {
	m.reg.Lock()
	m.rxcIE = on
	m.reg.Unlock()
}

func (m *mockHardware) SetDataEmptyInterrupt(on bool) {
	m.reg.Lock()
	m.dreIE = on
	m.reg.Unlock()
}

func (m *mockHardware) DataEmptyInterruptEnabled() bool {
	m.reg.Lock()
	defer m.reg.Unlock()
	return m.dreIE
}

func (m *mockHardware) DisableInterrupts() InterruptState {
	m.mu.Lock()
	return 0
}

func (m *mockHardware) RestoreInterrupts(InterruptState) {
	m.mu.Unlock()
}

// --- test-side hardware behaviour ---

// receive delivers one byte the way the hardware would: latch it and fire
// the receive-complete interrupt if armed.
func (m *mockHardware) receive(u *USART, b byte) {
	m.receiveStatus(u, b, 0)
}

func (m *mockHardware) receiveStatus(u *USART, b byte, st RxStatus) {
	m.mu.Lock()
	m.reg.Lock()
	m.rxByte, m.rxStatus = b, st
	armed := m.rxcIE
	m.reg.Unlock()
	if armed {
		u.HandleRxComplete()
	}
	m.mu.Unlock()
}

// pump completes the in-flight byte, if any: onto the wire, data register
// empty, transmit-complete raised. It takes the mask so a completion cannot
// land between a data-register write and the transmit-complete clear inside
// an engine critical section; real hardware needs a full character time for
// that, the mock would do it instantly.
func (m *mockHardware) pump() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reg.Lock()
	defer m.reg.Unlock()
	if m.dataReg == nil {
		return false
	}
	m.wire = append(m.wire, *m.dataReg)
	m.dataReg = nil
	m.txc = true
	return true
}

// fireDRE simulates delivery of the data-empty interrupt: with the mask
// held, run the handler if it is armed and the data register has room.
func (m *mockHardware) fireDRE(u *USART) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reg.Lock()
	ready := m.dreIE && m.dataReg == nil
	m.reg.Unlock()
	if ready {
		u.HandleTxDataEmpty()
	}
	return ready
}

// drainAll alternates shift-register completion and interrupt delivery until
// the transmit path is idle.
func (m *mockHardware) drainAll(u *USART) {
	for {
		moved := m.pump()
		fired := m.fireDRE(u)
		if !moved && !fired {
			return
		}
	}
}

func (m *mockHardware) wireSnapshot() []byte {
	m.reg.Lock()
	defer m.reg.Unlock()
	return append([]byte(nil), m.wire...)
}

// pinRecorder records the Begin-time pin sequencing.
type pinRecorder struct {
	calls []string
}

func (p *pinRecorder) PrepareRx() { p.calls = append(p.calls, "rx-pullup") }
func (p *pinRecorder) PrepareTx() { p.calls = append(p.calls, "tx-idle-high") }
func (p *pinRecorder) EnableTx()  { p.calls = append(p.calls, "tx-output") }
