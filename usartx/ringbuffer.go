// usartx/ringbuffer.go

// A byte ring buffer with one slot permanently reserved, so that full and
// empty are distinguishable from the cursors alone: empty iff head == tail,
// full iff (head+1)%size == tail. Compatible with the classic hardware-serial
// buffer discipline: each cursor is advanced by exactly one execution context
// (foreground or interrupt), which makes cursor advancement safe without
// locking. With uint8 cursors a single cursor read/write is indivisible with
// respect to interrupt preemption, so bare reads need no suppression at this
// capacity class; multi-step updates are guarded by the engine's critical
// sections.

package usartx

// Choose a capacity that keeps cursors single-width.
const bufferSize uint8 = 64

// RingBuffer is a fixed-capacity circular byte buffer with separate
// producer (head) and consumer (tail) cursors.
type RingBuffer struct {
	buffer [bufferSize]byte
	head   uint8 // next write slot, producer-owned
	tail   uint8 // next read slot, consumer-owned
}

// NewRingBuffer returns a new ring buffer.
func NewRingBuffer() *RingBuffer {
	return &RingBuffer{}
}

// Size returns the total capacity of the buffer in bytes. One slot is always
// reserved, so at most Size()-1 bytes can be stored at once.
func (rb *RingBuffer) Size() uint8 {
	return bufferSize
}

// Used returns how many bytes are currently stored.
func (rb *RingBuffer) Used() uint8 {
	return (bufferSize + rb.head - rb.tail) % bufferSize
}

// Free returns how many more bytes Put will accept before reporting full.
func (rb *RingBuffer) Free() uint8 {
	return bufferSize - 1 - rb.Used()
}

// Put stores a byte in the buffer. If the buffer is already full, it returns
// false and the buffer is unchanged.
func (rb *RingBuffer) Put(val byte) bool {
	next := (rb.head + 1) % bufferSize
	if next == rb.tail { // full
		return false
	}
	rb.buffer[rb.head] = val // 1) write data
	rb.head = next           // 2) publish
	return true
}

// Get removes and returns the oldest byte. If the buffer is empty, it
// returns (0, false).
func (rb *RingBuffer) Get() (byte, bool) {
	if rb.head == rb.tail {
		return 0, false
	}
	v := rb.buffer[rb.tail]              // 1) read current element
	rb.tail = (rb.tail + 1) % bufferSize // 2) publish consumption
	return v, true
}

// Peek returns the oldest byte without consuming it.
func (rb *RingBuffer) Peek() (byte, bool) {
	if rb.head == rb.tail {
		return 0, false
	}
	return rb.buffer[rb.tail], true
}

// Clear discards all stored bytes by jumping the consumer cursor to the
// producer cursor. Only the consumer context may call it.
func (rb *RingBuffer) Clear() {
	rb.tail = rb.head
}
