// usartx/event.go

package usartx

// SetReceiveEvent registers fn to be fired by PollEvent when unread data is
// buffered. Passing nil clears the hook. The engine never requires a hook;
// it exists for sketch-style programs that want a "data arrived" callback
// once per scheduler tick instead of polling Available themselves.
func (u *USART) SetReceiveEvent(fn func()) {
	u.event = fn
}

// PollEvent fires the registered receive event if one is set and at least one
// unread byte is buffered. It is meant to be called from the foreground
// scheduler tick, never from interrupt context.
func (u *USART) PollEvent() {
	if u.event != nil && u.Available() > 0 {
		u.event()
	}
}

// eventSerials lists the instances RunEvents walks. Deployment wiring
// (atmega_instances.go) registers the physical peripherals here.
var eventSerials []*USART

// RunEvents fires the receive event of every registered instance with
// buffered data. Call it once per main-loop iteration.
func RunEvents() {
	for _, u := range eventSerials {
		u.PollEvent()
	}
}
