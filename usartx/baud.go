// usartx/baud.go

package usartx

// BaudSetting computes the hardware baud-rate register value for a desired
// bit rate. The peripheral samples at 16x in normal mode with a 6-bit
// fractional divisor, which reduces to
//
//	setting = round(8 * clock / baud / 2)
//
// computed here as ((8*clock/baud)+1)/2 in integer arithmetic. oscErr is the
// factory oscillator error for this device in 1/1024ths; the setting is
// scaled by it so the generated bit rate tracks the real oscillator rather
// than its nominal frequency. Both the rounding direction and the correction
// must stay exactly as written or bit-rate accuracy degrades at high rates.
//
// The arithmetic is int32, which holds 8*clock for every supported
// peripheral clock (max 24 MHz).
func BaudSetting(clock, baud uint32, oscErr int8) uint16 {
	setting := (8*int32(clock)/int32(baud) + 1) / 2
	setting += setting * int32(oscErr) / 1024
	return uint16(setting)
}
