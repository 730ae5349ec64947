// cmd/baudtable/main.go

// Prints the baud-rate register settings the engine programs for the common
// bit rates, per peripheral clock, together with the rate that setting
// actually generates and its error. Useful when deciding whether a clock/rate
// pair is usable at all (rule of thumb: keep the error under 2%).
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jangala-dev/tinygo-usartx/usartx"
)

var clocks = []uint32{20_000_000, 16_000_000, 8_000_000}

var rates = []uint32{2400, 9600, 19200, 38400, 57600, 115200, 230400, 500000}

func main() {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "clock\trate\tsetting\tactual\terror")
	for _, clock := range clocks {
		for _, rate := range rates {
			setting := usartx.BaudSetting(clock, rate, 0)
			if setting == 0 {
				fmt.Fprintf(w, "%d\t%d\t-\t-\t(unreachable)\n", clock, rate)
				continue
			}
			// setting = 4*clock/rate, so the generated rate is 4*clock/setting.
			actual := 4 * uint64(clock) / uint64(setting)
			errPct := 100 * (float64(actual) - float64(rate)) / float64(rate)
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%+.2f%%\n", clock, rate, setting, actual, errPct)
		}
	}
	w.Flush()
}
