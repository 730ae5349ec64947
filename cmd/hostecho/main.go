//go:build !tinygo && !baremetal

// Echoes everything received on a host serial port back to the sender,
// running the full buffered transceiver engine over the hostserial adapter.
//
//	hostecho /dev/ttyUSB0 [baud]
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jangala-dev/tinygo-usartx/hostserial"
	"github.com/jangala-dev/tinygo-usartx/usartx"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: hostecho <port> [baud]")
		os.Exit(2)
	}
	baud := uint32(115200)
	if len(os.Args) > 2 {
		v, err := strconv.ParseUint(os.Args[2], 10, 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad baud %q: %v\n", os.Args[2], err)
			os.Exit(2)
		}
		baud = uint32(v)
	}

	port := hostserial.Open(os.Args[1], 16_000_000)
	u := usartx.New(port, nil)
	port.Bind(u)

	if err := u.Begin(baud, usartx.Frame8N1); err != nil {
		fmt.Fprintln(os.Stderr, "begin:", err)
		os.Exit(1)
	}
	if err := port.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer u.End()

	fmt.Printf("echoing on %s at %d baud\n", os.Args[1], baud)

	buf := make([]byte, 64)
	ctx := context.Background()
	for {
		n, err := u.RecvSomeContext(ctx, buf)
		if err != nil {
			fmt.Fprintln(os.Stderr, "recv:", err)
			os.Exit(1)
		}
		if _, err := u.Write(buf[:n]); err != nil {
			fmt.Fprintln(os.Stderr, "write:", err)
			os.Exit(1)
		}
		u.Flush()
	}
}
