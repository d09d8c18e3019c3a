// durfmt prints compound durations for counts of seconds or nanoseconds.
//
//	$ durfmt 6000000
//	69d10h40m
//	$ durfmt -s wdhms 6000000
//	9w6d10h40m
//	$ durfmt -s ns 3000129723
//	3s129µs723ns
//	$ durfmt -d 90m1.5s
//	1h30m1s500ms
//	$ durfmt -d -s dhms 90m1.5s
//	1h30m1s
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	if !errors.Is(err, errInvalidInput) {
		fmt.Fprintln(os.Stderr, "durfmt:", err)
	}
	stop()
	os.Exit(1)
}
