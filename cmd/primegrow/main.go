// Copyright © 2021 Io FinNet Group, Inc.

// Command primegrow grows a small seed prime into a large certified prime.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/iofinnet/primegrowth/common"
	"github.com/iofinnet/primegrowth/internal/primegrow"
)

func main() {
	cfg, err := primegrow.ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := common.SetLogLevel(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := primegrow.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		common.Logger.Errorf("primegrow: %v", err)
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
