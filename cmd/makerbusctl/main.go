// Command makerbusctl is a small diagnostic tool for a MakerBus serial
// link: it opens a port, and either discovers the modules answering on it
// or broadcasts a bus reset.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/makerbus/makerbus"
)

func main() {
	device := flag.String("device", "", "serial device path, e.g. /dev/ttyUSB0")
	baud := flag.Int("baud", 115200, "baud rate")
	timeout := flag.Duration("timeout", time.Second, "read timeout")
	resetBus := flag.Bool("reset", false, "broadcast a bus reset instead of discovering")
	verbose := flag.Bool("v", false, "enable structured logging to stderr")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: makerbusctl -device <path> [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *device == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := makerbus.DefaultConfig(*device)
	cfg.Baud = *baud
	cfg.ReadTimeout = *timeout
	if *verbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("makerbusctl: build logger: %v", err)
		}
		defer zl.Sync()
		cfg.Logger = makerbus.NewZapLogger(zl)
	}

	bus, err := makerbus.Open(cfg)
	if err != nil {
		log.Fatalf("makerbusctl: open %s: %v", *device, err)
	}

	if *resetBus {
		if err := bus.Reset(); err != nil {
			log.Fatalf("makerbusctl: reset: %v", err)
		}
		fmt.Println("bus reset acknowledged")
		return
	}

	ids, err := bus.Discover()
	if err != nil {
		log.Fatalf("makerbusctl: discover: %v", err)
	}
	for _, id := range ids {
		fmt.Println(id)
	}
}
