package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/vi-arcade/config"
	"github.com/lixenwraith/vi-arcade/core"
	"github.com/lixenwraith/vi-arcade/session"
	"github.com/lixenwraith/vi-arcade/terminal"
)

// Prints the keydown/keyup stream line by line, q quits
func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	releaseMs := flag.Int("release-ms", 0, "synthetic keyup delay in ms (0: config value)")
	flag.Parse()

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *releaseMs > 0 {
		cfg.KeyReleaseMs = *releaseMs
		cfg.Clamp()
	}

	sess, err := session.New(
		session.WithReleaseDelay(cfg.KeyReleaseDelay()),
		session.WithSyncOutput(false),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()
	core.SetCrashCleanup(func() { sess.Close() })

	start := time.Now()
	quit := make(chan struct{})

	fmt.Fprintf(sess, "Input Test - %dx%d, keyup after %s - q quits, Ctrl+C exits\r\n", sess.Cols(), sess.Rows(), cfg.KeyReleaseDelay())

	sess.OnKey(func(ev terminal.KeyEvent) {
		d := ev.DomEvent
		fmt.Fprintf(sess, "%8.3fs %-7s key=%-12q code=%-12s keyCode=%d\r\n",
			time.Since(start).Seconds(), d.Type, d.Key, d.Code, d.KeyCode)
		if d.Type == terminal.KeyDown && ev.Key == "q" {
			select {
			case <-quit:
			default:
				close(quit)
			}
		}
	})
	sess.OnData(func(raw string) {
		fmt.Fprintf(sess, "         data    %q\r\n", raw)
	})
	sess.OnResize(func(sz session.Size) {
		fmt.Fprintf(sess, "         resize  %dx%d\r\n", sz.Cols, sz.Rows)
	})

	select {
	case <-quit:
	case <-sess.Done():
	}
}
