// sgr-filter previews a theme remap: stdin is rewritten as if it were
// written to a session with that theme, and the result goes to stdout.
//
//	ls --color=always | sgr-filter -theme sand
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lixenwraith/vi-arcade/config"
	"github.com/lixenwraith/vi-arcade/sgr"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "config file path")
	themeName := flag.String("theme", "", "theme name (default: config theme)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *themeName != "" {
		cfg.Theme = *themeName
	}
	th, err := cfg.ResolveTheme()
	if err != nil {
		fmt.Fprintf(os.Stderr, "theme: %v\n", err)
		os.Exit(1)
	}

	if err := filter(os.Stdin, os.Stdout, th.Transform()); err != nil {
		fmt.Fprintf(os.Stderr, "sgr-filter: %v\n", err)
		os.Exit(1)
	}
}

// filter copies r to w through the remap; a nil transform copies verbatim
func filter(r io.Reader, w io.Writer, t sgr.Transform) error {
	out := bufio.NewWriter(w)
	stream := sgr.NewStream(t)
	buf := make([]byte, 32*1024)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := string(buf[:n])
			if t != nil {
				chunk = stream.Rewrite(chunk)
			}
			if _, werr := out.WriteString(chunk); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}

	if _, err := out.WriteString(stream.Flush()); err != nil {
		return err
	}
	return out.Flush()
}
