// @focus: #flow { init } #sys { lifecycle }
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/lixenwraith/vi-arcade/config"
	"github.com/lixenwraith/vi-arcade/core"
	"github.com/lixenwraith/vi-arcade/host"
	"github.com/lixenwraith/vi-arcade/service"
	"github.com/lixenwraith/vi-arcade/session"
	"github.com/lixenwraith/vi-arcade/theme"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", config.DefaultPath(), "config file path")
	themeName := flag.String("theme", "", "theme name (overrides config)")
	debug := flag.Bool("debug", false, "write logs to "+filepath.Join(logDir, logFileName))
	syncOutput := flag.Bool("sync", true, "wrap writes in synchronized output")
	releaseMs := flag.Int("release-ms", config.Default().KeyReleaseMs, "synthetic keyup delay in ms")
	listThemes := flag.Bool("list-themes", false, "print available themes and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [program [args...]]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	// Explicit flags win over file and env
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "theme":
			cfg.Theme = *themeName
		case "debug":
			cfg.Debug = *debug
		case "sync":
			cfg.SyncOutput = *syncOutput
		case "release-ms":
			cfg.KeyReleaseMs = *releaseMs
		}
	})
	cfg.Clamp()

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	if *listThemes {
		printThemes(cfg)
		return 0
	}

	th, err := cfg.ResolveTheme()
	if err != nil {
		fmt.Fprintf(os.Stderr, "theme: %v\n", err)
		return 1
	}
	log.Printf("[main] theme %s (%s), sync=%v, release=%s", th.Name, th.Kind(), cfg.SyncOutput, cfg.KeyReleaseDelay())

	themes := theme.NewContext(th)
	hub := service.NewHub()

	sessions := session.NewService(themes)
	mustRegister(hub, sessions)

	if watchable(*configPath) {
		mustRegister(hub, config.NewWatcher(*configPath, func(c *config.Config) {
			next, err := c.ResolveTheme()
			if err != nil {
				log.Printf("[config] reload kept theme %s: %v", themes.Current().Name, err)
				return
			}
			themes.Set(next)
		}))
	}

	var program *host.Service
	if args := flag.Args(); len(args) > 0 {
		program = host.NewService(sessions, host.Program{Name: args[0], Args: args[1:]})
		mustRegister(hub, program)
	}

	if err := hub.InitAll(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	core.SetCrashCleanup(func() { sessions.Session().Close() })
	defer core.SetCrashCleanup(nil)

	if err := hub.StartAll(); err != nil {
		hub.StopAll()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer hub.StopAll()

	if program != nil {
		<-program.Done()
		return program.ExitCode()
	}
	runViewer(sessions.Session(), themes)
	return 0
}

func mustRegister(hub *service.Hub, svc service.Service) {
	if err := hub.Register(svc); err != nil {
		panic(err)
	}
}

// watchable reports whether the config file's directory exists to be watched
func watchable(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(filepath.Dir(path))
	return err == nil && info.IsDir()
}

func printThemes(cfg *config.Config) {
	for _, name := range theme.BuiltinNames() {
		t, _ := theme.Builtin(name)
		fmt.Printf("%-10s %s  %s\n", name, t.Background.Background.Hex(), t.Kind())
	}

	user := make([]string, 0, len(cfg.Themes))
	for name := range cfg.Themes {
		user = append(user, name)
	}
	sort.Strings(user)
	for _, name := range user {
		t, err := cfg.LookupTheme(name)
		if err != nil {
			fmt.Printf("%-10s invalid: %v\n", name, err)
			continue
		}
		fmt.Printf("%-10s %s  %s (user)\n", name, t.Background.Background.Hex(), t.Kind())
	}
}
