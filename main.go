/*
Interactive model viewer built on the engine package
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/anima-viewer/engine"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/testbed"
)

func main() {
	configPath := flag.String("config", engine.DefaultConfigPath, "path to the viewer TOML config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		core.LogError(err.Error())
		os.Exit(1)
	}
}

func run(configPath string) error {
	config, err := engine.LoadApplicationConfig(configPath)
	if err != nil {
		return err
	}

	tb, err := testbed.NewTestGame(config)
	if err != nil {
		return err
	}

	e, err := engine.New(tb.Game)
	if err != nil {
		return err
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		return err
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		// the loop owns the GL context, so only ask it to stop
		<-sigCh
		e.Quit()
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		return err
	}
	return runErr
}
