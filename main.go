package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/halvard/dmgcore/dmgcore"
	"github.com/halvard/dmgcore/dmgcore/render"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "A Game Boy (DMG) emulator core with a terminal front end"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "boot-rom",
			Usage: "Path to a boot ROM image (currently recorded but not executed; the core starts in its post-boot register state)",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a renderer for the given number of frames, then exit",
		},
		cli.IntFlag{
			Name:  "max-frames",
			Usage: "Frame count for --headless",
			Value: 60,
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "One of debug, info, warn, error",
			Value: "info",
		},
		cli.StringFlag{
			Name:  "frame-limiter",
			Usage: "Frame pacing strategy: adaptive, ticker, or none",
			Value: "adaptive",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	configureLogging(c.String("log-level"))

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	if bootROM := c.String("boot-rom"); bootROM != "" {
		slog.Warn("boot ROM execution is not yet implemented; the core starts directly in its post-boot register state", "path", bootROM)
	}

	emu, err := dmgcore.NewWithFile(romPath)
	if err != nil {
		return err
	}

	if c.Bool("headless") {
		return runHeadless(emu, c.Int("max-frames"))
	}

	renderer, err := render.NewRenderer(emu)
	if err != nil {
		return err
	}

	if ls, ok := renderer.(render.LimiterSetter); ok {
		ls.SetLimiter(render.SelectLimiter(c.String("frame-limiter")))
	}

	return renderer.Run()
}

func runHeadless(emu *dmgcore.Emulator, maxFrames int) error {
	for i := 0; i < maxFrames; i++ {
		emu.RunUntilFrame()
	}
	slog.Info("headless run finished", "frames", emu.GetFrameCount(), "instructions", emu.GetInstructionCount())
	return nil
}

func configureLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetLogLoggerLevel(lvl)
}
