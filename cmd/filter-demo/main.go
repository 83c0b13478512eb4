package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/oled"
	"github.com/BeatGlow/oled/internal/config"
	"github.com/BeatGlow/oled/internal/filter"
)

func main() {
	configFlag := flag.String("config", "filter.yaml", "Configuration file")
	i2cDeviceFlag := flag.Int("i2c-dev", 0, "I²C device number, -1 uses the first available (default: from config)")
	i2cAddrFlag := flag.Uint("i2c-addr", 0, "I²C device address (default: from config)")
	widthFlag := flag.Uint("w", 0, "Container width (default: from joystick)")
	heightFlag := flag.Uint("h", 0, "Container height (default: from joystick)")
	intervalFlag := flag.Duration("interval", 0, "Fill step interval")
	idleFlag := flag.Duration("idle", 2*time.Second, "Time to show the empty container before filling")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i2c-dev":
			cfg.Display.Bus = *i2cDeviceFlag
		case "i2c-addr":
			cfg.Display.Addr = uint16(*i2cAddrFlag)
		case "w":
			cfg.Filter.Width = uint8(*widthFlag)
		case "h":
			cfg.Filter.Height = uint8(*heightFlag)
		case "interval":
			cfg.Filter.Interval = *intervalFlag
		}
	})
	cfg.Normalize()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(cfg.Level())
	if *debugFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if _, err = host.Init(); err != nil {
		fatal(err)
	}

	bus, err := oled.OpenI2C(&oled.I2CConfig{
		Device: cfg.Display.Bus,
		Speed:  physic.Frequency(cfg.Display.SpeedKHz) * physic.KiloHertz,
	})
	if err != nil {
		fatal(err)
	}
	defer bus.Close()

	fb, err := oled.New(bus, &oled.Config{
		Width:  cfg.Display.Width,
		Height: cfg.Display.Height,
		Addr:   cfg.Display.Addr,
	})
	if err != nil {
		fatal(err)
	}
	defer func() {
		if err := fb.Close(); err != nil {
			log.Error().Err(err).Msg("turning display off failed")
		}
	}()
	log.Info().Stringer("bus", bus).Stringer("driver", fb).Msg("using display")

	if err = fb.Configure(); err != nil {
		fatal(err)
	}
	if err = fb.SetContrast(uint8(cfg.Display.Contrast)); err != nil {
		fatal(err)
	}

	scene := filter.Scene{Width: cfg.Filter.Width, Height: cfg.Filter.Height}
	if scene.Width == 0 || scene.Height == 0 {
		w, h := filter.SizeFromJoystick(cfg.Filter.JoystickX, cfg.Filter.JoystickY, fb.Bounds().Size())
		if scene.Width == 0 {
			scene.Width = w
		}
		if scene.Height == 0 {
			scene.Height = h
		}
	}
	log.Info().Uint8("width", scene.Width).Uint8("height", scene.Height).Msg("container size")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		renderer = filter.NewRenderer(fb)
		clock    = clockwork.NewRealClock()
		seq      = filter.NewSequence(clock, cfg.Filter.Interval)
	)
	g, ctx := errgroup.WithContext(ctx)
	runCtx, cancelRun := context.WithCancel(ctx)
	g.Go(func() error {
		return renderer.Run(runCtx)
	})
	g.Go(func() error {
		defer cancelRun()

		renderer.Request(scene)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(*idleFlag):
		}

		fmt.Println("filling, hit control-c to stop...")
		full, err := seq.Run(ctx, renderer, scene, fb.MaxFill(scene.Height))
		if err != nil {
			return err
		}
		log.Info().Uint8("level", full.Level).Msg("fill complete")

		// Keep asking for the full container until it made it to the panel.
		for {
			waitCtx, cancelWait := context.WithTimeout(ctx, cfg.Filter.Interval)
			err := renderer.WaitPresented(waitCtx, full)
			cancelWait()
			if err == nil {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Msg("final frame not presented yet, retrying")
			renderer.Request(full)
		}
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
	log.Info().Uint64("frames", renderer.Frames()).Msg("done")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
