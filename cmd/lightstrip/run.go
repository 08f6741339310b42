package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/coreman2200/funtimes-lightstrip/internal/app"
	"github.com/coreman2200/funtimes-lightstrip/internal/config"
	"github.com/coreman2200/funtimes-lightstrip/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the render loop",
	RunE:  runStrip,
}

func init() {
	addRunFlags(runCmd.Flags())
}

func addRunFlags(f *pflag.FlagSet) {
	f.String("driver", "sim", "LED driver: sim | spi | pwm")
	f.Int("length", 300, "number of LEDs")
	f.Int("brightness", 164, "startup brightness 0..255")
	f.String("color-order", "GRB", "strip channel order")
	f.Int("fps", 60, "base rate the cadences derive from")
	f.String("serial", "", "serial port for command bytes")
	f.Int("baud", 9600, "serial baud rate")
	f.String("addr", ":8080", "monitor listen address, empty to disable")
	f.String("button", "", "GPIO pin name for the next-pattern button")
	f.String("selftest", "", "run a self-test at startup: index_sweep | rgb_channels | halves")
	f.Float64("cycle", 0, "advance the pattern every N seconds")
}

// loadConfig layers explicitly set flags over the config file over the
// defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		c, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	var err error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = applyFlag(cfg, cmd.Flags(), f.Name)
	})
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func applyFlag(cfg *config.Config, fs *pflag.FlagSet, name string) (err error) {
	switch name {
	case "log-level":
		cfg.Log.Level, err = fs.GetString(name)
	case "log-format":
		cfg.Log.Format, err = fs.GetString(name)
	case "driver":
		cfg.Driver, err = fs.GetString(name)
	case "length":
		cfg.Strip.Length, err = fs.GetInt(name)
	case "brightness":
		cfg.Brightness, err = fs.GetInt(name)
	case "color-order":
		cfg.Strip.ColorOrder, err = fs.GetString(name)
	case "fps":
		cfg.FPS, err = fs.GetInt(name)
	case "serial":
		cfg.Serial.Port, err = fs.GetString(name)
	case "baud":
		cfg.Serial.Baud, err = fs.GetInt(name)
	case "addr":
		cfg.Monitor.Addr, err = fs.GetString(name)
	case "button":
		cfg.Button.Pin, err = fs.GetString(name)
	case "selftest":
		cfg.SelfTest, err = fs.GetString(name)
	case "cycle":
		cfg.Playlist.CycleSeconds, err = fs.GetFloat64(name)
	}
	return err
}

func runStrip(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	a.Ready = func() {
		if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
			log.Warn().Err(err).Msg("sd_notify failed")
		} else if ok {
			log.Debug().Msg("notified systemd")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Info().
		Int("length", cfg.Strip.Length).
		Str("driver", a.DriverName).
		Int("brightness", cfg.Brightness).
		Msg("lightstrip starting")
	err = a.Run(ctx)
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	log.Info().Msg("shut down")
	return err
}
