// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"wavescrub/internal/config"
	"wavescrub/internal/engine"
	"wavescrub/internal/logging"
	"wavescrub/internal/waveform"
)

const Version = "0.3.0"

type C = layout.Context
type D = layout.Dimensions

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "wavescrub [file]",
		Short:        "Waveform viewer and scrubber",
		Long:         "wavescrub plays an audio file and shows its waveform with a playhead that follows playback.",
		Args:         cobra.MaximumNArgs(1),
		Version:      Version,
		SilenceUsage: true,
		RunE:         runE,
	}
	cmd.Flags().String("config", "", "Path to config file")
	cmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
	return cmd
}

// loadConfig loads the configuration file, applies environment and flag
// overrides and validates the result.
func loadConfig(cmd *cobra.Command, cm *config.ConfigManager) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")

	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = cm.LoadFromFile(configFile)
	} else {
		cfg, err = cm.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	cfg = cm.ApplyEnvironmentOverrides(cfg)
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := cm.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runE(cmd *cobra.Command, args []string) error {
	cm := config.NewConfigManager()
	cfg, err := loadConfig(cmd, cm)
	if err != nil {
		cmd.PrintErrf("Error: %v\n", err)
		return err
	}

	closer, err := logging.Setup(cfg, cm.ResolveLogFilePath(cfg.FileLogging.Filename), os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	slog.Info("wavescrub starting", "version", Version)

	eng := engine.New(afero.NewOsFs(), engine.Options{
		SampleRate:      cfg.SpeakerSampleRate,
		Buffer:          cfg.SpeakerBuffer(),
		ResampleQuality: cfg.ResampleQuality,
	})
	v := newViewer(beepEngine{eng}, waveform.FixedFromFloat(cfg.InitialScale))

	go func() {
		w := new(app.Window)
		w.Option(app.Title("wavescrub"))
		w.Option(app.Size(unit.Dp(800), unit.Dp(600)))
		fileDialog = explorer.NewExplorer(w)

		if len(args) == 1 {
			v.openPath(args[0])
		}

		go tick(w, cfg.TickHz)
		if err := loop(w, v); err != nil {
			slog.Error("window closed with error", "error", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}

// tick invalidates the window at hz so the playhead keeps moving.
func tick(w *app.Window, hz int) {
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()
	for range ticker.C {
		w.Invalidate()
	}
}

func loop(w *app.Window, v *viewer) error {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	var ops op.Ops
	title := ""
	for {
		e := w.Event()
		fileDialog.ListenEvents(e)
		switch evt := e.(type) {
		case app.DestroyEvent:
			v.eject()
			return evt.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, evt)

			select {
			case req := <-openRequests:
				v.open(req.name, req.rc)
			default:
			}

			if openButton.Clicked(gtx) {
				go openFileDialog(w)
			}
			if backButton.Clicked(gtx) {
				v.backPage()
			}
			if fwdButton.Clicked(gtx) {
				v.forwardPage()
			}
			if playButton.Clicked(gtx) {
				v.play()
			}
			if stopButton.Clicked(gtx) {
				v.stop()
			}
			handleKeys(gtx, v)

			if t := v.title(); t != title {
				title = t
				w.Option(app.Title(title))
			}
			render(gtx, th, v, evt)
		}
	}
}

func handleKeys(gtx C, v *viewer) {
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "+"},
			key.Filter{Name: "="},
			key.Filter{Name: "-"},
			key.Filter{Name: key.NameLeftArrow},
			key.Filter{Name: key.NameRightArrow},
			key.Filter{Name: key.NameSpace},
		)
		if !ok {
			return
		}
		if e, ok := ev.(key.Event); ok && e.State == key.Press {
			v.handleKey(e.Name)
		}
	}
}
