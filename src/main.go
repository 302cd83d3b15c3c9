package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/rs/zerolog"
	"gopkg.in/alecthomas/kingpin.v2"
)

var Version = "development"

func init() {
	runtime.LockOSThread()
}

// Checks if error is not null, if there is an error it displays a error dialogue box and crashes the program.
func chk(err error) {
	if err != nil {
		ShowErrorDialog(err.Error())
		panic(err)
	}
}

// fatal reports err and exits without unwinding. Used where a panic would
// be swallowed by an actor's recovery.
func fatal(err error) {
	fmt.Fprintln(NewLogWriter(), err)
	ShowErrorDialog(err.Error())
	os.Exit(1)
}

var (
	app          = kingpin.New("lanes", "Lane rhythm game client.")
	configFlag   = app.Flag("config", "Configuration file.").Short('c').Default("save/config.ini").String()
	chartFlag    = app.Flag("chart", "Chart to play, overriding [Config] Chart.").String()
	windowedFlag = app.Flag("windowed", "Run in a window regardless of [Video] Fullscreen.").Bool()
	framesFlag   = app.Flag("frames", "Quit after this many frames; 0 runs until the window closes.").Int()
)

func loadChart(name string, log zerolog.Logger) *Chart {
	if name == "" {
		return &Chart{}
	}
	chart, err := LoadChart(os.DirFS("."), name)
	if err != nil {
		log.Warn().Err(err).Str("chart", name).Msg("chart not loaded, using defaults")
		return &Chart{}
	}
	return chart
}

func main() {
	app.Version(Version)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// Make save directory, if it doesn't exist
	os.Mkdir("save", os.ModeSticky|0755)

	cfg, err := loadConfig(*configFlag)
	chk(err)
	chk(cfg.Save(cfg.Def))

	log := newLogger(NewLogWriter(), cfg.Debug.Logging)
	log.Info().Str("version", Version).Str("config", cfg.Def).Msg("starting")

	// --chart and --windowed override the configuration but do not change it
	chartName := cfg.Config.Chart
	if *chartFlag != "" {
		chartName = *chartFlag
	}
	fullscreen := cfg.Video.Fullscreen && !*windowedFlag

	window, err := newWindow(cfg, fullscreen)
	chk(err)
	gfx := newRenderer()
	chk(gfx.Init())
	log.Info().Str("renderer", gfx.GetName()).Int("glsl", int(gfx.ShaderVersion())).Msg("graphics ready")

	calibration, err := LoadCalibration(cfg.Config.CalibrationFile)
	if err != nil {
		log.Warn().Err(err).Msg("calibration not loaded")
	}
	mode, _ := ParseEntryMode(cfg.Config.EntryMode)

	pool := NewPool(cfg.Pool.Workers, cfg.Pool.MaxBlocking, log)
	w, h := window.FramebufferSize()
	wp := NewWindowParts(gfx, NewDirAssets("."), w, h, log)
	game := NewGameState(pool, GameOptions{
		EntryMode:   mode,
		Bindings:    cfg.KeyBindings(),
		Chart:       loadChart(chartName, log),
		ChartName:   chartName,
		LaneTexture: cfg.Config.LaneTexture,
		StatsFile:   cfg.Config.StatsFile,
		Governor: GovernorOptions{
			Calibration:     calibration,
			CalibrationFile: cfg.Config.CalibrationFile,
			DebugKeys:       cfg.Debug.AllowDebugKeys,
		},
	}, log)
	prelude := NewPrelude(window, wp, pool, game, nil, PreludeOptions{
		Framerate:  cfg.Video.Framerate,
		MaxFrames:  *framesFlag,
		ClearColor: [4]float32{0, 0, 0, 1},
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := prelude.Run(ctx); err != nil {
		log.Error().Err(err).Msg("frame loop stopped")
	}
	log.Info().Int("frames", prelude.Frames()).Msg("bye")
}
