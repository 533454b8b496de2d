package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/akamensky/argparse"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/mudra/internal/annotate"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/eval"
	"github.com/ayusman/mudra/internal/face"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/ui"
	"github.com/ayusman/mudra/internal/vision"
)

const appID = "io.github.ayusman.mudra"

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "gui")
	}

	parser := argparse.NewParser("mudra", "Hand gesture and smile recognition")
	envFile := parser.String("e", "env", &argparse.Options{Help: "Environment file to load", Default: ".env"})
	guiCmd := parser.NewCommand("gui", "Open the video window (default)")
	evalCmd := parser.NewCommand("evaluate", "Score the detectors against a labelled CSV")
	input := evalCmd.String("i", "input", &argparse.Options{Help: "CSV with image_path, true_gesture and true_face_expression columns", Required: true})
	dbPath := evalCmd.String("", "db", &argparse.Options{Help: "SQLite file to record the run in", Default: ""})

	if err := parser.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(2)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		os.Exit(1)
	}

	switch {
	case evalCmd.Happened():
		if *dbPath != "" {
			cfg.DBPath = *dbPath
		}
		err = runEvaluate(cfg, *input, log)
	case guiCmd.Happened():
		err = runGUI(cfg, log)
	}
	if err != nil {
		log.WithError(err).Fatal("mudra failed")
	}
}

// pipeline holds the detectors behind a Processor so they can be released together.
type pipeline struct {
	proc    *vision.Processor
	closers []func() error
}

func (p *pipeline) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		p.closers[i]()
	}
}

// pipelineOptions differ between the live window and offline scoring.
type pipelineOptions struct {
	// Hands configures the hand detector.
	Hands detector.Config
	// AllowMock substitutes the mock detector when MediaPipe is unavailable.
	// Scoring must not do this: a detector that sees nothing is not a measurement.
	AllowMock bool
}

var (
	liveOptions  = pipelineOptions{Hands: detector.DefaultConfig(), AllowMock: true}
	stillOptions = pipelineOptions{Hands: detector.StillImageConfig()}
)

func newHandDetector(cfg config.Config, log logrus.FieldLogger, opts pipelineOptions) (detector.Detector, error) {
	mp, err := detector.NewMediaPipeDetector(detector.MediaPipeOptions{
		Config:     opts.Hands,
		ScriptPath: cfg.MediaPipeScript,
		PythonPath: cfg.Python,
		Logger:     log,
	})
	if err != nil {
		if !opts.AllowMock {
			return nil, fmt.Errorf("hand detector: %w", err)
		}
		log.WithError(err).Warn("MediaPipe not available, using mock detector")
		return detector.NewMockDetector(), nil
	}
	log.Info("using MediaPipe hand detection")
	return mp, nil
}

func newPipeline(cfg config.Config, log logrus.FieldLogger, opts pipelineOptions) (*pipeline, error) {
	p := &pipeline{}

	hands, err := newHandDetector(cfg, log, opts)
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, hands.Close)

	faces, err := face.NewCascade(cfg.FaceCascade, face.FaceScaleFactor, face.FaceMinNeighbors)
	if err != nil {
		p.Close()
		return nil, err
	}
	p.closers = append(p.closers, faces.Close)

	smiles, err := face.NewCascade(cfg.SmileCascade, face.SmileScaleFactor, face.SmileMinNeighbors)
	if err != nil {
		p.Close()
		return nil, err
	}
	p.closers = append(p.closers, smiles.Close)


	p.proc = vision.NewProcessor(hands, face.NewAnalyzer(faces, smiles), annotate.New(), log)
	return p, nil
}

func runGUI(cfg config.Config, log *logrus.Logger) error {
	p, err := newPipeline(cfg, log, liveOptions)
	if err != nil {
		return err
	}
	defer p.Close()

	fa := fyneapp.NewWithID(appID)
	win := ui.NewWindow(fa, log)
	tray := ui.NewTray()

	loop := app.New(app.Config{
		TickInterval:    cfg.TickInterval,
		MaxReadFailures: cfg.MaxReadFailures,
		Logger:          log,
		OnLabels: func(l app.Labels) {
			win.SetLabels(l)
			if len(l.Gestures) > 0 {
				tray.SetLastGesture(l.Gestures[0])
			}
		},
	}, capture.NewCamera(cfg.CameraID), p.proc, win)

	win.Bind(loop)
	tray.OnStart(func() {
		go func() {
			if err := loop.Start(); err != nil {
				log.WithError(err).Error("start video")
			}
		}()
	})
	tray.OnStop(func() { go loop.Stop() })
	tray.OnQuit(fa.Quit)
	if !tray.Install(fa) {
		log.Debug("no system tray available")
	}

	win.Window().ShowAndRun()
	loop.Stop()
	return nil
}

func runEvaluate(cfg config.Config, input string, log *logrus.Logger) error {
	rows, err := eval.LoadFile(input)
	if err != nil {
		return err
	}
	log.WithField("rows", len(rows)).Info("loaded evaluation rows")

	p, err := newPipeline(cfg, log, stillOptions)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := eval.New(p.proc, eval.Options{Logger: log}).Evaluate(ctx, rows)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("evaluation interrupted")
		}
		return err
	}

	if err := report.Print(os.Stdout); err != nil {
		return err
	}

	if cfg.DBPath == "" {
		return nil
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	run, preds := report.Record(input)
	if err := st.Runs().Create(run, preds); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	log.WithFields(logrus.Fields{"run": run.ID, "db": cfg.DBPath}).Info("evaluation recorded")
	return nil
}
