// Package daemon wires the configured components into a session
// Controller and serves it over the IPC socket until shutdown.
// Grounded on daemon.go's signal handling and accept-loop shape,
// generalized from the byte-command bus to ipc's length-prefixed
// protocol and from the pipeline actor to session.Controller.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/leonardotrapani/scribe/internal/audio"
	"github.com/leonardotrapani/scribe/internal/config"
	"github.com/leonardotrapani/scribe/internal/injection"
	"github.com/leonardotrapani/scribe/internal/ipc"
	"github.com/leonardotrapani/scribe/internal/logging"
	"github.com/leonardotrapani/scribe/internal/models/whisper"
	"github.com/leonardotrapani/scribe/internal/notify"
	"github.com/leonardotrapani/scribe/internal/session"
	"github.com/leonardotrapani/scribe/internal/transcriber"
	"github.com/leonardotrapani/scribe/internal/vad"
)

type Daemon struct {
	manager    *config.Manager
	notifier   notify.Notifier
	controller *session.Controller
	logCfg     config.LoggingConfig

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds every component from cfg and wires them into a session
// Controller. The caller owns cfg's lifetime; Run does not reload it
// (that is Manager's job, via NewFromManager).
func New(cfg *config.Config, n notify.Notifier) (*Daemon, error) {
	if n == nil {
		n = notify.Desktop{}
	}

	framer, err := vad.New(cfg.ToVADConfig())
	if err != nil {
		return nil, fmt.Errorf("create vad framer: %w", err)
	}

	modelPath := resolveModelPath(cfg.Transcription.Model)
	trans, err := transcriber.New(cfg.ToTranscriberConfig(modelPath))
	if err != nil {
		return nil, fmt.Errorf("create transcriber: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	controller := session.New(session.Deps{
		Audio:         audio.NewSource(cfg.ToAudioConfig()),
		VAD:           framer,
		Transcriber:   trans,
		Injector:      injection.NewInjector(cfg.ToInjectionConfig()),
		Notifier:      n,
		NotifyCfg:     toNotifyConfig(cfg.Notifications),
		MinDurationMS: cfg.VAD.MinDurationMS,
		Language:      cfg.Transcription.Language,
		InitialPrompt: cfg.Transcription.InitialPrompt,
	})

	return &Daemon{
		notifier:   n,
		controller: controller,
		logCfg:     cfg.Logging,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// NewFromManager is the CLI's entry point: it loads config through a
// Manager so config.toml edits to the [notifications] table take effect
// while the daemon runs (audio/vad/transcription/injection changes still
// require a restart, since those components are constructed once here).
func NewFromManager(manager *config.Manager, n notify.Notifier) (*Daemon, error) {
	d, err := New(manager.Get(), n)
	if err != nil {
		return nil, err
	}
	d.manager = manager
	return d, nil
}

func resolveModelPath(model string) string {
	if model == "" {
		return ""
	}
	if whisper.IsInstalled(model) {
		return whisper.GetModelPath(model)
	}
	return ""
}

func toNotifyConfig(n config.NotificationsConfig) notify.Config {
	return notify.Config{
		EnableStatus:  n.EnableStatus,
		EnableErrors:  n.EnableErrors,
		ShowPreview:   n.ShowPreview,
		PreviewLength: n.PreviewLength,
	}
}

// Run listens on the IPC socket and drives the session Controller until a
// shutdown signal arrives or Stop is called.
func (d *Daemon) Run() error {
	logCloser, err := logging.Setup(d.logCfg.Level, d.logCfg.File)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer logCloser.Close()

	ln, err := ipc.Listen()
	if err != nil {
		return err
	}
	defer ln.Close()

	if d.manager != nil {
		if err := d.manager.Watch(d.ctx); err != nil {
			logging.Warnf("daemon: config hot-reload disabled: %v", err)
		} else {
			d.manager.OnReload(func(cfg *config.Config) {
				d.controller.SetNotifyConfig(toNotifyConfig(cfg.Notifications))
				logging.Infof("daemon: notification settings reloaded")
			})
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		logging.Infof("daemon: received signal %v, shutting down", sig)
		d.cancel()
	}()

	go func() {
		<-d.ctx.Done()
		ln.Close()
	}()

	go func() {
		if err := d.controller.Run(d.ctx); err != nil {
			logging.Errorf("daemon: session controller exited: %v", err)
		}
	}()

	server := ipc.NewServer(ln, d.controller.Submit)

	logging.Infof("daemon: listening on %s", ipc.SockPath())

	if err := server.Serve(); err != nil {
		if d.ctx.Err() != nil {
			logging.Infof("daemon: shutdown complete")
			return nil
		}
		return fmt.Errorf("ipc accept loop: %w", err)
	}
	return nil
}

// Stop requests a graceful shutdown; Run returns once it completes.
func (d *Daemon) Stop() {
	d.cancel()
}
