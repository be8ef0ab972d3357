package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/leonardotrapani/scribe/internal/config"
	"github.com/leonardotrapani/scribe/internal/daemon"
	"github.com/leonardotrapani/scribe/internal/ipc"
	"github.com/leonardotrapani/scribe/internal/models/whisper"
	"github.com/leonardotrapani/scribe/internal/notify"
	"github.com/spf13/cobra"
)

// exit codes, spec.md §6.
const (
	exitOK               = 0
	exitFailure          = 1
	exitDaemonNotRunning = 2
	exitProtocolError    = 3
	exitPermissionDenied = 4
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		if ce, ok := err.(*cliError); ok {
			fmt.Fprintln(os.Stderr, ce.msg)
			return ce.code
		}
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	return exitOK
}

// cliError carries the exit code a RunE wants main to use, since cobra
// itself always exits 1 on a returned error.
type cliError struct {
	code int
	msg  string
}

func (e *cliError) Error() string { return e.msg }

func failf(code int, format string, args ...any) error {
	return &cliError{code: code, msg: fmt.Sprintf(format, args...)}
}

var rootCmd = &cobra.Command{
	Use:     "scribe",
	Short:   "Push-to-talk voice dictation for Wayland",
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon()
	},
}

func init() {
	rootCmd.AddCommand(
		daemonCmd(),
		startCmd(),
		stopCmd(),
		cancelCmd(),
		toggleCmd(),
		statusCmd(),
		modelCmd(),
	)
}

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the Scribe daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon()
		},
	}
}

func runDaemon() error {
	manager, err := config.NewManager()
	if err != nil {
		return failf(exitFailure, "load config: %v", err)
	}

	// enable_status/enable_errors are read live off the session
	// Controller's NotifyCfg on every transition, not fixed at startup,
	// so the notifier itself stays Desktop regardless of their values.
	d, err := daemon.NewFromManager(manager, notify.Desktop{})
	if err != nil {
		return failf(exitFailure, "start daemon: %v", err)
	}
	if err := d.Run(); err != nil {
		return failf(exitFailure, "%v", err)
	}
	return nil
}

func sendCmd(cmd ipc.Command) (ipc.Response, error) {
	resp, err := ipc.NewClient().Send(cmd)
	if err != nil {
		return ipc.Response{}, failf(exitDaemonNotRunning, "scribe daemon is not running: %v", err)
	}
	return resp, nil
}

func reportResponse(resp ipc.Response) error {
	if !resp.Ok {
		switch resp.Error {
		case "IpcProtocolError":
			return failf(exitProtocolError, "protocol error: %s", resp.Message)
		default:
			return failf(exitFailure, "%s: %s", resp.Error, resp.Message)
		}
	}
	if resp.State != "" {
		fmt.Println(resp.State)
	}
	return nil
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := sendCmd(ipc.CmdStart)
			if err != nil {
				return err
			}
			return reportResponse(resp)
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop recording and transcribe what was captured",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := sendCmd(ipc.CmdStop)
			if err != nil {
				return err
			}
			return reportResponse(resp)
		},
	}
}

func cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Abandon the current recording or transcription",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := sendCmd(ipc.CmdCancel)
			if err != nil {
				return err
			}
			return reportResponse(resp)
		},
	}
}

func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Start recording if idle, or stop it if recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := sendCmd(ipc.CmdToggle)
			if err != nil {
				return err
			}
			return reportResponse(resp)
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the daemon's current session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := sendCmd(ipc.CmdStatus)
			if err != nil {
				return err
			}
			return reportResponse(resp)
		},
	}
}

func modelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage local Whisper models",
	}
	cmd.AddCommand(
		modelListCmd(),
		modelListAvailableCmd(),
		modelDownloadCmd(),
		modelSetCmd(),
		modelInfoCmd(),
		modelRemoveCmd(),
	)
	return cmd
}

func modelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed models",
		RunE: func(cmd *cobra.Command, args []string) error {
			installed := whisper.ListInstalled()
			if len(installed) == 0 {
				fmt.Println("no models installed")
				return nil
			}
			sort.Strings(installed)
			for _, id := range installed {
				fmt.Println(id)
			}
			return nil
		},
	}
}

func modelListAvailableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-available",
		Short: "List every model that can be downloaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range whisper.ListModels() {
				mark := "[ ]"
				if whisper.IsInstalled(m.ID) {
					mark = "[x]"
				}
				fmt.Printf("%s %-12s %-18s %s\n", mark, m.ID, m.Name, m.Size)
			}
			return nil
		},
	}
}

func modelDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <size>",
		Short: "Download a model into the local cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelDownload(cmd, args[0])
		},
	}
}

func runModelDownload(cmd *cobra.Command, modelID string) error {
	if whisper.GetModel(modelID) == nil {
		return failf(exitFailure, "unknown model: %s", modelID)
	}
	if whisper.IsInstalled(modelID) {
		fmt.Printf("model %q already installed at %s\n", modelID, whisper.GetModelPath(modelID))
		return nil
	}

	fmt.Printf("downloading %s...\n", modelID)
	lastPercent := -1
	err := whisper.Download(cmd.Context(), modelID, func(downloaded, total int64) {
		if total <= 0 {
			return
		}
		percent := int(downloaded * 100 / total)
		if percent >= lastPercent+10 {
			fmt.Printf("%d%% ", percent)
			lastPercent = percent
		}
	})
	if err != nil {
		return failf(exitFailure, "download failed: %v", err)
	}
	fmt.Printf("\ndownload complete: %s\n", whisper.GetModelPath(modelID))
	return nil
}

func modelSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <size>",
		Short: "Set the model the daemon transcribes with (requires a restart)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelSet(args[0])
		},
	}
}

func runModelSet(modelID string) error {
	if whisper.GetModel(modelID) == nil {
		return failf(exitFailure, "unknown model: %s", modelID)
	}
	if !whisper.IsInstalled(modelID) {
		return failf(exitFailure, "model %q is not installed, run 'scribe model download %s' first", modelID, modelID)
	}

	cfg, err := config.Load()
	if err != nil {
		return failf(exitFailure, "load config: %v", err)
	}
	cfg.Transcription.Backend = "local"
	cfg.Transcription.Model = modelID
	if err := cfg.Validate(); err != nil {
		return failf(exitFailure, "%v", err)
	}
	if err := config.Save(cfg); err != nil {
		return failf(exitFailure, "save config: %v", err)
	}

	fmt.Printf("active model set to %q; restart the daemon to apply\n", modelID)
	return nil
}

func modelInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <size>",
		Short: "Show details about a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := whisper.GetModel(args[0])
			if m == nil {
				return failf(exitFailure, "unknown model: %s", args[0])
			}
			fmt.Printf("id:           %s\n", m.ID)
			fmt.Printf("name:         %s\n", m.Name)
			fmt.Printf("size:         %s\n", m.Size)
			fmt.Printf("multilingual: %v\n", m.Multilingual)
			fmt.Printf("installed:    %v\n", whisper.IsInstalled(m.ID))
			if whisper.IsInstalled(m.ID) {
				fmt.Printf("path:         %s\n", whisper.GetModelPath(m.ID))
			}
			return nil
		},
	}
}

func modelRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <size>",
		Short: "Remove a downloaded model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelRemove(args[0])
		},
	}
}

func runModelRemove(modelID string) error {
	if whisper.GetModel(modelID) == nil {
		return failf(exitFailure, "unknown model: %s", modelID)
	}
	if !whisper.IsInstalled(modelID) {
		return failf(exitFailure, "model %q is not installed", modelID)
	}
	if err := whisper.Remove(modelID); err != nil {
		return failf(exitFailure, "remove model: %v", err)
	}
	fmt.Printf("model %q removed\n", modelID)
	return nil
}
