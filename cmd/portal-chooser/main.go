// portal-chooser is a single-shot helper a DAW spawns to show a native
// open/save dialog through the xdg-desktop-portal FileChooser service. It
// prints the selection as JSON and exits; one dialog per process, no state.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dawtools/portal-chooser/internal/config"
	"github.com/dawtools/portal-chooser/internal/output"
	"github.com/dawtools/portal-chooser/internal/parenting"
	"github.com/dawtools/portal-chooser/internal/portal"
)

var _ = fmt.Print

type options struct {
	title         string
	acceptLabel   string
	multiple      bool
	directory     bool
	save          bool
	modal         bool
	currentFolder string
	currentFile   string
	currentName   string
	filters       []string
	initialFilter string
	choices       []string
	parent        string
	timeout       int
	out           string
	errTarget     string
	hostMarker    string
	configPath    string
}

var opts options

var rootCmd = &cobra.Command{
	Use:           "portal-chooser",
	Short:         "Show a native file chooser via the desktop portal and print the selection as JSON",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&opts.title, "title", "Open", "Dialog title")
	f.StringVar(&opts.acceptLabel, "accept-label", "", "Label for the accept button, e.g. \"_Open\"")
	f.BoolVar(&opts.multiple, "multiple", false, "Allow selecting multiple items")
	f.BoolVar(&opts.directory, "directory", false, "Select a folder instead of a file (SelectFolder)")
	f.BoolVar(&opts.save, "save", false, "Use SaveFile instead of OpenFile")
	f.BoolVar(&opts.modal, "modal", false, "Ask for a modal dialog")
	f.StringVar(&opts.currentFolder, "current-folder", "", "Start directory; invalid or missing directories fall back to $HOME")
	f.StringVar(&opts.currentFile, "current-file", "", "Start file (SaveFile only); no existence check")
	f.StringVar(&opts.currentName, "current-name", "", "Suggested file name (SaveFile only)")
	f.StringArrayVar(&opts.filters, "filter", nil, "File filter as \"Label|glob1;glob2;...\" (repeatable)")
	f.StringVar(&opts.initialFilter, "initial-filter", "", "Label of one of the provided --filter entries")
	f.StringArrayVar(&opts.choices, "choice", nil, "Extra checkbox as \"id|label|default\" (repeatable)")
	f.StringVar(&opts.parent, "parent", "", "Parent window override, \"x11:0x...\" or \"wayland:HANDLE\"")
	f.IntVar(&opts.timeout, "timeout", 0, "Seconds to wait for the dialog; 0 waits indefinitely")
	f.StringVar(&opts.out, "out", "-", "Where to write the JSON result; '-' for stdout")
	f.StringVar(&opts.errTarget, "err", "", "Debug log target; '-' for stderr, a path to append to a file")
	f.StringVar(&opts.hostMarker, "host-marker", "", "Substring identifying the host application (overrides the config file)")
	f.StringVar(&opts.configPath, "config", "", "Config file to load instead of the default")
}

func build_request(cfg config.Config, parent parenting.ParentToken, timeout_set bool) *portal.Request {
	req := &portal.Request{
		Title:         opts.title,
		AcceptLabel:   opts.acceptLabel,
		Multiple:      opts.multiple,
		Modal:         opts.modal,
		CurrentFolder: opts.currentFolder,
		CurrentFile:   opts.currentFile,
		CurrentName:   opts.currentName,
		InitialFilter: opts.initialFilter,
		Parent:        parent,
		Timeout:       time.Duration(opts.timeout) * time.Second,
	}
	switch {
	case opts.directory:
		req.Method = portal.SelectFolder
	case opts.save:
		req.Method = portal.SaveFile
	default:
		req.Method = portal.OpenFile
	}
	if req.AcceptLabel == "" {
		req.AcceptLabel = cfg.AcceptLabel
	}
	// The config deadline is only a default for when --timeout was not given
	// at all. An explicit --timeout 0 means wait indefinitely.
	if !timeout_set && cfg.TimeoutSeconds > 0 {
		req.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	for _, s := range opts.filters {
		if f, ok := portal.ParseFilterArg(s); ok {
			req.Filters = append(req.Filters, f)
		}
	}
	for _, s := range opts.choices {
		if c, ok := portal.ParseChoiceArg(s); ok {
			req.Choices = append(req.Choices, c)
		}
	}
	return req
}

func resolve_parent(cfg config.Config, env config.EnvDirectives, log *output.Logger) parenting.ParentToken {
	if env.NoParent {
		return parenting.ParentToken{}
	}
	if opts.parent != "" {
		if tok := parenting.ParseParentToken(opts.parent); !tok.IsZero() {
			return tok
		}
		// Fall through to normal resolution, as with a bad env override.
		log.Logf("ignoring unparseable --parent value %q", opts.parent)
	}
	marker := cfg.HostMarker
	if opts.hostMarker != "" {
		marker = opts.hostMarker
	}
	pcfg := parenting.Config{
		SessionType:  env.SessionType,
		NoParent:     env.NoParent,
		ForcedParent: env.ForcedParent,
		HostMarker:   marker,
	}
	token := parenting.ResolveParent(pcfg, parenting.SystemProcessReader{}, int32(os.Getppid()), parenting.NewWindowQuery())
	log.Logf("resolved parent window: %q", token.String())
	return token
}

func run(cmd *cobra.Command, args []string) error {
	log := output.NewLogger(opts.errTarget)

	cfg_path := opts.configPath
	if cfg_path == "" {
		cfg_path = config.DefaultPath()
	}
	cfg, err := config.Load(cfg_path)
	if err != nil {
		log.Logf("ignoring unreadable config %s: %s", cfg_path, err)
	}
	env := config.ReadEnv()

	req := build_request(cfg, resolve_parent(cfg, env, log), cmd.Flags().Changed("timeout"))
	res, err := portal.Run(req)
	if err != nil {
		log.Logf("portal error: %s", err)
		if werr := output.WriteJSON(output.ErrorReply{Error: "portal call failed"}, opts.out); werr != nil {
			log.Logf("could not write error result: %s", werr)
		}
		return err
	}
	return output.WriteJSON(output.FromResult(res), opts.out)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
