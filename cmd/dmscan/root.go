package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ericlevine/dmscan/internal/config"
	"github.com/ericlevine/dmscan/internal/logging"
)

const (
	exitOK       = 0
	exitUsage    = 1
	exitNotFound = 2
)

// exitError carries a process exit status out of a command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// app is the state shared by the commands of one invocation.
type app struct {
	loader  *config.Loader
	cfgFile string
	cfg     *config.Config
	log     zerolog.Logger
}

func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{loader: config.NewLoader(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "dmscan",
		Short: "Decode and render Data Matrix (ECC200) symbols",
		Long: `dmscan locates Data Matrix symbols in images and decodes them.

Settings are read from dmscan.yaml (in ., or $XDG_CONFIG_HOME/dmscan),
DMSCAN_* environment variables and flags, in increasing precedence.

Examples:
  dmscan scan label.png
  dmscan scan --try-harder --format json photos/*.jpg
  dmscan encode "Hello, World!" -o hello.png`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loader.Load(a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.Setup(logging.Config{
				Level:  cfg.Log.Level,
				Pretty: cfg.Log.Pretty,
				Output: cmd.ErrOrStderr(),
			}).With().Str("run_id", uuid.NewString()).Logger()
			if f := a.loader.ConfigFileUsed(); f != "" {
				a.log.Debug().Str("config", f).Msg("loaded configuration")
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is dmscan.yaml in . or $XDG_CONFIG_HOME/dmscan)")
	pf.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.Bool("log-pretty", false, "human readable logs instead of JSON")
	a.bind(pf.Lookup("log-level"), "log.level")
	a.bind(pf.Lookup("log-pretty"), "log.pretty")

	root.AddCommand(newScanCmd(a), newEncodeCmd(a))
	return root, a
}

// bind lets flag override the configuration key when it is set.
func (a *app) bind(flag *pflag.Flag, key string) {
	cobra.CheckErr(a.loader.BindFlag(key, flag))
}

// execute runs the command line and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	root, _ := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitOK
	}
	var exit *exitError
	if errors.As(err, &exit) {
		if exit.msg != "" {
			fmt.Fprintln(stderr, "dmscan:", exit.msg)
		}
		return exit.code
	}
	fmt.Fprintln(stderr, "dmscan:", err)
	return exitUsage
}
