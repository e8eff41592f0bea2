package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/config"
	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/cli/repl"
	"github.com/yndnr/respkv/internal/infra/buildinfo"
)

const settingsKey = "settings"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "respkv-cli",
		Usage:     "respkv command-line client",
		UsageText: "respkv-cli [global options] [command [arguments...]]\n   respkv-cli [global options] RAW COMMAND WORDS...",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			GetCommand(),
			SetCommand(),
		},
		Before: loadSettings,
		Action: rootAction,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "server address (host:port)",
			EnvVars: []string{"RESPKV_SERVER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "reply format: raw, json, yaml",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "dial and command timeout",
		},
	}
}

// Settings are the effective connection and output settings.
type Settings struct {
	Server  string
	Output  output.Format
	Timeout time.Duration
	History string
}

// loadSettings merges the config file, environment and flags.
func loadSettings(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("server") {
		cfg.Server = c.String("server")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = connection.DefaultTimeout
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[settingsKey] = &Settings{
		Server:  cfg.Server,
		Output:  format,
		Timeout: cfg.Timeout,
		History: cfg.HistoryFile,
	}
	return nil
}

// GetSettings retrieves the effective settings from context.
func GetSettings(c *cli.Context) *Settings {
	if s, ok := c.App.Metadata[settingsKey].(*Settings); ok {
		return s
	}
	d := config.Default()
	return &Settings{Server: d.Server, Output: output.FormatRaw, Timeout: d.Timeout}
}

// run sends one command and prints the reply.
func run(c *cli.Context, args ...string) error {
	s := GetSettings(c)

	ctx, cancel := context.WithTimeout(c.Context, s.Timeout)
	defer cancel()

	client, err := connection.Dial(ctx, s.Server, s.Timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	reply, err := client.Do(ctx, args...)
	if err != nil {
		return err
	}
	return output.NewFormatter(s.Output).Format(c.App.Writer, reply)
}

// rootAction runs raw command words, or interactive mode without them.
func rootAction(c *cli.Context) error {
	if c.NArg() > 0 {
		return run(c, c.Args().Slice()...)
	}
	return interactive(c)
}

func interactive(c *cli.Context) error {
	s := GetSettings(c)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	client, err := connection.Dial(ctx, s.Server, s.Timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	formatter := output.NewFormatter(s.Output)
	exec := func(ctx context.Context, w io.Writer, args []string) error {
		reply, err := client.Do(ctx, args...)
		if err != nil {
			return err
		}
		return formatter.Format(w, reply)
	}

	history := repl.NewHistory()
	if s.History != "" {
		history = repl.NewFileHistory(s.History)
		if err := history.Load(); err != nil {
			PrintError(c.App.ErrWriter, "load history: %v", err)
		}
	}

	r := repl.New(c.App.Reader, c.App.Writer, s.Server, exec).WithHistory(history)
	runErr := r.Run(ctx)

	if err := history.Save(); err != nil {
		PrintError(c.App.ErrWriter, "save history: %v", err)
	}
	return runErr
}

// PrintError prints an error message to w, or stderr when w is nil.
func PrintError(w io.Writer, format string, args ...any) {
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "error: "+strings.TrimSuffix(format, "\n")+"\n", args...)
}
