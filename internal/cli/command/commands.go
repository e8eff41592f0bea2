package command

import (
	"errors"
	"strconv"

	"github.com/urfave/cli/v2"
)

// PingCommand checks the connection. The server answers PONG.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that the server answers",
		Action: func(c *cli.Context) error {
			if c.NArg() != 0 {
				return errors.New("ping takes no arguments")
			}
			return run(c, "PING")
		},
	}
}

// EchoCommand returns the echo subcommand.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Ask the server to repeat a message",
		ArgsUsage: "<message>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("echo takes exactly one argument")
			}
			return run(c, "ECHO", c.Args().First())
		},
	}
}

// GetCommand returns the get subcommand.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get the value of a key",
		ArgsUsage: "<key>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("get takes exactly one key")
			}
			return run(c, "GET", c.Args().First())
		},
	}
}

// SetCommand returns the set subcommand.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set a key, optionally with an expiry",
		ArgsUsage: "<key> <value>",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:  "px",
				Usage: "expire after this many milliseconds",
			},
			&cli.Uint64Flag{
				Name:  "ex",
				Usage: "expire after this many seconds",
			},
		},
		Action: setAction,
	}
}

func setAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("set takes a key and a value")
	}
	if c.IsSet("px") && c.IsSet("ex") {
		return errors.New("--px and --ex are mutually exclusive")
	}

	args := []string{"SET", c.Args().Get(0), c.Args().Get(1)}
	switch {
	case c.IsSet("px"):
		args = append(args, "PX", strconv.FormatUint(c.Uint64("px"), 10))
	case c.IsSet("ex"):
		args = append(args, "EX", strconv.FormatUint(c.Uint64("ex"), 10))
	}
	return run(c, args...)
}
