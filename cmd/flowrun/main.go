package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/kohai-io/flowrun/pkg/log"
)

func main() {
	cmd := &cli.Command{
		Name:                  "flowrun",
		EnableShellCompletion: true,
		Usage:                 "Run and validate node-graph flows",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			runCommand(),
			validateCommand(),
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
