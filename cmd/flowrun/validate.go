package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/kohai-io/flowrun/pkg/flow"
	"github.com/kohai-io/flowrun/pkg/log"
	"github.com/kohai-io/flowrun/pkg/registry"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check a flow definition without executing it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "flow",
				Aliases:  []string{"f"},
				Usage:    "Path to the flow definition JSON file",
				Required: true,
				Sources:  cli.EnvVars("FLOW_FILE"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("flowrun-validate")

			definition, err := loadFlow(command.String("flow"))
			if err != nil {
				return err
			}

			if err := flow.ValidateGraph(definition); err != nil {
				return fmt.Errorf("invalid flow graph: %w", err)
			}

			reg := registry.NewRegistry(logger)
			reg.RegisterDefaultNodes()

			for _, node := range definition.Nodes {
				if err := reg.ValidateNode(node); err != nil {
					return err
				}
			}

			logger.InfoContext(ctx, "Flow definition is valid",
				"flow_id", definition.ID, "nodes", len(definition.Nodes), "edges", len(definition.Edges))

			return nil
		},
	}
}
