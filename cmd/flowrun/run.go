package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	cli "github.com/urfave/cli/v3"

	"github.com/kohai-io/flowrun/pkg/channels/gochannel"
	"github.com/kohai-io/flowrun/pkg/eventbus"
	"github.com/kohai-io/flowrun/pkg/events"
	"github.com/kohai-io/flowrun/pkg/flow"
	"github.com/kohai-io/flowrun/pkg/log"
	"github.com/kohai-io/flowrun/pkg/models"
	"github.com/kohai-io/flowrun/pkg/otelhelper"
	"github.com/kohai-io/flowrun/pkg/registry"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Execute a flow definition with echo capabilities",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "flow",
				Aliases:  []string{"f"},
				Usage:    "Path to the flow definition JSON file",
				Required: true,
				Sources:  cli.EnvVars("FLOW_FILE"),
			},
			&cli.BoolFlag{
				Name:  "events",
				Usage: "Print lifecycle events while the flow runs",
			},
			&cli.BoolFlag{
				Name:    "trace",
				Usage:   "Export OTLP traces for the run",
				Sources: cli.EnvVars("FLOWRUN_TRACE"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("flowrun-run")

			definition, err := loadFlow(command.String("flow"))
			if err != nil {
				return err
			}

			reg := registry.NewRegistry(logger)
			reg.RegisterDefaultNodes()

			opts := []flow.Option{flow.WithLogger(logger)}

			if command.Bool("trace") {
				tracer, err := otelhelper.NewTracer(ctx, "flowrun")
				if err != nil {
					return fmt.Errorf("failed to initialize tracer: %w", err)
				}

				opts = append(opts, flow.WithTracer(tracer))
			}

			if command.Bool("events") {
				pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(logger))
				if err != nil {
					return fmt.Errorf("failed to create event channel: %w", err)
				}

				bus := eventbus.NewWatermillEventBus(pub, sub)
				defer func() {
					if err := bus.Close(); err != nil {
						logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
					}
				}()

				err = bus.Subscribe(ctx, func(_ context.Context, eventType events.EventType, payload []byte) error {
					fmt.Fprintf(os.Stderr, "[%s] %s\n", eventType, payload)

					return nil
				})
				if err != nil {
					return fmt.Errorf("failed to subscribe to events: %w", err)
				}

				opts = append(opts, flow.WithEventBus(bus))
			}

			executor := flow.NewExecutor(reg, echoCapabilities(), opts...)

			result, err := executor.Execute(ctx, definition, func(nodeID string, status models.NodeStatus, _ any) {
				logger.InfoContext(ctx, "Node settled", "node_id", nodeID, "status", status)
			})
			if err != nil {
				return fmt.Errorf("flow configuration rejected: %w", err)
			}

			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(encoded))

			if result.Status == models.ExecutionStatusError {
				return fmt.Errorf("flow %s finished with status %s", definition.ID, result.Status)
			}

			return nil
		},
	}
}

func loadFlow(path string) (*models.Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file: %w", err)
	}

	var definition models.Flow

	if err := json.Unmarshal(data, &definition); err != nil {
		return nil, fmt.Errorf("failed to parse flow file: %w", err)
	}

	return &definition, nil
}
