package find

import (
	"context"
	"fmt"

	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/common"
	"github.com/aesdk/mlflowsdk/pkg/tracking"
	"github.com/youta-t/flarc"
	"go.uber.org/zap"
)

type Flags struct {
	Filter string `flag:"filter" help:"MLflow search filter, like \"name LIKE 'iris%'\""`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Find Experiments.",
		Flags{},
		flarc.Args{},
		common.NewTask[Flags](Task),
		flarc.WithDescription(`
Find Experiments and print them as JSON.

Without "--filter", all active Experiments are printed.

Example:
	{{ .Command }} --filter "name = 'iris'"
`),
	)
}

func Task(
	ctx context.Context,
	logger *zap.Logger,
	client *tracking.Client,
	cl flarc.Commandline[Flags],
	_ []any,
) error {
	filter := cl.Flags().Filter
	exps, err := client.GetExperiments(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to find experiments: %w", err)
	}
	logger.Debug("experiments found", zap.Int("count", len(exps)))
	return common.Dump(cl.Stdout(), exps)
}
