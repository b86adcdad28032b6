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
	Experiment string `flag:"experiment" alias:"e" help:"Id of the Experiment which Runs belong to"`
	Filter     string `flag:"filter" help:"MLflow search filter, like \"metrics.rmse < 1\""`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Find Runs in an Experiment.",
		Flags{
			Experiment: "0",
		},
		flarc.Args{},
		common.NewTask[Flags](Task),
		flarc.WithDescription(`
Find Runs in the Experiment and print them as JSON.

Example:
	{{ .Command }} --experiment 1 --filter "params.alpha = '0.5'"
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
	flags := cl.Flags()
	if flags.Experiment == "" {
		return fmt.Errorf("%w: --experiment is empty", flarc.ErrUsage)
	}

	found, err := client.GetExperimentRuns(ctx, flags.Experiment, flags.Filter)
	if err != nil {
		return fmt.Errorf("failed to find runs in experiment %s: %w", flags.Experiment, err)
	}
	logger.Debug(
		"runs found",
		zap.String("experiment", flags.Experiment), zap.Int("count", len(found)),
	)
	return common.Dump(cl.Stdout(), found)
}
