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
		"Find registered Models.",
		Flags{},
		flarc.Args{},
		common.NewTask[Flags](Task),
		flarc.WithDescription(`
Find registered Models in the model registry and print them as JSON.
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
	found, err := client.GetRegisteredModels(ctx, cl.Flags().Filter)
	if err != nil {
		return fmt.Errorf("failed to find registered models: %w", err)
	}
	logger.Debug("registered models found", zap.Int("count", len(found)))
	return common.Dump(cl.Stdout(), found)
}
