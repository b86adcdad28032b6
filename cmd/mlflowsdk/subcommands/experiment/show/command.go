package show

import (
	"context"
	"fmt"

	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/common"
	"github.com/aesdk/mlflowsdk/pkg/tracking"
	"github.com/youta-t/flarc"
	"go.uber.org/zap"
)

const ARG_EXPERIMENT_ID = "EXPERIMENT_ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show the Experiment.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_EXPERIMENT_ID, Required: true,
				Help: "Id of the Experiment to be shown",
			},
		},
		common.NewTask[struct{}](Task),
	)
}

func Task(
	ctx context.Context,
	_ *zap.Logger,
	client *tracking.Client,
	cl flarc.Commandline[struct{}],
	_ []any,
) error {
	id := cl.Args()[ARG_EXPERIMENT_ID][0]
	exp, err := client.Raw().GetExperiment(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: Experiment Id:%s", err, id)
	}
	return common.Dump(cl.Stdout(), exp)
}
