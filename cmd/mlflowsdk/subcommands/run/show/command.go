package show

import (
	"context"
	"fmt"

	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/common"
	"github.com/aesdk/mlflowsdk/pkg/tracking"
	"github.com/youta-t/flarc"
	"go.uber.org/zap"
)

const ARG_RUNID = "RUN_ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Return the Run information for the specified Run Id.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_RUNID, Required: true,
				Help: "Id of the Run to be shown",
			},
		},
		common.NewTask[struct{}](Task),
		flarc.WithDescription(`
Return the Run information for the specified Run Id,
including its metrics, params and tags.
`),
	)
}

func Task(
	ctx context.Context,
	_ *zap.Logger,
	client *tracking.Client,
	cl flarc.Commandline[struct{}],
	_ []any,
) error {
	runId := cl.Args()[ARG_RUNID][0]
	run, err := client.Raw().GetRun(ctx, runId)
	if err != nil {
		return fmt.Errorf("%w: Run Id:%s", err, runId)
	}
	return common.Dump(cl.Stdout(), run)
}
