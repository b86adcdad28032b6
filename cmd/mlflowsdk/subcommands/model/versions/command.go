package versions

import (
	"context"
	"fmt"

	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/common"
	"github.com/aesdk/mlflowsdk/pkg/tracking"
	"github.com/youta-t/flarc"
	"go.uber.org/zap"
)

const ARG_MODEL_NAME = "MODEL_NAME"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"List versions of a registered Model.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_MODEL_NAME, Required: true,
				Help: "name of the registered Model",
			},
		},
		common.NewTask[struct{}](Task),
		flarc.WithDescription(`
List versions of the registered Model and print them as JSON.

Only the first page of the search result is printed.
`),
	)
}

func Task(
	ctx context.Context,
	logger *zap.Logger,
	client *tracking.Client,
	cl flarc.Commandline[struct{}],
	_ []any,
) error {
	name := cl.Args()[ARG_MODEL_NAME][0]
	page, err := client.GetModelVersions(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to list versions of model %s: %w", name, err)
	}
	if !page.Last() {
		logger.Warn("more versions exist. only the first page is shown", zap.String("model", name))
	}
	return common.Dump(cl.Stdout(), page.Items)
}
