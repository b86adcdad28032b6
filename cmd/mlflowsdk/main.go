package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/common"
	subexp "github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/experiment"
	subinit "github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/init"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/logger"
	submodel "github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/model"
	subrun "github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/run"
	subver "github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/version"
	"github.com/aesdk/mlflowsdk/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	logger := logger.Default(os.Stderr, false).Sugar()
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := try.To(common.Flags(".")).OrFatal(logger)
	init := try.To(subinit.New()).OrFatal(logger)
	experiment := try.To(subexp.New()).OrFatal(logger)
	run := try.To(subrun.New()).OrFatal(logger)
	model := try.To(submodel.New()).OrFatal(logger)
	version := try.To(subver.New()).OrFatal(logger)

	cmd := try.To(
		flarc.NewCommandGroup(
			"MLflow tracking server commandline interface",
			cf,
			flarc.WithSubcommand("init", init),
			flarc.WithSubcommand("experiment", experiment),
			flarc.WithSubcommand("run", run),
			flarc.WithSubcommand("model", model),
			flarc.WithSubcommand("version", version),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, cmd, flarc.WithHelp(true)))
}
