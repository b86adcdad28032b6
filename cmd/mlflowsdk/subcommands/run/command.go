package run

import (
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/run/find"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/run/show"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	f, err := find.New()
	if err != nil {
		return nil, err
	}
	s, err := show.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Find or show Runs.",
		struct{}{},
		flarc.WithSubcommand("find", f),
		flarc.WithSubcommand("show", s),
	)
}
