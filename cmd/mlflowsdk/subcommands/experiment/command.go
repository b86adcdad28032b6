package experiment

import (
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/experiment/find"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/experiment/show"
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
		"Find or show Experiments.",
		struct{}{},
		flarc.WithSubcommand("find", f),
		flarc.WithSubcommand("show", s),
	)
}
