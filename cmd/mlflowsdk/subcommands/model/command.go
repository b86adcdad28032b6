package model

import (
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/model/find"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/model/pull"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/model/versions"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	f, err := find.New()
	if err != nil {
		return nil, err
	}
	v, err := versions.New()
	if err != nil {
		return nil, err
	}
	p, err := pull.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Find or download registered Models.",
		struct{}{},
		flarc.WithSubcommand("find", f),
		flarc.WithSubcommand("versions", v),
		flarc.WithSubcommand("pull", p),
	)
}
