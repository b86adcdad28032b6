package init

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/common"
	"github.com/aesdk/mlflowsdk/pkg/configs/profiles"
	"github.com/youta-t/flarc"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const ARG_PROFILE_FILE = "PROFILE_FILE"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Register a profile and use it in this directory.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_PROFILE_FILE, Required: true,
				Help: "filepath to a profile file, describing MLflow tracking server to connect.",
			},
		},
		common.NewTaskWithCommonFlag[struct{}](Task),
		flarc.WithDescription(`
Register a profile into your profile store.

A profile file is a yaml like below:

    trackingUri: https://mlflow.example.com
    registryUri: https://registry.example.com  # optional
    cert:
      ca: <base64 encoded PEM>  # optional
      insecure: false
    auth:
      token: <bearer token>      # or username and password
    maxRetries: 3

The name of the profile is given by "--profile" ( default: current filepath ).
The name is written into "`+common.ProfileFile+`" in the current directory,
and commands in this directory and its descendants use the profile.
`),
	)
}

func Task(
	ctx context.Context,
	logger *zap.Logger,
	cf common.CommonFlags,
	cl flarc.Commandline[struct{}],
	_ []any,
) error {
	profFile := cl.Args()[ARG_PROFILE_FILE][0]

	profStore, err := profiles.LoadProfileStore(cf.ProfileStore)
	if errors.Is(err, profiles.ErrProfileStoreNotFound) {
		profStore = profiles.ProfileStore{}
	} else if err != nil {
		return fmt.Errorf("failed to load profile store (%s): %w", cf.ProfileStore, err)
	}

	newProf := new(profiles.Profile)
	{
		content, err := os.ReadFile(profFile)
		if err != nil {
			return fmt.Errorf("failed to read profile file (%s): %w", profFile, err)
		}
		if err := yaml.Unmarshal(content, newProf); err != nil {
			return fmt.Errorf("failed to parse profile file (%s): %w", profFile, err)
		}
	}
	if err := newProf.Verify(); err != nil {
		return fmt.Errorf("%s: %w", profFile, err)
	}

	profStore[cf.Profile] = newProf
	if err := profStore.Save(cf.ProfileStore); err != nil {
		return fmt.Errorf("failed to save profile store (%s): %w", cf.ProfileStore, err)
	}
	logger.Info(
		"profile is saved",
		zap.String("profile", cf.Profile), zap.String("store", cf.ProfileStore),
	)

	if err := os.WriteFile(common.ProfileFile, []byte(cf.Profile+"\n"), os.FileMode(0600)); err != nil {
		return fmt.Errorf("failed to write %s: %w", common.ProfileFile, err)
	}
	return nil
}
