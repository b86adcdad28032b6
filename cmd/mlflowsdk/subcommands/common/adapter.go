package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/logger"
	"github.com/aesdk/mlflowsdk/pkg/configs/env"
	"github.com/aesdk/mlflowsdk/pkg/configs/profiles"
	"github.com/aesdk/mlflowsdk/pkg/errors/cui"
	"github.com/aesdk/mlflowsdk/pkg/tracking"
	"github.com/spf13/viper"
	"github.com/youta-t/flarc"
	"go.uber.org/zap"
)

type TaskWithCommonFlag[T any] func(
	ctx context.Context,
	logger *zap.Logger,
	commonFlag CommonFlags,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTaskWithCommonFlag[T any](task TaskWithCommonFlag[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var commonFlag CommonFlags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		l := logger.Default(cl.Stderr(), commonFlag.Verbose).Named(cl.Fullname())
		defer l.Sync()

		err := task(ctx, l, commonFlag, cl, newpos)
		if ce := cui.Error(nil); errors.As(err, &ce) {
			l.Debug("error in detail", zap.String("error", ce.Verbose()))
		}
		return err
	}
}

type Task[T any] func(
	ctx context.Context,
	logger *zap.Logger,
	client *tracking.Client,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTask[T any](task Task[T]) flarc.Task[T] {
	return NewTaskWithCommonFlag(func(
		ctx context.Context,
		logger *zap.Logger,
		commonFlag CommonFlags,
		cl flarc.Commandline[T],
		params []any,
	) error {
		prof, err := LoadProfile(logger, commonFlag, env.New())
		if err != nil {
			return err
		}

		client, err := tracking.FromProfile(prof, tracking.WithLogger(logger))
		if err != nil {
			return fmt.Errorf(
				"%w: failed to create client. Your profile (%s in %s) can be broken.\n\nRemove it and try `mlflowsdk init` again",
				err, commonFlag.Profile, commonFlag.ProfileStore,
			)
		}
		return task(ctx, logger, client, cl, params)
	})
}

// LoadProfile finds the profile named by the common flags.
//
// When the profile store or the profile is missing, the profile is built from
// environment variables (MLFLOW_TRACKING_URI and others) in v.
func LoadProfile(logger *zap.Logger, commonFlag CommonFlags, v *viper.Viper) (*profiles.Profile, error) {
	store, err := profiles.LoadProfileStore(commonFlag.ProfileStore)
	switch {
	case errors.Is(err, profiles.ErrProfileStoreNotFound):
		logger.Debug("profile store is not found", zap.String("store", commonFlag.ProfileStore))
	case err != nil:
		return nil, fmt.Errorf(
			"%w: failed to load profile store (%s)", err, commonFlag.ProfileStore,
		)
	default:
		if prof, ok := store[commonFlag.Profile]; ok && prof != nil {
			if err := prof.Verify(); err != nil {
				return nil, fmt.Errorf(
					"%w: profile '%s' in %s", err, commonFlag.Profile, commonFlag.ProfileStore,
				)
			}
			return prof, nil
		}
		logger.Debug(
			"profile is not found in the store",
			zap.String("profile", commonFlag.Profile),
			zap.String("store", commonFlag.ProfileStore),
		)
	}

	prof, err := env.Profile(v, env.RegistryOptional())
	if errors.Is(err, env.ErrMissingEnv) {
		return nil, fmt.Errorf(
			"%w: profile '%s' is not found in the profile store (%s). Try `mlflowsdk init` or set %s",
			err, commonFlag.Profile, commonFlag.ProfileStore, env.TrackingURI,
		)
	}
	return prof, err
}
