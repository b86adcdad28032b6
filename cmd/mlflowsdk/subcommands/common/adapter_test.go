package common_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/common"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/internal/commandline"
	apierr "github.com/aesdk/mlflowsdk/pkg/api/types/errors"
	"github.com/aesdk/mlflowsdk/pkg/configs/env"
	"github.com/aesdk/mlflowsdk/pkg/configs/profiles"
	"github.com/aesdk/mlflowsdk/pkg/configs/profiles/testutils"
	"github.com/aesdk/mlflowsdk/pkg/errors/cui"
	"github.com/aesdk/mlflowsdk/pkg/utils/try"
	"github.com/google/go-cmp/cmp"
	"github.com/youta-t/flarc"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestLoadProfile(t *testing.T) {
	saved := &profiles.Profile{
		TrackingUri: "https://tracking.example.com",
		RegistryUri: "https://registry.example.com",
		Auth:        profiles.Auth{Token: "secret"},
	}

	prepare := func(t *testing.T) common.CommonFlags {
		t.Helper()
		return common.CommonFlags{
			Profile:      "saved",
			ProfileStore: testutils.TempProfile(t, "saved", saved),
		}
	}

	t.Run("it returns the profile in the store", func(t *testing.T) {
		cf := prepare(t)
		v := env.New()
		v.Set(env.TrackingURI, "https://env.example.com")

		got := try.To(common.LoadProfile(zaptest.NewLogger(t), cf, v)).OrFatal(t)
		if !cmp.Equal(got, saved) {
			t.Errorf("unexpected profile: %s", cmp.Diff(got, saved))
		}
	})

	t.Run("it falls back to environment when the profile is not in the store", func(t *testing.T) {
		cf := prepare(t)
		cf.Profile = "unknown"
		v := env.New()
		v.Set(env.TrackingURI, "https://env.example.com")

		got := try.To(common.LoadProfile(zaptest.NewLogger(t), cf, v)).OrFatal(t)
		if got.TrackingUri != "https://env.example.com" || got.Registry() != "https://env.example.com" {
			t.Errorf("unexpected profile: %+v", got)
		}
	})

	t.Run("it falls back to environment when the store is missing", func(t *testing.T) {
		cf := common.CommonFlags{
			Profile:      "saved",
			ProfileStore: filepath.Join(t.TempDir(), "no-such-store"),
		}
		v := env.New()
		v.Set(env.TrackingURI, "https://env.example.com")
		v.Set(env.TrackingToken, "token")

		got := try.To(common.LoadProfile(zaptest.NewLogger(t), cf, v)).OrFatal(t)
		if got.TrackingUri != "https://env.example.com" || got.Auth.Token != "token" {
			t.Errorf("unexpected profile: %+v", got)
		}
	})

	t.Run("it fails when neither the profile nor environment is available", func(t *testing.T) {
		t.Setenv(env.TrackingURI, "")
		cf := prepare(t)
		cf.Profile = "unknown"

		_, err := common.LoadProfile(zaptest.NewLogger(t), cf, env.New())
		if !errors.Is(err, env.ErrMissingEnv) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("it fails when the profile in the store is invalid", func(t *testing.T) {
		store := testutils.TempProfile(t, "broken", &profiles.Profile{TrackingUri: "ftp://example.com"})

		_, err := common.LoadProfile(
			zaptest.NewLogger(t),
			common.CommonFlags{Profile: "broken", ProfileStore: store},
			env.New(),
		)
		if !errors.Is(err, profiles.ErrProfileInvalid) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestNewTaskWithCommonFlag(t *testing.T) {
	failing := common.NewTaskWithCommonFlag(func(
		ctx context.Context, logger *zap.Logger, cf common.CommonFlags,
		cl flarc.Commandline[struct{}], params []any,
	) error {
		return cui.ServerError("cannot get run", &apierr.ErrorMessage{
			ErrorCode: apierr.CodeResourceDoesNotExist, Message: "Run 'x' not found", StatusCode: 404,
		})
	})

	t.Run("with verbose, the cause of the error is logged", func(t *testing.T) {
		cl, _, stderr := commandline.New("mlflowsdk run show", struct{}{}, nil)
		err := failing(context.Background(), cl, []any{common.CommonFlags{Verbose: true}})
		if !apierr.IsNotFound(err) {
			t.Errorf("unexpected error: %v", err)
		}
		if !strings.Contains(stderr.String(), "caused by:") {
			t.Errorf("cause is not logged:\n%s", stderr.String())
		}
	})

	t.Run("without verbose, nothing is logged", func(t *testing.T) {
		cl, _, stderr := commandline.New("mlflowsdk run show", struct{}{}, nil)
		err := failing(context.Background(), cl, []any{common.CommonFlags{}})
		if !apierr.IsNotFound(err) {
			t.Errorf("unexpected error: %v", err)
		}
		if stderr.Len() != 0 {
			t.Errorf("unexpected logs:\n%s", stderr.String())
		}
	})

	t.Run("without common flags, it fails", func(t *testing.T) {
		cl, _, _ := commandline.New("mlflowsdk run show", struct{}{}, nil)
		if err := failing(context.Background(), cl, nil); err == nil {
			t.Error("expected error, but got nil")
		}
	})
}
