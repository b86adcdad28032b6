package init_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/common"
	initcmd "github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/init"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/internal/commandline"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/logger"
	"github.com/aesdk/mlflowsdk/pkg/configs/profiles"
	"github.com/aesdk/mlflowsdk/pkg/utils/try"
)

func TestInit(t *testing.T) {
	writeProfile := func(t *testing.T, content string) string {
		t.Helper()
		p := filepath.Join(t.TempDir(), "profile.yaml")
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}

	t.Run("it saves the profile and pins it to the current directory", func(t *testing.T) {
		workdir := t.TempDir()
		t.Chdir(workdir)
		store := filepath.Join(t.TempDir(), "store", "profile")

		profFile := writeProfile(t, `
trackingUri: https://mlflow.example.com
auth:
  token: secret
`)
		cl, _, _ := commandline.New(
			"mlflowsdk init", struct{}{},
			map[string][]string{initcmd.ARG_PROFILE_FILE: {profFile}},
		)
		cf := common.CommonFlags{Profile: "team", ProfileStore: store}

		if err := initcmd.Task(context.Background(), logger.Null(), cf, cl, nil); err != nil {
			t.Fatal(err)
		}

		ps := try.To(profiles.LoadProfileStore(store)).OrFatal(t)
		prof, ok := ps["team"]
		if !ok {
			t.Fatalf("profile is not saved: %+v", ps)
		}
		if prof.TrackingUri != "https://mlflow.example.com" || prof.Auth.Token != "secret" {
			t.Errorf("unexpected profile: %+v", prof)
		}

		pinned := try.To(os.ReadFile(filepath.Join(workdir, common.ProfileFile))).OrFatal(t)
		if strings.TrimSpace(string(pinned)) != "team" {
			t.Errorf("unexpected profile file: %s", pinned)
		}
	})

	t.Run("it keeps other profiles in the store", func(t *testing.T) {
		t.Chdir(t.TempDir())
		store := filepath.Join(t.TempDir(), "profile")
		existing := profiles.ProfileStore{
			"other": {TrackingUri: "https://other.example.com"},
		}
		if err := existing.Save(store); err != nil {
			t.Fatal(err)
		}

		profFile := writeProfile(t, "trackingUri: https://mlflow.example.com\n")
		cl, _, _ := commandline.New(
			"mlflowsdk init", struct{}{},
			map[string][]string{initcmd.ARG_PROFILE_FILE: {profFile}},
		)
		cf := common.CommonFlags{Profile: "team", ProfileStore: store}
		if err := initcmd.Task(context.Background(), logger.Null(), cf, cl, nil); err != nil {
			t.Fatal(err)
		}

		ps := try.To(profiles.LoadProfileStore(store)).OrFatal(t)
		if _, ok := ps["other"]; !ok {
			t.Errorf("other profile is lost: %+v", ps)
		}
		if _, ok := ps["team"]; !ok {
			t.Errorf("new profile is not saved: %+v", ps)
		}
	})

	t.Run("it rejects an invalid profile", func(t *testing.T) {
		workdir := t.TempDir()
		t.Chdir(workdir)
		store := filepath.Join(t.TempDir(), "profile")

		profFile := writeProfile(t, "trackingUri: not a url\n")
		cl, _, _ := commandline.New(
			"mlflowsdk init", struct{}{},
			map[string][]string{initcmd.ARG_PROFILE_FILE: {profFile}},
		)
		cf := common.CommonFlags{Profile: "team", ProfileStore: store}

		err := initcmd.Task(context.Background(), logger.Null(), cf, cl, nil)
		if !errors.Is(err, profiles.ErrProfileInvalid) {
			t.Errorf("unexpected error: %v", err)
		}
		if _, err := os.Stat(store); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("profile store is created: %v", err)
		}
		if _, err := os.Stat(filepath.Join(workdir, common.ProfileFile)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("profile file is created: %v", err)
		}
	})
}
