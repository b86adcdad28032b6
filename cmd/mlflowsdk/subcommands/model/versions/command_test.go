package versions_test

import (
	"context"
	"testing"

	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/internal/commandline"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/internal/testenv"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/logger"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/model/versions"
	"github.com/aesdk/mlflowsdk/internal/testutils/mlflowserver"
	"github.com/aesdk/mlflowsdk/pkg/api/types/models"
	"github.com/google/go-cmp/cmp"
)

func TestVersions(t *testing.T) {
	type when struct {
		pageSize int
		name     string
	}
	type then struct {
		versions []string
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			server, client := testenv.Start(t, mlflowserver.WithPageSize(when.pageSize))
			for _, v := range []string{"1", "2", "3"} {
				server.AddModelVersion(models.ModelVersion{Name: "iris", Version: v})
			}
			server.AddModelVersion(models.ModelVersion{Name: "it's", Version: "1"})

			cl, stdout, _ := commandline.New(
				"mlflowsdk model versions", struct{}{},
				map[string][]string{versions.ARG_MODEL_NAME: {when.name}},
			)
			if err := versions.Task(context.Background(), logger.Null(), client, cl, nil); err != nil {
				t.Fatal(err)
			}

			got := []string{}
			for _, mv := range testenv.Decode[[]models.ModelVersion](t, stdout) {
				if mv.Name != when.name {
					t.Errorf("version of other model: %+v", mv)
				}
				got = append(got, mv.Version)
			}
			if !cmp.Equal(got, then.versions) {
				t.Errorf("unexpected versions: %s", cmp.Diff(got, then.versions))
			}

			searches := 0
			for _, req := range server.Requests() {
				if req.Path == "/api/2.0/mlflow/model-versions/search" {
					searches++
				}
			}
			if searches != 1 {
				t.Errorf("search is requested %d times", searches)
			}
		}
	}

	t.Run("it prints versions of the model", theory(
		when{pageSize: 10, name: "iris"},
		then{versions: []string{"1", "2", "3"}},
	))

	t.Run("it prints only the first page", theory(
		when{pageSize: 2, name: "iris"},
		then{versions: []string{"1", "2"}},
	))

	t.Run("it handles a name with a quote", theory(
		when{pageSize: 10, name: "it's"},
		then{versions: []string{"1"}},
	))
}
