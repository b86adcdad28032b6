package find_test

import (
	"context"
	"testing"

	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/internal/commandline"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/internal/testenv"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/logger"
	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/model/find"
	"github.com/aesdk/mlflowsdk/pkg/api/types/models"
	"github.com/google/go-cmp/cmp"
)

func TestFind(t *testing.T) {
	server, client := testenv.Start(t)
	for _, name := range []string{"iris", "mnist", "cifar"} {
		server.AddRegisteredModel(models.RegisteredModel{Name: name})
	}

	flags := find.Flags{Filter: "name LIKE '%'"}
	cl, stdout, _ := commandline.New("mlflowsdk model find", flags, nil)
	if err := find.Task(context.Background(), logger.Null(), client, cl, nil); err != nil {
		t.Fatal(err)
	}

	names := []string{}
	for _, m := range testenv.Decode[[]models.RegisteredModel](t, stdout) {
		names = append(names, m.Name)
	}
	want := []string{"iris", "mnist", "cifar"}
	if !cmp.Equal(names, want) {
		t.Errorf("unexpected models: %s", cmp.Diff(names, want))
	}

	for _, req := range server.Requests() {
		if req.Path != "/api/2.0/mlflow/registered-models/search" {
			continue
		}
		if got := req.Query.Get("filter"); got != flags.Filter {
			t.Errorf("unexpected filter: %s", got)
		}
	}
}
