package tracking_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aesdk/mlflowsdk/pkg/api/types/experiments"
	"github.com/aesdk/mlflowsdk/pkg/api/types/models"
	"github.com/aesdk/mlflowsdk/pkg/api/types/runs"
	"github.com/aesdk/mlflowsdk/pkg/rest/mock"
	"github.com/aesdk/mlflowsdk/pkg/tracking"
	"github.com/aesdk/mlflowsdk/pkg/utils/try"
	"github.com/google/go-cmp/cmp"
)

// pages returns responses in order, one for each call.
func pages[T any](t *testing.T, responses ...T) func() T {
	t.Helper()
	i := 0
	return func() T {
		t.Helper()
		if len(responses) <= i {
			t.Fatalf("too many calls: %d", i+1)
		}
		r := responses[i]
		i += 1
		return r
	}
}

func TestGetExperiments(t *testing.T) {
	exp1 := experiments.Experiment{ExperimentId: "1", Name: "1"}
	exp2 := experiments.Experiment{ExperimentId: "2", Name: "2"}
	exp3 := experiments.Experiment{ExperimentId: "3", Name: "3"}

	type When struct {
		filter    string
		responses []experiments.SearchResponse
	}
	type Then struct {
		experiments []experiments.Experiment
		tokens      []string
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			raw := mock.New(t)
			next := pages(t, when.responses...)
			raw.Impl.SearchExperiments = func(ctx context.Context, req experiments.SearchRequest) (experiments.SearchResponse, error) {
				return next(), nil
			}

			testee := tracking.New(raw)
			actual := try.To(testee.GetExperiments(context.Background(), when.filter)).OrFatal(t)

			if diff := cmp.Diff(then.experiments, actual); diff != "" {
				t.Errorf("experiments (-want +got):\n%s", diff)
			}

			tokens := []string{}
			for _, req := range raw.Calls.SearchExperiments {
				tokens = append(tokens, req.PageToken)
				if req.Filter != when.filter {
					t.Errorf("unexpected filter: %q", req.Filter)
				}
			}
			if diff := cmp.Diff(then.tokens, tokens); diff != "" {
				t.Errorf("tokens (-want +got):\n%s", diff)
			}
		}
	}

	t.Run("single page", theory(
		When{
			responses: []experiments.SearchResponse{{Experiments: []experiments.Experiment{exp1}}},
		},
		Then{
			experiments: []experiments.Experiment{exp1},
			tokens:      []string{""},
		},
	))

	t.Run("paged, it concatenates pages in order", theory(
		When{
			filter: "name LIKE '%'",
			responses: []experiments.SearchResponse{
				{Experiments: []experiments.Experiment{exp1}, NextPageToken: "token"},
				{Experiments: []experiments.Experiment{exp2, exp3}, NextPageToken: "token-2"},
				{Experiments: []experiments.Experiment{}},
			},
		},
		Then{
			experiments: []experiments.Experiment{exp1, exp2, exp3},
			tokens:      []string{"", "token", "token-2"},
		},
	))

	t.Run("no experiments", theory(
		When{responses: []experiments.SearchResponse{{}}},
		Then{experiments: []experiments.Experiment{}, tokens: []string{""}},
	))

	t.Run("when search fails, it returns the error", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		raw := mock.New(t)
		raw.Impl.SearchExperiments = func(ctx context.Context, req experiments.SearchRequest) (experiments.SearchResponse, error) {
			if req.PageToken == "" {
				return experiments.SearchResponse{Experiments: []experiments.Experiment{exp1}, NextPageToken: "t"}, nil
			}
			return experiments.SearchResponse{}, expectedErr
		}

		_, err := tracking.New(raw).GetExperiments(context.Background(), "")
		if !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("when server repeats the token, it stops with ErrPagingStalled", func(t *testing.T) {
		raw := mock.New(t)
		raw.Impl.SearchExperiments = func(ctx context.Context, req experiments.SearchRequest) (experiments.SearchResponse, error) {
			return experiments.SearchResponse{Experiments: []experiments.Experiment{exp1}, NextPageToken: "same"}, nil
		}

		_, err := tracking.New(raw).GetExperiments(context.Background(), "")
		if !errors.Is(err, tracking.ErrPagingStalled) {
			t.Errorf("unexpected error: %v", err)
		}
		if n := len(raw.Calls.SearchExperiments); n != 2 {
			t.Errorf("unexpected number of calls: %d", n)
		}
	})
}

func TestGetExperimentRuns(t *testing.T) {
	run1 := runs.Run{Info: runs.Info{RunId: "a", ExperimentId: "1"}}
	run2 := runs.Run{Info: runs.Info{RunId: "b", ExperimentId: "1"}}

	for name, responses := range map[string][]runs.SearchResponse{
		"single page": {
			{Runs: []runs.Run{run1, run2}},
		},
		"paged": {
			{Runs: []runs.Run{run1}, NextPageToken: "token"},
			{Runs: []runs.Run{run2}},
		},
	} {
		t.Run(name, func(t *testing.T) {
			raw := mock.New(t)
			next := pages(t, responses...)
			raw.Impl.SearchRuns = func(ctx context.Context, req runs.SearchRequest) (runs.SearchResponse, error) {
				return next(), nil
			}

			actual := try.To(tracking.New(raw).GetExperimentRuns(context.Background(), "1", "status = 'FINISHED'")).OrFatal(t)
			if diff := cmp.Diff([]runs.Run{run1, run2}, actual); diff != "" {
				t.Errorf("runs (-want +got):\n%s", diff)
			}

			for _, req := range raw.Calls.SearchRuns {
				if diff := cmp.Diff([]string{"1"}, req.ExperimentIds); diff != "" {
					t.Errorf("experiment ids (-want +got):\n%s", diff)
				}
				if req.Filter != "status = 'FINISHED'" {
					t.Errorf("unexpected filter: %q", req.Filter)
				}
			}
		})
	}
}

func TestGetRegisteredModels(t *testing.T) {
	m1 := models.RegisteredModel{Name: "1"}
	m2 := models.RegisteredModel{Name: "2"}

	t.Run("paged, it ends with the empty token", func(t *testing.T) {
		raw := mock.New(t)
		next := pages(t,
			models.SearchRegisteredModelsResponse{RegisteredModels: []models.RegisteredModel{m1}, NextPageToken: "token"},
			models.SearchRegisteredModelsResponse{RegisteredModels: []models.RegisteredModel{m2}, NextPageToken: ""},
		)
		raw.Impl.SearchRegisteredModels = func(ctx context.Context, param models.SearchParameter) (models.SearchRegisteredModelsResponse, error) {
			return next(), nil
		}

		actual := try.To(tracking.New(raw).GetRegisteredModels(context.Background(), "")).OrFatal(t)
		if diff := cmp.Diff([]models.RegisteredModel{m1, m2}, actual); diff != "" {
			t.Errorf("models (-want +got):\n%s", diff)
		}

		tokens := []string{}
		for _, p := range raw.Calls.SearchRegisteredModels {
			tokens = append(tokens, p.PageToken)
		}
		if diff := cmp.Diff([]string{"", "token"}, tokens); diff != "" {
			t.Errorf("tokens (-want +got):\n%s", diff)
		}
	})
}

func TestGetModelVersions(t *testing.T) {
	mv := models.ModelVersion{Name: "mock-model", Version: "1"}

	for name, testcase := range map[string]struct {
		model  string
		filter string
	}{
		"plain name":        {model: "mock-model", filter: "name='mock-model'"},
		"name with a quote": {model: "it's", filter: `name='it\'s'`},
	} {
		t.Run(name, func(t *testing.T) {
			raw := mock.New(t)
			raw.Impl.SearchModelVersions = func(ctx context.Context, param models.SearchParameter) (models.SearchModelVersionsResponse, error) {
				return models.SearchModelVersionsResponse{
					ModelVersions: []models.ModelVersion{mv}, NextPageToken: "more",
				}, nil
			}

			actual := try.To(tracking.New(raw).GetModelVersions(context.Background(), testcase.model)).OrFatal(t)
			if diff := cmp.Diff([]models.ModelVersion{mv}, actual.Items); diff != "" {
				t.Errorf("versions (-want +got):\n%s", diff)
			}
			if actual.Token != "more" || actual.Last() {
				t.Errorf("unexpected token: %q", actual.Token)
			}

			if diff := cmp.Diff(
				[]models.SearchParameter{{Filter: testcase.filter}},
				raw.Calls.SearchModelVersions,
			); diff != "" {
				t.Errorf("search parameter (-want +got):\n%s", diff)
			}
		})
	}
}
