package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aesdk/mlflowsdk/pkg/api/types/models"
	"github.com/aesdk/mlflowsdk/pkg/configs/profiles"
	"github.com/aesdk/mlflowsdk/pkg/utils/try"
	"github.com/google/go-cmp/cmp"
)

func TestRegistryIsSeparatedFromTracking(t *testing.T) {
	tracking := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("registry request is sent to tracking server: %s", r.URL.Path)
	}))
	defer tracking.Close()

	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/2.0/mlflow/registered-models/get" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		respondJson(t, w, http.StatusOK, models.GetRegisteredModelResponse{
			RegisteredModel: models.RegisteredModel{Name: r.URL.Query().Get("name")},
		})
	}))
	defer registry.Close()

	testee := newClient(t, profiles.Profile{TrackingUri: tracking.URL, RegistryUri: registry.URL})
	actual := try.To(testee.GetRegisteredModel(context.Background(), "iris")).OrFatal(t)
	if actual.Name != "iris" {
		t.Errorf("unexpected model: %+v", actual)
	}
}

func TestSearchRegisteredModels(t *testing.T) {
	for name, testcase := range map[string]struct {
		param    models.SearchParameter
		expected map[string][]string
	}{
		"empty parameter sends no query": {
			param:    models.SearchParameter{},
			expected: map[string][]string{},
		},
		"every field is sent as query": {
			param: models.SearchParameter{
				Filter:     "name LIKE 'iris%'",
				MaxResults: 50,
				OrderBy:    []string{"name ASC", "last_updated_timestamp DESC"},
				PageToken:  "tok",
			},
			expected: map[string][]string{
				"filter":      {"name LIKE 'iris%'"},
				"max_results": {"50"},
				"order_by":    {"name ASC", "last_updated_timestamp DESC"},
				"page_token":  {"tok"},
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			expected := models.SearchRegisteredModelsResponse{
				RegisteredModels: []models.RegisteredModel{
					{
						Name: "iris",
						LatestVersions: []models.ModelVersion{
							{Name: "iris", Version: "2", CurrentStage: models.StageProduction},
						},
						Aliases: []models.Alias{{Alias: "champion", Version: "2"}},
					},
				},
				NextPageToken: "",
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/api/2.0/mlflow/registered-models/search" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				actual := map[string][]string(r.URL.Query())
				if diff := cmp.Diff(testcase.expected, actual); diff != "" {
					t.Errorf("query (-want +got):\n%s", diff)
				}
				respondJson(t, w, http.StatusOK, expected)
			}))
			defer server.Close()

			testee := newClient(t, profiles.Profile{TrackingUri: server.URL})
			actual := try.To(testee.SearchRegisteredModels(context.Background(), testcase.param)).OrFatal(t)
			if diff := cmp.Diff(expected, actual); diff != "" {
				t.Errorf("response (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetLatestVersions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/2.0/mlflow/registered-models/get-latest-versions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req models.GetLatestVersionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err.Error())
		}
		if diff := cmp.Diff(
			models.GetLatestVersionsRequest{Name: "iris", Stages: []string{models.StageStaging}}, req,
		); diff != "" {
			t.Errorf("request (-want +got):\n%s", diff)
		}
		respondJson(t, w, http.StatusOK, models.GetLatestVersionsResponse{
			ModelVersions: []models.ModelVersion{
				{Name: "iris", Version: "3", CurrentStage: models.StageStaging},
			},
		})
	}))
	defer server.Close()

	testee := newClient(t, profiles.Profile{TrackingUri: server.URL})
	actual := try.To(testee.GetLatestVersions(
		context.Background(), "iris", []string{models.StageStaging},
	)).OrFatal(t)
	if len(actual) != 1 || actual[0].Version != "3" {
		t.Errorf("unexpected versions: %+v", actual)
	}
}

func TestModelVersionEndpoints(t *testing.T) {
	mv := models.ModelVersion{
		Name: "iris", Version: "4", Source: "mlflow-artifacts:/1/abc/artifacts/model",
		RunId: "abc", Status: models.StatusReady, Aliases: []string{"champion"},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/api/2.0/mlflow/registered-models/alias":
			if q.Get("name") != "iris" || q.Get("alias") != "champion" {
				t.Errorf("unexpected query: %v", q)
			}
			respondJson(t, w, http.StatusOK, models.GetModelVersionResponse{ModelVersion: mv})
		case "/api/2.0/mlflow/model-versions/get":
			if q.Get("name") != "iris" || q.Get("version") != "4" {
				t.Errorf("unexpected query: %v", q)
			}
			respondJson(t, w, http.StatusOK, models.GetModelVersionResponse{ModelVersion: mv})
		case "/api/2.0/mlflow/model-versions/get-download-uri":
			if q.Get("name") != "iris" || q.Get("version") != "4" {
				t.Errorf("unexpected query: %v", q)
			}
			respondJson(t, w, http.StatusOK, models.GetDownloadURIResponse{ArtifactUri: mv.Source})
		case "/api/2.0/mlflow/model-versions/search":
			if q.Get("filter") != "name='iris'" {
				t.Errorf("unexpected query: %v", q)
			}
			respondJson(t, w, http.StatusOK, models.SearchModelVersionsResponse{
				ModelVersions: []models.ModelVersion{mv}, NextPageToken: "more",
			})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	testee := newClient(t, profiles.Profile{TrackingUri: server.URL})

	byAlias := try.To(testee.GetModelVersionByAlias(ctx, "iris", "champion")).OrFatal(t)
	if diff := cmp.Diff(mv, byAlias); diff != "" {
		t.Errorf("by alias (-want +got):\n%s", diff)
	}

	byVersion := try.To(testee.GetModelVersion(ctx, "iris", "4")).OrFatal(t)
	if diff := cmp.Diff(mv, byVersion); diff != "" {
		t.Errorf("by version (-want +got):\n%s", diff)
	}

	uri := try.To(testee.GetModelVersionDownloadURI(ctx, "iris", "4")).OrFatal(t)
	if uri != mv.Source {
		t.Errorf("unexpected uri: %s", uri)
	}

	found := try.To(testee.SearchModelVersions(ctx, models.SearchParameter{Filter: "name='iris'"})).OrFatal(t)
	if len(found.ModelVersions) != 1 || found.NextPageToken != "more" {
		t.Errorf("unexpected response: %+v", found)
	}
}
