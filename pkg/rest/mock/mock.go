package mock

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/aesdk/mlflowsdk/pkg/api/types/artifacts"
	"github.com/aesdk/mlflowsdk/pkg/api/types/experiments"
	"github.com/aesdk/mlflowsdk/pkg/api/types/models"
	"github.com/aesdk/mlflowsdk/pkg/api/types/runs"
	"github.com/aesdk/mlflowsdk/pkg/rest"
)

type GetLatestVersionsArgs struct {
	Name   string
	Stages []string
}

type GetModelVersionByAliasArgs struct {
	Name  string
	Alias string
}

type ModelVersionArgs struct {
	Name    string
	Version string
}

type ListArtifactsArgs struct {
	RunId     string
	Path      string
	PageToken string
}

func New(t *testing.T) *MockClient {
	return &MockClient{t: t}
}

type MockClient struct {
	t  *testing.T
	mu sync.Mutex

	Impl struct {
		SearchExperiments          func(ctx context.Context, req experiments.SearchRequest) (experiments.SearchResponse, error)
		GetExperiment              func(ctx context.Context, experimentId string) (experiments.Experiment, error)
		GetExperimentByName        func(ctx context.Context, name string) (experiments.Experiment, error)
		CreateExperiment           func(ctx context.Context, req experiments.CreateRequest) (string, error)
		SearchRuns                 func(ctx context.Context, req runs.SearchRequest) (runs.SearchResponse, error)
		GetRun                     func(ctx context.Context, runId string) (runs.Run, error)
		CreateRun                  func(ctx context.Context, req runs.CreateRequest) (runs.Run, error)
		UpdateRun                  func(ctx context.Context, req runs.UpdateRequest) (runs.Info, error)
		LogBatch                   func(ctx context.Context, req runs.LogBatchRequest) error
		SearchRegisteredModels     func(ctx context.Context, param models.SearchParameter) (models.SearchRegisteredModelsResponse, error)
		GetRegisteredModel         func(ctx context.Context, name string) (models.RegisteredModel, error)
		GetLatestVersions          func(ctx context.Context, name string, stages []string) ([]models.ModelVersion, error)
		GetModelVersionByAlias     func(ctx context.Context, name string, alias string) (models.ModelVersion, error)
		SearchModelVersions        func(ctx context.Context, param models.SearchParameter) (models.SearchModelVersionsResponse, error)
		GetModelVersion            func(ctx context.Context, name string, version string) (models.ModelVersion, error)
		GetModelVersionDownloadURI func(ctx context.Context, name string, version string) (string, error)
		ListArtifacts              func(ctx context.Context, runId string, path string, pageToken string) (artifacts.ListResponse, error)
		ListProxiedArtifacts       func(ctx context.Context, path string) ([]artifacts.FileInfo, error)
		DownloadProxiedArtifact    func(ctx context.Context, path string, handler func(io.Reader) error) error
	}
	Calls struct {
		SearchExperiments          []experiments.SearchRequest
		GetExperiment              []string
		GetExperimentByName        []string
		CreateExperiment           []experiments.CreateRequest
		SearchRuns                 []runs.SearchRequest
		GetRun                     []string
		CreateRun                  []runs.CreateRequest
		UpdateRun                  []runs.UpdateRequest
		LogBatch                   []runs.LogBatchRequest
		SearchRegisteredModels     []models.SearchParameter
		GetRegisteredModel         []string
		GetLatestVersions          []GetLatestVersionsArgs
		GetModelVersionByAlias     []GetModelVersionByAliasArgs
		SearchModelVersions        []models.SearchParameter
		GetModelVersion            []ModelVersionArgs
		GetModelVersionDownloadURI []ModelVersionArgs
		ListArtifacts              []ListArtifactsArgs
		ListProxiedArtifacts       []string
		DownloadProxiedArtifact    []string
	}
}

var _ rest.Client = &MockClient{}

func (m *MockClient) SearchExperiments(ctx context.Context, req experiments.SearchRequest) (experiments.SearchResponse, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.SearchExperiments = append(m.Calls.SearchExperiments, req)
	impl := m.Impl.SearchExperiments
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("SearchExperiments is not ready to be called")
	}
	return impl(ctx, req)
}

func (m *MockClient) GetExperiment(ctx context.Context, experimentId string) (experiments.Experiment, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetExperiment = append(m.Calls.GetExperiment, experimentId)
	impl := m.Impl.GetExperiment
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetExperiment is not ready to be called")
	}
	return impl(ctx, experimentId)
}

func (m *MockClient) GetExperimentByName(ctx context.Context, name string) (experiments.Experiment, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetExperimentByName = append(m.Calls.GetExperimentByName, name)
	impl := m.Impl.GetExperimentByName
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetExperimentByName is not ready to be called")
	}
	return impl(ctx, name)
}

func (m *MockClient) CreateExperiment(ctx context.Context, req experiments.CreateRequest) (string, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.CreateExperiment = append(m.Calls.CreateExperiment, req)
	impl := m.Impl.CreateExperiment
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("CreateExperiment is not ready to be called")
	}
	return impl(ctx, req)
}

func (m *MockClient) SearchRuns(ctx context.Context, req runs.SearchRequest) (runs.SearchResponse, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.SearchRuns = append(m.Calls.SearchRuns, req)
	impl := m.Impl.SearchRuns
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("SearchRuns is not ready to be called")
	}
	return impl(ctx, req)
}

func (m *MockClient) GetRun(ctx context.Context, runId string) (runs.Run, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetRun = append(m.Calls.GetRun, runId)
	impl := m.Impl.GetRun
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetRun is not ready to be called")
	}
	return impl(ctx, runId)
}

func (m *MockClient) CreateRun(ctx context.Context, req runs.CreateRequest) (runs.Run, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.CreateRun = append(m.Calls.CreateRun, req)
	impl := m.Impl.CreateRun
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("CreateRun is not ready to be called")
	}
	return impl(ctx, req)
}

func (m *MockClient) UpdateRun(ctx context.Context, req runs.UpdateRequest) (runs.Info, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.UpdateRun = append(m.Calls.UpdateRun, req)
	impl := m.Impl.UpdateRun
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("UpdateRun is not ready to be called")
	}
	return impl(ctx, req)
}

func (m *MockClient) LogBatch(ctx context.Context, req runs.LogBatchRequest) error {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.LogBatch = append(m.Calls.LogBatch, req)
	impl := m.Impl.LogBatch
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("LogBatch is not ready to be called")
	}
	return impl(ctx, req)
}

func (m *MockClient) SearchRegisteredModels(ctx context.Context, param models.SearchParameter) (models.SearchRegisteredModelsResponse, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.SearchRegisteredModels = append(m.Calls.SearchRegisteredModels, param)
	impl := m.Impl.SearchRegisteredModels
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("SearchRegisteredModels is not ready to be called")
	}
	return impl(ctx, param)
}

func (m *MockClient) GetRegisteredModel(ctx context.Context, name string) (models.RegisteredModel, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetRegisteredModel = append(m.Calls.GetRegisteredModel, name)
	impl := m.Impl.GetRegisteredModel
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetRegisteredModel is not ready to be called")
	}
	return impl(ctx, name)
}

func (m *MockClient) GetLatestVersions(ctx context.Context, name string, stages []string) ([]models.ModelVersion, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetLatestVersions = append(m.Calls.GetLatestVersions, GetLatestVersionsArgs{Name: name, Stages: stages})
	impl := m.Impl.GetLatestVersions
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetLatestVersions is not ready to be called")
	}
	return impl(ctx, name, stages)
}

func (m *MockClient) GetModelVersionByAlias(ctx context.Context, name string, alias string) (models.ModelVersion, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetModelVersionByAlias = append(m.Calls.GetModelVersionByAlias, GetModelVersionByAliasArgs{Name: name, Alias: alias})
	impl := m.Impl.GetModelVersionByAlias
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetModelVersionByAlias is not ready to be called")
	}
	return impl(ctx, name, alias)
}

func (m *MockClient) SearchModelVersions(ctx context.Context, param models.SearchParameter) (models.SearchModelVersionsResponse, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.SearchModelVersions = append(m.Calls.SearchModelVersions, param)
	impl := m.Impl.SearchModelVersions
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("SearchModelVersions is not ready to be called")
	}
	return impl(ctx, param)
}

func (m *MockClient) GetModelVersion(ctx context.Context, name string, version string) (models.ModelVersion, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetModelVersion = append(m.Calls.GetModelVersion, ModelVersionArgs{Name: name, Version: version})
	impl := m.Impl.GetModelVersion
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetModelVersion is not ready to be called")
	}
	return impl(ctx, name, version)
}

func (m *MockClient) GetModelVersionDownloadURI(ctx context.Context, name string, version string) (string, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetModelVersionDownloadURI = append(m.Calls.GetModelVersionDownloadURI, ModelVersionArgs{Name: name, Version: version})
	impl := m.Impl.GetModelVersionDownloadURI
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetModelVersionDownloadURI is not ready to be called")
	}
	return impl(ctx, name, version)
}

func (m *MockClient) ListArtifacts(ctx context.Context, runId string, path string, pageToken string) (artifacts.ListResponse, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.ListArtifacts = append(m.Calls.ListArtifacts, ListArtifactsArgs{RunId: runId, Path: path, PageToken: pageToken})
	impl := m.Impl.ListArtifacts
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("ListArtifacts is not ready to be called")
	}
	return impl(ctx, runId, path, pageToken)
}

func (m *MockClient) ListProxiedArtifacts(ctx context.Context, path string) ([]artifacts.FileInfo, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.ListProxiedArtifacts = append(m.Calls.ListProxiedArtifacts, path)
	impl := m.Impl.ListProxiedArtifacts
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("ListProxiedArtifacts is not ready to be called")
	}
	return impl(ctx, path)
}

func (m *MockClient) DownloadProxiedArtifact(ctx context.Context, path string, handler func(io.Reader) error) error {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.DownloadProxiedArtifact = append(m.Calls.DownloadProxiedArtifact, path)
	impl := m.Impl.DownloadProxiedArtifact
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("DownloadProxiedArtifact is not ready to be called")
	}
	return impl(ctx, path, handler)
}
