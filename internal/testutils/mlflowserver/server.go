// Package mlflowserver provides an in-memory MLflow tracking server for tests.
//
// It speaks the subset of MLflow REST API 2.0 which this module uses, including the
// artifact proxy (mlflow-artifacts). Search APIs are paged with a small page size so
// that paging is exercised even with a few entities.
package mlflowserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aesdk/mlflowsdk/pkg/api/types/artifacts"
	apierr "github.com/aesdk/mlflowsdk/pkg/api/types/errors"
	"github.com/aesdk/mlflowsdk/pkg/api/types/experiments"
	"github.com/aesdk/mlflowsdk/pkg/api/types/models"
	"github.com/aesdk/mlflowsdk/pkg/api/types/runs"
	"github.com/aesdk/mlflowsdk/pkg/api/types/tags"
	"github.com/aesdk/mlflowsdk/pkg/api/types/timestamp"
	"github.com/aesdk/mlflowsdk/pkg/utils/pointer"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	apiPrefix      = "/api/2.0/mlflow"
	artifactPrefix = "/api/2.0/mlflow-artifacts/artifacts"

	defaultPageSize = 2
)

// Request is a request which the server has received.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

type Server struct {
	t  *testing.T
	hs *httptest.Server

	mu          sync.Mutex
	pageSize    int
	token       string
	requests    []Request
	experiments []experiments.Experiment
	runs        []*runs.Run
	models      []*models.RegisteredModel
	versions    []*models.ModelVersion
	files       map[string][]byte
}

type Option func(*Server) *Server

// WithPageSize sets how many items a page of search results holds at most.
func WithPageSize(n int) Option {
	return func(s *Server) *Server {
		s.pageSize = n
		return s
	}
}

// WithToken makes the server demand the bearer token.
func WithToken(token string) Option {
	return func(s *Server) *Server {
		s.token = token
		return s
	}
}

// Start starts a new server. It is closed when the test finishes.
//
// The server has the default experiment (id "0") from the beginning.
func Start(t *testing.T, options ...Option) *Server {
	t.Helper()
	s := &Server{
		t:        t,
		pageSize: defaultPageSize,
		experiments: []experiments.Experiment{
			{
				ExperimentId:     experiments.DefaultExperimentId,
				Name:             "Default",
				ArtifactLocation: "mlflow-artifacts:/0",
				LifecycleStage:   experiments.StageActive,
			},
		},
		files: map[string][]byte{},
	}
	for _, o := range options {
		s = o(s)
	}

	s.hs = httptest.NewServer(s.router())
	t.Cleanup(s.hs.Close)
	return s
}

// URL is the root URL of the server.
func (s *Server) URL() string {
	return s.hs.URL
}

// Requests returns requests to the API so far, except artifact downloads.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// AddExperiment registers an experiment. Its id is assigned when empty.
func (s *Server) AddExperiment(exp experiments.Experiment) experiments.Experiment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addExperiment(exp)
}

func (s *Server) addExperiment(exp experiments.Experiment) experiments.Experiment {
	if exp.ExperimentId == "" {
		exp.ExperimentId = strconv.Itoa(len(s.experiments))
	}
	if exp.ArtifactLocation == "" {
		exp.ArtifactLocation = "mlflow-artifacts:/" + exp.ExperimentId
	}
	if exp.LifecycleStage == "" {
		exp.LifecycleStage = experiments.StageActive
	}
	s.experiments = append(s.experiments, exp)
	return exp
}

// AddRun registers a run. Its id and artifact uri are assigned when empty.
func (s *Server) AddRun(run runs.Run) runs.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.addRun(run)
}

func (s *Server) addRun(run runs.Run) *runs.Run {
	if run.Info.RunId == "" {
		run.Info.RunId = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	if run.Info.ArtifactUri == "" {
		run.Info.ArtifactUri = fmt.Sprintf(
			"mlflow-artifacts:/%s/%s/artifacts", run.Info.ExperimentId, run.Info.RunId,
		)
	}
	if run.Info.Status == "" {
		run.Info.Status = runs.Running
	}
	if run.Info.LifecycleStage == "" {
		run.Info.LifecycleStage = experiments.StageActive
	}
	r := &run
	s.runs = append(s.runs, r)
	return r
}

// Run returns the run with the id as the server knows.
func (s *Server) Run(runId string) (runs.Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.runs {
		if r.Info.RunId == runId {
			return *r, true
		}
	}
	return runs.Run{}, false
}

// AddRegisteredModel registers a model.
func (s *Server) AddRegisteredModel(rm models.RegisteredModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models = append(s.models, &rm)
}

// AddModelVersion registers a version of a model. The model is created when missing.
func (s *Server) AddModelVersion(mv models.ModelVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findModel(mv.Name) == nil {
		s.models = append(s.models, &models.RegisteredModel{Name: mv.Name})
	}
	if mv.Status == "" {
		mv.Status = models.StatusReady
	}
	if mv.CurrentStage == "" {
		mv.CurrentStage = models.StageNone
	}
	s.versions = append(s.versions, &mv)

	rm := s.findModel(mv.Name)
	for _, a := range mv.Aliases {
		rm.Aliases = append(rm.Aliases, models.Alias{Alias: a, Version: mv.Version})
	}
}

// PutArtifact stores a file in the proxied artifact store.
//
// p is relative to the root of the store, like "1/<runId>/artifacts/model/MLmodel".
func (s *Server) PutArtifact(p string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[strings.Trim(path.Clean(p), "/")] = content
}

func (s *Server) findModel(name string) *models.RegisteredModel {
	for _, m := range s.models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (s *Server) findVersion(name, version string) *models.ModelVersion {
	for _, v := range s.versions {
		if v.Name == name && v.Version == version {
			return v
		}
	}
	return nil
}

func (s *Server) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(s.record, s.authenticate)

	api := e.Group(apiPrefix)
	api.POST("/experiments/search", s.searchExperiments)
	api.GET("/experiments/get", s.getExperiment)
	api.GET("/experiments/get-by-name", s.getExperimentByName)
	api.POST("/experiments/create", s.createExperiment)

	api.POST("/runs/search", s.searchRuns)
	api.GET("/runs/get", s.getRun)
	api.POST("/runs/create", s.createRun)
	api.POST("/runs/update", s.updateRun)
	api.POST("/runs/log-batch", s.logBatch)

	api.GET("/registered-models/search", s.searchRegisteredModels)
	api.GET("/registered-models/get", s.getRegisteredModel)
	api.POST("/registered-models/get-latest-versions", s.getLatestVersions)
	api.GET("/registered-models/alias", s.getModelVersionByAlias)

	api.GET("/model-versions/search", s.searchModelVersions)
	api.GET("/model-versions/get", s.getModelVersion)
	api.GET("/model-versions/get-download-uri", s.getDownloadURI)

	api.GET("/artifacts/list", s.listRunArtifacts)

	e.GET(artifactPrefix, s.listProxiedArtifacts)
	e.GET(artifactPrefix+"/*", s.downloadProxiedArtifact)

	return e
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			b, err := io.ReadAll(req.Body)
			if err != nil {
				return err
			}
			body = b
			req.Body = io.NopCloser(bytes.NewReader(b))
		}

		if !strings.HasPrefix(req.URL.Path, artifactPrefix+"/") {
			s.mu.Lock()
			s.requests = append(s.requests, Request{
				Method: req.Method, Path: req.URL.Path, Query: req.URL.Query(), Body: body,
			})
			s.mu.Unlock()
		}

		err := next(c)
		if err != nil {
			s.t.Logf("mlflowserver: %s %s: %v", req.Method, req.URL.String(), err)
		}
		return err
	}
}

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.token == "" {
			return next(c)
		}
		if c.Request().Header.Get("Authorization") != "Bearer "+s.token {
			return mlflowError(http.StatusUnauthorized, apierr.CodeUnauthenticated, "credential is missing")
		}
		return next(c)
	}
}

// mlflowError is an error responded in MLflow's error payload.
func mlflowError(status int, code string, message string) *echo.HTTPError {
	return echo.NewHTTPError(status, apierr.ErrorMessage{ErrorCode: code, Message: message})
}

func notFound(format string, args ...any) *echo.HTTPError {
	return mlflowError(http.StatusNotFound, apierr.CodeResourceDoesNotExist, fmt.Sprintf(format, args...))
}

func invalidParameter(format string, args ...any) *echo.HTTPError {
	return mlflowError(http.StatusBadRequest, apierr.CodeInvalidParameterValue, fmt.Sprintf(format, args...))
}

func bindJson(c echo.Context, v any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(v); err != nil {
		return invalidParameter("malformed request: %s", err)
	}
	return nil
}

// page cuts out a page from items. Page tokens are offsets.
func page[T any](items []T, token string, maxResults int64, pageSize int) ([]T, string, error) {
	offset := 0
	if token != "" {
		o, err := strconv.Atoi(token)
		if err != nil || o < 0 || len(items) < o {
			return nil, "", invalidParameter("invalid page token: %q", token)
		}
		offset = o
	}

	size := pageSize
	if 0 < maxResults && maxResults < int64(size) {
		size = int(maxResults)
	}

	end := min(offset+size, len(items))
	next := ""
	if end < len(items) {
		next = strconv.Itoa(end)
	}
	return items[offset:end], next, nil
}

func (s *Server) searchExperiments(c echo.Context) error {
	var req experiments.SearchRequest
	if err := bindJson(c, &req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found, next, err := page(s.experiments, req.PageToken, req.MaxResults, s.pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, experiments.SearchResponse{Experiments: found, NextPageToken: next})
}

func (s *Server) getExperiment(c echo.Context) error {
	id := c.QueryParam("experiment_id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.experiments {
		if e.ExperimentId == id {
			return c.JSON(http.StatusOK, experiments.GetResponse{Experiment: e})
		}
	}
	return notFound("No Experiment with id=%s exists", id)
}

func (s *Server) getExperimentByName(c echo.Context) error {
	name := c.QueryParam("experiment_name")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.experiments {
		if e.Name == name {
			return c.JSON(http.StatusOK, experiments.GetResponse{Experiment: e})
		}
	}
	return notFound("Could not find experiment with name '%s'", name)
}

func (s *Server) createExperiment(c echo.Context) error {
	var req experiments.CreateRequest
	if err := bindJson(c, &req); err != nil {
		return err
	}
	if req.Name == "" {
		return invalidParameter("experiment name is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.experiments {
		if e.Name == req.Name {
			return mlflowError(
				http.StatusBadRequest, apierr.CodeResourceAlreadyExists,
				fmt.Sprintf("Experiment '%s' already exists.", req.Name),
			)
		}
	}

	exp := s.addExperiment(experiments.Experiment{
		Name:             req.Name,
		ArtifactLocation: req.ArtifactLocation,
		Tags:             req.Tags,
		CreationTime:     timestamp.Now(),
	})
	return c.JSON(http.StatusOK, experiments.CreateResponse{ExperimentId: exp.ExperimentId})
}

func (s *Server) searchRuns(c echo.Context) error {
	var req runs.SearchRequest
	if err := bindJson(c, &req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []runs.Run{}
	for _, r := range s.runs {
		if slices.Contains(req.ExperimentIds, r.Info.ExperimentId) {
			matched = append(matched, *r)
		}
	}

	found, next, err := page(matched, req.PageToken, req.MaxResults, s.pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, runs.SearchResponse{Runs: found, NextPageToken: next})
}

func (s *Server) findRun(runId string) (*runs.Run, error) {
	for _, r := range s.runs {
		if r.Info.RunId == runId {
			return r, nil
		}
	}
	return nil, notFound("Run with id=%s not found", runId)
}

func (s *Server) getRun(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.findRun(c.QueryParam("run_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, runs.GetResponse{Run: *r})
}

func (s *Server) createRun(c echo.Context) error {
	var req runs.CreateRequest
	if err := bindJson(c, &req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.ContainsFunc(s.experiments, func(e experiments.Experiment) bool {
		return e.ExperimentId == req.ExperimentId
	}) {
		return notFound("No Experiment with id=%s exists", req.ExperimentId)
	}

	r := s.addRun(runs.Run{
		Info: runs.Info{
			ExperimentId: req.ExperimentId,
			RunName:      req.RunName,
			UserId:       req.UserId,
			StartTime:    req.StartTime,
		},
		Data: runs.Data{Tags: req.Tags},
	})
	return c.JSON(http.StatusOK, runs.CreateResponse{Run: *r})
}

func (s *Server) updateRun(c echo.Context) error {
	var req runs.UpdateRequest
	if err := bindJson(c, &req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.findRun(req.RunId)
	if err != nil {
		return err
	}
	if req.Status != "" {
		r.Info.Status = req.Status
	}
	if req.EndTime != nil {
		r.Info.EndTime = pointer.Ref(*req.EndTime)
	}
	if req.RunName != "" {
		r.Info.RunName = req.RunName
	}
	return c.JSON(http.StatusOK, runs.UpdateResponse{RunInfo: r.Info})
}

func (s *Server) logBatch(c echo.Context) error {
	var req runs.LogBatchRequest
	if err := bindJson(c, &req); err != nil {
		return err
	}
	if runs.MaxParamsPerBatch < len(req.Params) ||
		runs.MaxMetricsPerBatch < len(req.Metrics) ||
		runs.MaxTagsPerBatch < len(req.Tags) ||
		runs.MaxEntitiesPerBatch < len(req.Params)+len(req.Metrics)+len(req.Tags) {
		return invalidParameter("too many entities in a batch")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.findRun(req.RunId)
	if err != nil {
		return err
	}
	if r.Info.Status.Terminated() {
		return mlflowError(
			http.StatusBadRequest, apierr.CodeInvalidState,
			fmt.Sprintf("The run %s must be in the 'active' state.", req.RunId),
		)
	}

	for _, p := range req.Params {
		for _, existing := range r.Data.Params {
			if existing.Key == p.Key && existing.Value != p.Value {
				return invalidParameter("Changing param values is not allowed. Param with key='%s'", p.Key)
			}
		}
		if !slices.Contains(r.Data.Params, p) {
			r.Data.Params = append(r.Data.Params, p)
		}
	}
	r.Data.Metrics = append(r.Data.Metrics, req.Metrics...)
	for _, t := range req.Tags {
		r.Data.Tags = slices.DeleteFunc(r.Data.Tags, func(e tags.Tag) bool { return e.Key == t.Key })
		r.Data.Tags = append(r.Data.Tags, t)
	}

	return c.JSON(http.StatusOK, map[string]any{})
}

func searchParameter(c echo.Context) (models.SearchParameter, error) {
	param := models.SearchParameter{
		Filter:    c.QueryParam("filter"),
		OrderBy:   c.QueryParams()["order_by"],
		PageToken: c.QueryParam("page_token"),
	}
	if mr := c.QueryParam("max_results"); mr != "" {
		n, err := strconv.ParseInt(mr, 10, 64)
		if err != nil {
			return models.SearchParameter{}, invalidParameter("max_results is not a number: %s", mr)
		}
		param.MaxResults = n
	}
	return param, nil
}

func (s *Server) withLatestVersions(rm models.RegisteredModel) models.RegisteredModel {
	rm.LatestVersions = s.latestVersions(rm.Name, nil)
	return rm
}

func (s *Server) searchRegisteredModels(c echo.Context) error {
	param, err := searchParameter(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.RegisteredModel, 0, len(s.models))
	for _, m := range s.models {
		all = append(all, s.withLatestVersions(*m))
	}

	found, next, err := page(all, param.PageToken, param.MaxResults, s.pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.SearchRegisteredModelsResponse{
		RegisteredModels: found, NextPageToken: next,
	})
}

func (s *Server) getRegisteredModel(c echo.Context) error {
	name := c.QueryParam("name")

	s.mu.Lock()
	defer s.mu.Unlock()

	rm := s.findModel(name)
	if rm == nil {
		return notFound("Registered Model with name=%s not found", name)
	}
	return c.JSON(http.StatusOK, models.GetRegisteredModelResponse{
		RegisteredModel: s.withLatestVersions(*rm),
	})
}

func versionNumber(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}

// latestVersions returns the highest version for each stage.
//
// When stages is empty, every stage is considered.
func (s *Server) latestVersions(name string, stages []string) []models.ModelVersion {
	latest := map[string]models.ModelVersion{}
	order := []string{}
	for _, v := range s.versions {
		if v.Name != name {
			continue
		}
		if 0 < len(stages) && !slices.ContainsFunc(stages, func(st string) bool {
			return strings.EqualFold(st, v.CurrentStage)
		}) {
			continue
		}
		cur, ok := latest[v.CurrentStage]
		if !ok {
			order = append(order, v.CurrentStage)
		}
		if !ok || versionNumber(cur.Version) < versionNumber(v.Version) {
			latest[v.CurrentStage] = *v
		}
	}

	result := make([]models.ModelVersion, 0, len(order))
	for _, st := range order {
		result = append(result, latest[st])
	}
	return result
}

func (s *Server) getLatestVersions(c echo.Context) error {
	var req models.GetLatestVersionsRequest
	if err := bindJson(c, &req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findModel(req.Name) == nil {
		return notFound("Registered Model with name=%s not found", req.Name)
	}
	return c.JSON(http.StatusOK, models.GetLatestVersionsResponse{
		ModelVersions: s.latestVersions(req.Name, req.Stages),
	})
}

func (s *Server) getModelVersionByAlias(c echo.Context) error {
	name := c.QueryParam("name")
	alias := c.QueryParam("alias")

	s.mu.Lock()
	defer s.mu.Unlock()

	rm := s.findModel(name)
	if rm == nil {
		return notFound("Registered Model with name=%s not found", name)
	}
	for _, a := range rm.Aliases {
		if a.Alias != alias {
			continue
		}
		if mv := s.findVersion(name, a.Version); mv != nil {
			return c.JSON(http.StatusOK, models.GetModelVersionResponse{ModelVersion: *mv})
		}
	}
	return notFound("Registered model alias %s not found.", alias)
}

// nameFilter extracts the model name from a filter like `name='iris'`.
func nameFilter(filter string) (string, bool) {
	v, ok := strings.CutPrefix(strings.TrimSpace(filter), "name=")
	if !ok || len(v) < 2 || !strings.HasPrefix(v, "'") || !strings.HasSuffix(v, "'") {
		return "", false
	}
	return strings.ReplaceAll(v[1:len(v)-1], `\'`, `'`), true
}

func (s *Server) searchModelVersions(c echo.Context) error {
	param, err := searchParameter(c)
	if err != nil {
		return err
	}

	name, byName := nameFilter(param.Filter)
	if param.Filter != "" && !byName {
		return invalidParameter("unsupported filter: %s", param.Filter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []models.ModelVersion{}
	for _, v := range s.versions {
		if !byName || v.Name == name {
			matched = append(matched, *v)
		}
	}

	found, next, err := page(matched, param.PageToken, param.MaxResults, s.pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.SearchModelVersionsResponse{
		ModelVersions: found, NextPageToken: next,
	})
}

func (s *Server) getModelVersion(c echo.Context) error {
	name, version := c.QueryParam("name"), c.QueryParam("version")

	s.mu.Lock()
	defer s.mu.Unlock()

	mv := s.findVersion(name, version)
	if mv == nil {
		return notFound("Model Version (name=%s, version=%s) not found", name, version)
	}
	return c.JSON(http.StatusOK, models.GetModelVersionResponse{ModelVersion: *mv})
}

func (s *Server) getDownloadURI(c echo.Context) error {
	name, version := c.QueryParam("name"), c.QueryParam("version")

	s.mu.Lock()
	defer s.mu.Unlock()

	mv := s.findVersion(name, version)
	if mv == nil {
		return notFound("Model Version (name=%s, version=%s) not found", name, version)
	}
	return c.JSON(http.StatusOK, models.GetDownloadURIResponse{ArtifactUri: mv.Source})
}

// children lists entries directly under dir in the artifact store.
//
// Paths of entries are relative to dir.
func (s *Server) children(dir string) []artifacts.FileInfo {
	dir = strings.Trim(dir, "/")
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	seen := map[string]bool{}
	result := []artifacts.FileInfo{}
	for p, content := range s.files {
		rest, ok := strings.CutPrefix(p, prefix)
		if !ok || rest == "" {
			continue
		}
		head, _, isDir := strings.Cut(rest, "/")
		if seen[head] {
			continue
		}
		seen[head] = true
		fi := artifacts.FileInfo{Path: head, IsDir: isDir}
		if !isDir {
			fi.FileSize = int64(len(content))
		}
		result = append(result, fi)
	}
	slices.SortFunc(result, func(a, b artifacts.FileInfo) int { return strings.Compare(a.Path, b.Path) })
	return result
}

func (s *Server) listRunArtifacts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.findRun(c.QueryParam("run_id"))
	if err != nil {
		return err
	}
	root := strings.TrimPrefix(r.Info.ArtifactUri, "mlflow-artifacts:")
	sub := strings.Trim(c.QueryParam("path"), "/")

	files := s.children(path.Join(root, sub))
	for i := range files {
		if sub != "" {
			files[i].Path = sub + "/" + files[i].Path
		}
	}

	found, next, err := page(files, c.QueryParam("page_token"), 0, s.pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artifacts.ListResponse{
		RootUri: r.Info.ArtifactUri, Files: found, NextPageToken: next,
	})
}

func (s *Server) listProxiedArtifacts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, artifacts.ProxiedListResponse{Files: s.children(c.QueryParam("path"))})
}

func (s *Server) downloadProxiedArtifact(c echo.Context) error {
	p, err := url.PathUnescape(c.Param("*"))
	if err != nil {
		return invalidParameter("malformed path: %s", c.Param("*"))
	}
	p = strings.Trim(path.Clean("/"+p), "/")

	s.mu.Lock()
	content, ok := s.files[p]
	s.mu.Unlock()
	if !ok {
		return notFound("artifact %s not found", p)
	}
	return c.Blob(http.StatusOK, "application/octet-stream", content)
}
