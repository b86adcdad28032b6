package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aesdk/mlflowsdk/pkg/api/types/artifacts"
	"github.com/aesdk/mlflowsdk/pkg/api/types/experiments"
	"github.com/aesdk/mlflowsdk/pkg/api/types/models"
	"github.com/aesdk/mlflowsdk/pkg/api/types/runs"
	"github.com/aesdk/mlflowsdk/pkg/configs/profiles"
	"github.com/aesdk/mlflowsdk/pkg/utils"
	"github.com/aesdk/mlflowsdk/pkg/utils/retry"
	"go.uber.org/zap"
)

// Client is a client of MLflow REST API.
//
// Tracking APIs are sent to the tracking server, and model registry APIs are sent to
// the model registry.
type Client interface {
	// SearchExperiments returns a page of experiments matching the request.
	SearchExperiments(ctx context.Context, req experiments.SearchRequest) (experiments.SearchResponse, error)

	// GetExperiment returns the experiment with the id.
	GetExperiment(ctx context.Context, experimentId string) (experiments.Experiment, error)

	// GetExperimentByName returns the experiment with the name.
	GetExperimentByName(ctx context.Context, name string) (experiments.Experiment, error)

	// CreateExperiment creates a new experiment and returns its id.
	CreateExperiment(ctx context.Context, req experiments.CreateRequest) (string, error)

	// SearchRuns returns a page of runs matching the request.
	SearchRuns(ctx context.Context, req runs.SearchRequest) (runs.SearchResponse, error)

	// GetRun returns the run with the id, including its metrics, params and tags.
	GetRun(ctx context.Context, runId string) (runs.Run, error)

	// CreateRun starts a new run.
	CreateRun(ctx context.Context, req runs.CreateRequest) (runs.Run, error)

	// UpdateRun changes status, end time or name of a run.
	UpdateRun(ctx context.Context, req runs.UpdateRequest) (runs.Info, error)

	// LogBatch logs metrics, params and tags for a run at once.
	//
	// The request should be within the limits stated in package runs.
	LogBatch(ctx context.Context, req runs.LogBatchRequest) error

	// SearchRegisteredModels returns a page of registered models.
	SearchRegisteredModels(ctx context.Context, param models.SearchParameter) (models.SearchRegisteredModelsResponse, error)

	// GetRegisteredModel returns the registered model with the name.
	GetRegisteredModel(ctx context.Context, name string) (models.RegisteredModel, error)

	// GetLatestVersions returns the latest model version for each stage.
	//
	// If stages is empty, all stages are considered.
	GetLatestVersions(ctx context.Context, name string, stages []string) ([]models.ModelVersion, error)

	// GetModelVersionByAlias returns the model version which the alias points to.
	GetModelVersionByAlias(ctx context.Context, name string, alias string) (models.ModelVersion, error)

	// SearchModelVersions returns a page of model versions.
	SearchModelVersions(ctx context.Context, param models.SearchParameter) (models.SearchModelVersionsResponse, error)

	// GetModelVersion returns the model version.
	GetModelVersion(ctx context.Context, name string, version string) (models.ModelVersion, error)

	// GetModelVersionDownloadURI returns the artifact URI where the model version is stored.
	GetModelVersionDownloadURI(ctx context.Context, name string, version string) (string, error)

	// ListArtifacts lists artifacts of a run, directly under the path.
	ListArtifacts(ctx context.Context, runId string, path string, pageToken string) (artifacts.ListResponse, error)

	// ListProxiedArtifacts lists artifacts served by the artifact proxy, directly under the path.
	//
	// path is relative to the root of the proxied artifact store.
	ListProxiedArtifacts(ctx context.Context, path string) ([]artifacts.FileInfo, error)

	// DownloadProxiedArtifact downloads a file from the artifact proxy.
	//
	// Args
	//
	// - path: path to the file, relative to the root of the proxied artifact store.
	//
	// - handler: function to be called with the content.
	// If handler returns an error, downloading is stopped and the error is returned.
	DownloadProxiedArtifact(ctx context.Context, path string, handler func(io.Reader) error) error
}

const (
	apiPrefix      = "api/2.0/mlflow"
	artifactPrefix = "api/2.0/mlflow-artifacts/artifacts"

	defaultMaxRetries    = 3
	defaultRetryInterval = 500 * time.Millisecond
)

type client struct {
	httpclient *http.Client
	tracking   string
	registry   string
	auth       profiles.Auth

	maxRetries    int
	retryInterval time.Duration

	logger *zap.Logger
}

type Option func(*client) *client

// WithLogger sets a logger which records requests in debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *client) *client {
		c.logger = logger
		return c
	}
}

// WithRetryInterval sets the first interval of retrying. Intervals are doubled for each retry.
func WithRetryInterval(d time.Duration) Option {
	return func(c *client) *client {
		c.retryInterval = d
		return c
	}
}

// WithHTTPClient replaces the underlying http client.
//
// TLS settings in the profile are applied to a clone of its transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) *client {
		c.httpclient = hc
		return c
	}
}

// create new MLflow client for Profile
//
// # Args
//
// - *profiles.Profile
//
// - ...Option
//
// # Return
//
// - Client: created client
//
// - error: If given profile is invalid, ErrProfileInvalid is returned.
func NewClient(prof *profiles.Profile, options ...Option) (Client, error) {
	if err := prof.Verify(); err != nil {
		return nil, err
	}

	maxRetries := prof.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	c := &client{
		httpclient:    new(http.Client),
		tracking:      strings.TrimSuffix(prof.TrackingUri, "/"),
		registry:      strings.TrimSuffix(prof.Registry(), "/"),
		auth:          prof.Auth,
		maxRetries:    maxRetries,
		retryInterval: defaultRetryInterval,
		logger:        zap.NewNop(),
	}
	for _, o := range options {
		c = o(c)
	}

	hc, err := configureTLS(c.httpclient, prof.Cert)
	if err != nil {
		return nil, err
	}
	c.httpclient = hc

	return c, nil
}

// build URL with path
func apipath(root string, path ...string) string {
	path = utils.Map(path, func(p string) string {
		return strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/")
	})

	return strings.Join(append([]string{root}, path...), "/")
}

func (c *client) trackingApi(path ...string) string {
	return apipath(c.tracking, append([]string{apiPrefix}, path...)...)
}

func (c *client) registryApi(path ...string) string {
	return apipath(c.registry, append([]string{apiPrefix}, path...)...)
}

// artifactApi builds URL of the artifact proxy. Each segment of artifactPath is escaped.
func (c *client) artifactApi(artifactPath string) string {
	segments := utils.Filter(
		strings.Split(artifactPath, "/"),
		func(s string) bool { return s != "" },
	)
	return apipath(c.tracking, append(
		[]string{artifactPrefix},
		utils.Map(segments, url.PathEscape)...,
	)...)
}

func (c *client) authorize(req *http.Request) {
	switch {
	case c.auth.Token != "":
		req.Header.Set("Authorization", "Bearer "+c.auth.Token)
	case c.auth.Username != "":
		req.SetBasicAuth(c.auth.Username, c.auth.Password)
	}
}

// send a request.
//
// payload is encoded as json body when it is not nil.
// Requests responded with transient failure are retried up to maxRetries times.
// Caller should close the body of the returned response.
func (c *client) send(
	ctx context.Context, method string, target string, query url.Values, payload any,
) (*http.Response, error) {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = b
	}

	attempt := 0
	return retry.Blocking(
		ctx,
		retry.ExponentialBackoff(c.retryInterval, 2),
		func() (*http.Response, error) {
			var r io.Reader
			if body != nil {
				r = bytes.NewReader(body)
			}
			req, err := http.NewRequestWithContext(ctx, method, target, r)
			if err != nil {
				return nil, err
			}
			if 0 < len(query) {
				req.URL.RawQuery = query.Encode()
			}
			if body != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			req.Header.Set("User-Agent", "mlflowsdk-go")
			c.authorize(req)

			c.logger.Debug(
				"request",
				zap.String("method", method),
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt),
			)

			resp, err := c.httpclient.Do(req)
			if err != nil {
				return nil, err
			}

			if retryable(resp.StatusCode) && attempt < c.maxRetries {
				attempt += 1
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				c.logger.Debug(
					"transient failure, retrying",
					zap.String("url", req.URL.String()),
					zap.Int("status", resp.StatusCode),
				)
				return nil, fmt.Errorf(
					"%w: %s %s (status code = %d)",
					retry.ErrRetry, method, target, resp.StatusCode,
				)
			}
			return resp, nil
		},
	)
}

// serverError is the summary of 5xx errors.
func serverError(resp *http.Response) string {
	return fmt.Sprintf("server error (status code = %d)", resp.StatusCode)
}

func configureTLS(hc *http.Client, cert profiles.Cert) (*http.Client, error) {
	if cert.CA == "" && !cert.Insecure {
		return hc, nil
	}

	if hc.Transport == nil {
		hc.Transport = http.DefaultTransport
	}

	tran, ok := hc.Transport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("failed to configure tls: unsupported transport")
	}
	tran = tran.Clone()

	tcc := tran.TLSClientConfig.Clone()
	if tcc == nil {
		tcc = &tls.Config{}
	}

	if cert.Insecure {
		tcc.InsecureSkipVerify = true
	}

	if cert.CA != "" {
		rootcas := tcc.RootCAs
		if rootcas == nil {
			rootcas = x509.NewCertPool()
			tcc.RootCAs = rootcas
		}
		bin, err := base64.StdEncoding.DecodeString(cert.CA)
		if err != nil {
			return nil, err
		}
		if !rootcas.AppendCertsFromPEM(bin) {
			return nil, fmt.Errorf("failed to add cert")
		}
	}

	tran.TLSClientConfig = tcc
	copied := *hc
	copied.Transport = tran
	return &copied, nil
}
