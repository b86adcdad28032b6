// Package tracking is a client of MLflow tracking server and model registry.
//
// It wraps the raw REST client (package rest) with operations which drain paged searches,
// resolve model URIs and download models.
package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/aesdk/mlflowsdk/pkg/api/types/experiments"
	"github.com/aesdk/mlflowsdk/pkg/api/types/paging"
	"github.com/aesdk/mlflowsdk/pkg/api/types/runs"
	"github.com/aesdk/mlflowsdk/pkg/artifacts"
	"github.com/aesdk/mlflowsdk/pkg/configs/profiles"
	"github.com/aesdk/mlflowsdk/pkg/rest"
	"go.uber.org/zap"
)

// ErrPagingStalled is returned when the server responds the same page token as requested.
var ErrPagingStalled = errors.New("paging does not make progress")

type Client struct {
	raw        rest.Client
	downloader *artifacts.Downloader
	logger     *zap.Logger
}

type config struct {
	logger          *zap.Logger
	downloadOptions []artifacts.Option
	restOptions     []rest.Option
}

type Option func(*config) *config

// WithLogger sets a logger. It is also given to the REST client and the downloader
// when they are built by this package.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) *config {
		c.logger = logger
		return c
	}
}

// WithDownloadOptions configures the downloader used to load models.
func WithDownloadOptions(options ...artifacts.Option) Option {
	return func(c *config) *config {
		c.downloadOptions = append(c.downloadOptions, options...)
		return c
	}
}

// WithRestOptions configures the REST client built by FromProfile and BuildClient.
func WithRestOptions(options ...rest.Option) Option {
	return func(c *config) *config {
		c.restOptions = append(c.restOptions, options...)
		return c
	}
}

func newConfig(options []Option) *config {
	c := &config{logger: zap.NewNop()}
	for _, o := range options {
		c = o(c)
	}
	return c
}

// New wraps a raw client.
func New(raw rest.Client, options ...Option) *Client {
	conf := newConfig(options)
	return &Client{
		raw: raw,
		downloader: artifacts.New(
			raw,
			append([]artifacts.Option{artifacts.WithLogger(conf.logger)}, conf.downloadOptions...)...,
		),
		logger: conf.logger,
	}
}

// FromProfile builds a client connecting to servers in the profile.
func FromProfile(prof *profiles.Profile, options ...Option) (*Client, error) {
	conf := newConfig(options)
	raw, err := rest.NewClient(
		prof,
		append([]rest.Option{rest.WithLogger(conf.logger)}, conf.restOptions...)...,
	)
	if err != nil {
		return nil, err
	}
	return New(raw, options...), nil
}

// Raw returns the underlying REST client.
func (c *Client) Raw() rest.Client {
	return c.raw
}

// drain requests pages until the last one, and concatenates their items in order.
//
// fetch is called with the token of the previous page, or "" for the first page.
func drain[T any](
	ctx context.Context,
	logger *zap.Logger,
	fetch func(ctx context.Context, token string) (paging.Page[T], error),
) ([]T, error) {
	items := []T{}
	token := ""
	for {
		page, err := fetch(ctx, token)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		logger.Debug(
			"page fetched",
			zap.String("token", token), zap.Int("items", len(page.Items)), zap.Bool("last", page.Last()),
		)

		if page.Last() {
			return items, nil
		}
		if page.Token == token {
			return nil, fmt.Errorf("%w: token %q", ErrPagingStalled, token)
		}
		token = page.Token
	}
}

// GetExperiments returns all experiments matching the filter.
//
// Empty filter matches every active experiment.
func (c *Client) GetExperiments(ctx context.Context, filter string) ([]experiments.Experiment, error) {
	return drain(ctx, c.logger, func(ctx context.Context, token string) (paging.Page[experiments.Experiment], error) {
		resp, err := c.raw.SearchExperiments(ctx, experiments.SearchRequest{Filter: filter, PageToken: token})
		if err != nil {
			return paging.Page[experiments.Experiment]{}, err
		}
		return paging.Page[experiments.Experiment]{Items: resp.Experiments, Token: resp.NextPageToken}, nil
	})
}

// GetExperimentRuns returns all runs of the experiment matching the filter.
func (c *Client) GetExperimentRuns(ctx context.Context, experimentId string, filter string) ([]runs.Run, error) {
	return drain(ctx, c.logger, func(ctx context.Context, token string) (paging.Page[runs.Run], error) {
		resp, err := c.raw.SearchRuns(ctx, runs.SearchRequest{
			ExperimentIds: []string{experimentId},
			Filter:        filter,
			PageToken:     token,
		})
		if err != nil {
			return paging.Page[runs.Run]{}, err
		}
		return paging.Page[runs.Run]{Items: resp.Runs, Token: resp.NextPageToken}, nil
	})
}
