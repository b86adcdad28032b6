package tracking

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/aesdk/mlflowsdk/pkg/api/types/models"
	"github.com/aesdk/mlflowsdk/pkg/api/types/paging"
	"github.com/aesdk/mlflowsdk/pkg/mlmodel"
	"go.uber.org/zap"
)

const (
	SchemeModels = "models"
	SchemeRuns   = "runs"

	// version specifier meaning the latest version across all stages.
	VersionLatest = "latest"
)

var (
	ErrModelNotFound   = errors.New("model not found")
	ErrInvalidModelURI = errors.New("invalid model uri")
)

// GetRegisteredModels returns all registered models matching the filter.
func (c *Client) GetRegisteredModels(ctx context.Context, filter string) ([]models.RegisteredModel, error) {
	return drain(ctx, c.logger, func(ctx context.Context, token string) (paging.Page[models.RegisteredModel], error) {
		resp, err := c.raw.SearchRegisteredModels(ctx, models.SearchParameter{Filter: filter, PageToken: token})
		if err != nil {
			return paging.Page[models.RegisteredModel]{}, err
		}
		return paging.Page[models.RegisteredModel]{
			Items: resp.RegisteredModels, Token: resp.NextPageToken,
		}, nil
	})
}

// GetModelVersions returns versions of the model.
//
// This makes a single search request. The page token in the result is for the next page.
func (c *Client) GetModelVersions(ctx context.Context, modelName string) (paging.Page[models.ModelVersion], error) {
	resp, err := c.raw.SearchModelVersions(ctx, models.SearchParameter{Filter: NameFilter(modelName)})
	if err != nil {
		return paging.Page[models.ModelVersion]{}, err
	}
	return paging.Page[models.ModelVersion]{Items: resp.ModelVersions, Token: resp.NextPageToken}, nil
}

// NameFilter is a search filter matching models named exactly as given.
func NameFilter(name string) string {
	return fmt.Sprintf("name='%s'", strings.ReplaceAll(name, "'", `\'`))
}

// ModelURIForVersion returns "models:/<name>/<version>".
func ModelURIForVersion(name string, version int) string {
	return fmt.Sprintf("%s:/%s/%d", SchemeModels, name, version)
}

// ModelURIForStage returns "models:/<name>/<stage>".
func ModelURIForStage(name string, stage string) string {
	return fmt.Sprintf("%s:/%s/%s", SchemeModels, name, stage)
}

// LoadModelByVersion downloads the model version into dest and reads it.
func (c *Client) LoadModelByVersion(ctx context.Context, name string, version int, dest string) (*mlmodel.Model, error) {
	return c.LoadModelByRun(ctx, ModelURIForVersion(name, version), dest)
}

// LoadModelByStage downloads the latest model version in the stage into dest and reads it.
func (c *Client) LoadModelByStage(ctx context.Context, name string, stage string, dest string) (*mlmodel.Model, error) {
	return c.LoadModelByRun(ctx, ModelURIForStage(name, stage), dest)
}

// LoadModelByRun downloads the model at the model URI into dest and reads its MLmodel.
//
// See ResolveModelURI for URIs which can be given.
func (c *Client) LoadModelByRun(ctx context.Context, modelURI string, dest string) (*mlmodel.Model, error) {
	artifactURI, err := c.ResolveModelURI(ctx, modelURI)
	if err != nil {
		return nil, err
	}

	c.logger.Info("loading model", zap.String("uri", modelURI), zap.String("artifact", artifactURI))
	if _, err := c.downloader.Download(ctx, artifactURI, dest); err != nil {
		return nil, err
	}
	return mlmodel.Load(dest)
}

// ResolveModelURI converts a model URI into the artifact URI where the model is stored.
//
// Model URIs are one of
//
//   - models:/<name>/<version>
//   - models:/<name>/latest
//   - models:/<name>/<stage>
//   - models:/<name>@<alias>
//   - runs:/<run id>/<path>
//
// Other URIs are returned as they are.
func (c *Client) ResolveModelURI(ctx context.Context, modelURI string) (string, error) {
	scheme, rest, ok := strings.Cut(modelURI, ":")
	if !ok {
		return modelURI, nil
	}

	// model names and artifact paths are taken as written: no percent-decoding,
	// and "?" or "#" are a part of them.
	switch strings.ToLower(scheme) {
	case SchemeModels:
		p, err := trimAuthority(rest)
		if err != nil {
			return "", fmt.Errorf("%w: registry in uri is not supported: %s", ErrInvalidModelURI, modelURI)
		}
		return c.resolveRegistered(ctx, modelURI, p)
	case SchemeRuns:
		p, err := trimAuthority(rest)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrInvalidModelURI, modelURI, err)
		}
		runId, artifactPath, _ := strings.Cut(p, "/")
		if runId == "" {
			return "", fmt.Errorf("%w: run id is missing: %s", ErrInvalidModelURI, modelURI)
		}
		run, err := c.raw.GetRun(ctx, runId)
		if err != nil {
			return "", err
		}
		root := strings.TrimSuffix(run.Info.ArtifactUri, "/")
		if artifactPath == "" {
			return root, nil
		}
		return root + "/" + path.Clean(artifactPath), nil
	default:
		return modelURI, nil
	}
}

var errAuthority = errors.New("authority is not supported")

// trimAuthority returns the path part of "/<path>" or "///<path>",
// without leading and trailing slashes.
func trimAuthority(rest string) (string, error) {
	if after, ok := strings.CutPrefix(rest, "//"); ok {
		host, p, _ := strings.Cut(after, "/")
		if host != "" {
			return "", errAuthority
		}
		rest = p
	}
	return strings.Trim(rest, "/"), nil
}

func (c *Client) resolveRegistered(ctx context.Context, modelURI string, p string) (string, error) {
	if name, alias, ok := strings.Cut(p, "@"); ok && !strings.Contains(p, "/") {
		if name == "" || alias == "" {
			return "", fmt.Errorf("%w: %s", ErrInvalidModelURI, modelURI)
		}
		mv, err := c.raw.GetModelVersionByAlias(ctx, name, alias)
		if err != nil {
			return "", err
		}
		return c.raw.GetModelVersionDownloadURI(ctx, name, mv.Version)
	}

	name, spec, ok := strings.Cut(p, "/")
	if !ok || name == "" || spec == "" || strings.Contains(spec, "/") {
		return "", fmt.Errorf(
			"%w: %s (should be models:/<name>/<version or stage> or models:/<name>@<alias>)",
			ErrInvalidModelURI, modelURI,
		)
	}

	version := spec
	if _, err := strconv.Atoi(spec); err != nil {
		var stages []string
		if !strings.EqualFold(spec, VersionLatest) {
			stages = []string{spec}
		}
		latest, err := c.latestVersion(ctx, name, stages)
		if err != nil {
			return "", err
		}
		version = latest
	}

	return c.raw.GetModelVersionDownloadURI(ctx, name, version)
}

// latestVersion returns the highest version among the latest versions in stages.
func (c *Client) latestVersion(ctx context.Context, name string, stages []string) (string, error) {
	versions, err := c.raw.GetLatestVersions(ctx, name, stages)
	if err != nil {
		return "", err
	}

	best, bestN := "", -1
	for _, v := range versions {
		n, err := strconv.Atoi(v.Version)
		if err != nil {
			continue
		}
		if bestN < n {
			best, bestN = v.Version, n
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: no versions of model %q in stages %v", ErrModelNotFound, name, stages)
	}
	return best, nil
}
