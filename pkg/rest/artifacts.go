package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/aesdk/mlflowsdk/pkg/api/types/artifacts"
)

func (c *client) ListArtifacts(
	ctx context.Context, runId string, path string, pageToken string,
) (artifacts.ListResponse, error) {
	q := url.Values{"run_id": {runId}}
	if path != "" {
		q.Set("path", path)
	}
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}

	resp, err := c.send(ctx, http.MethodGet, c.trackingApi("artifacts", "list"), q, nil)
	if err != nil {
		return artifacts.ListResponse{}, err
	}
	defer resp.Body.Close()

	var result artifacts.ListResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot list artifacts of run id:%s at %q", runId, path),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return artifacts.ListResponse{}, err
	}
	return result, nil
}

func (c *client) ListProxiedArtifacts(ctx context.Context, path string) ([]artifacts.FileInfo, error) {
	var q url.Values
	if path != "" {
		q = url.Values{"path": {path}}
	}

	resp, err := c.send(ctx, http.MethodGet, c.artifactApi(""), q, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result artifacts.ProxiedListResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot list artifacts at %q", path),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return nil, err
	}
	return result.Files, nil
}

func (c *client) DownloadProxiedArtifact(
	ctx context.Context, path string, handler func(io.Reader) error,
) error {
	resp, err := c.send(ctx, http.MethodGet, c.artifactApi(path), nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := unmarshalStreamResponse(
		resp,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot download artifact %q", path),
			Status5xx: serverError(resp),
		},
	)
	if err != nil {
		return err
	}
	return handler(body)
}
