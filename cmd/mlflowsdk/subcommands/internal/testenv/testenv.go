// Package testenv connects commands to a fake MLflow server in tests.
package testenv

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/aesdk/mlflowsdk/internal/testutils/mlflowserver"
	"github.com/aesdk/mlflowsdk/pkg/configs/profiles"
	"github.com/aesdk/mlflowsdk/pkg/rest"
	"github.com/aesdk/mlflowsdk/pkg/tracking"
	"github.com/aesdk/mlflowsdk/pkg/utils/try"
	"go.uber.org/zap/zaptest"
)

// Start starts a fake server and returns a client connected to it.
func Start(t *testing.T, options ...mlflowserver.Option) (*mlflowserver.Server, *tracking.Client) {
	t.Helper()
	server := mlflowserver.Start(t, options...)
	client := try.To(tracking.FromProfile(
		&profiles.Profile{TrackingUri: server.URL()},
		tracking.WithLogger(zaptest.NewLogger(t)),
		tracking.WithRestOptions(rest.WithRetryInterval(time.Millisecond)),
	)).OrFatal(t)
	return server, client
}

// Decode parses JSON printed by a command.
func Decode[T any](t *testing.T, out *bytes.Buffer) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(out.Bytes(), &v); err != nil {
		t.Fatalf("output is not JSON: %s\n%s", err, out.String())
	}
	return v
}
