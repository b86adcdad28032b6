package tracking_test

import (
	"testing"
	"time"

	"github.com/aesdk/mlflowsdk/internal/testutils/mlflowserver"
	"github.com/aesdk/mlflowsdk/pkg/configs/profiles"
	"github.com/aesdk/mlflowsdk/pkg/rest"
	"github.com/aesdk/mlflowsdk/pkg/tracking"
	"github.com/aesdk/mlflowsdk/pkg/utils/try"
	"go.uber.org/zap/zaptest"
)

func startServer(t *testing.T, options ...mlflowserver.Option) (*mlflowserver.Server, *tracking.Client) {
	t.Helper()
	server := mlflowserver.Start(t, options...)
	client := try.To(tracking.FromProfile(
		&profiles.Profile{TrackingUri: server.URL()},
		tracking.WithLogger(zaptest.NewLogger(t)),
		tracking.WithRestOptions(rest.WithRetryInterval(time.Millisecond)),
	)).OrFatal(t)
	return server, client
}
