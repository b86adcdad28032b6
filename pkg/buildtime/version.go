// Package buildtime holds values stamped at link time.
//
//	go build -ldflags "-X github.com/aesdk/mlflowsdk/pkg/buildtime.version=v1.2.3 -X github.com/aesdk/mlflowsdk/pkg/buildtime.revision=$(git rev-parse HEAD)"
package buildtime

var version = "dev"

var revision = "unknown"

// version string when this command has been built.
func VERSION() string {
	return version
}

func GIT_REVISION() string {
	return revision
}

func VersionString() string {
	return version + " (commit: " + revision + ")"
}
