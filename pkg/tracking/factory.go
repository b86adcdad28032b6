package tracking

import "github.com/aesdk/mlflowsdk/pkg/configs/env"

// BuildClient builds a client configured with environment variables.
//
// MLFLOW_TRACKING_URI and MLFLOW_REGISTRY_URI are required.
// If either is missing, it returns env.ErrMissingEnv naming the variable.
func BuildClient(options ...Option) (*Client, error) {
	prof, err := env.Profile(env.New())
	if err != nil {
		return nil, err
	}
	return FromProfile(prof, options...)
}
