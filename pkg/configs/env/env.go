// Package env reads MLflow client configuration from environment variables.
//
// Variable names follow the ones recognized by the MLflow python client.
package env

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/aesdk/mlflowsdk/pkg/configs/profiles"
	"github.com/spf13/viper"
)

const (
	TrackingURI        = "MLFLOW_TRACKING_URI"
	RegistryURI        = "MLFLOW_REGISTRY_URI"
	TrackingUsername   = "MLFLOW_TRACKING_USERNAME"
	TrackingPassword   = "MLFLOW_TRACKING_PASSWORD"
	TrackingToken      = "MLFLOW_TRACKING_TOKEN"
	TrackingInsecure   = "MLFLOW_TRACKING_INSECURE_TLS"
	TrackingServerCert = "MLFLOW_TRACKING_SERVER_CERT_PATH"
	MaxRetries         = "MLFLOW_HTTP_REQUEST_MAX_RETRIES"
)

var ErrMissingEnv = errors.New("required environment variable is not set")

// New returns a viper instance bound to the process environment.
//
// Values set with v.Set take precedence over environment variables.
func New() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(TrackingInsecure, false)
	v.SetDefault(MaxRetries, 0)
	return v
}

// Demand returns the value of a required variable.
//
// # Returns
//
// - string: the value
//
// - error: ErrMissingEnv if the variable is not set or empty.
func Demand(v *viper.Viper, name string) (string, error) {
	value := v.GetString(name)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, name)
	}
	return value, nil
}

// Option relaxes requirements of Profile.
type Option func(*option) *option

type option struct {
	registryOptional bool
}

// RegistryOptional allows MLFLOW_REGISTRY_URI to be absent.
// Then the tracking URI is used for the model registry.
func RegistryOptional() Option {
	return func(o *option) *option {
		o.registryOptional = true
		return o
	}
}

// Profile builds a client profile from variables.
//
// MLFLOW_TRACKING_URI and MLFLOW_REGISTRY_URI are required unless relaxed by options.
func Profile(v *viper.Viper, options ...Option) (*profiles.Profile, error) {
	opt := &option{}
	for _, o := range options {
		opt = o(opt)
	}

	tracking, err := Demand(v, TrackingURI)
	if err != nil {
		return nil, err
	}

	registry := v.GetString(RegistryURI)
	if registry == "" && !opt.registryOptional {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, RegistryURI)
	}

	prof := &profiles.Profile{
		TrackingUri: tracking,
		RegistryUri: registry,
		Cert: profiles.Cert{
			Insecure: v.GetBool(TrackingInsecure),
		},
		Auth: profiles.Auth{
			Username: v.GetString(TrackingUsername),
			Password: v.GetString(TrackingPassword),
			Token:    v.GetString(TrackingToken),
		},
		MaxRetries: v.GetInt(MaxRetries),
	}

	if certpath := v.GetString(TrackingServerCert); certpath != "" {
		pem, err := os.ReadFile(certpath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", TrackingServerCert, err)
		}
		prof.Cert.CA = base64.StdEncoding.EncodeToString(pem)
	}

	if err := prof.Verify(); err != nil {
		return nil, err
	}
	return prof, nil
}
