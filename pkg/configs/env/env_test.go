package env_test

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aesdk/mlflowsdk/pkg/configs/env"
	"github.com/aesdk/mlflowsdk/pkg/configs/profiles"
	"github.com/aesdk/mlflowsdk/pkg/utils/try"
	"github.com/google/go-cmp/cmp"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		env.TrackingURI, env.RegistryURI,
		env.TrackingUsername, env.TrackingPassword, env.TrackingToken,
		env.TrackingInsecure, env.TrackingServerCert, env.MaxRetries,
	} {
		t.Setenv(name, "")
	}
}

func TestProfile(t *testing.T) {
	t.Run("it builds profile from environment variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(env.TrackingURI, "http://tracking.example.com:5000")
		t.Setenv(env.RegistryURI, "http://registry.example.com:5000")
		t.Setenv(env.TrackingUsername, "alice")
		t.Setenv(env.TrackingPassword, "s3cr3t")
		t.Setenv(env.TrackingInsecure, "true")
		t.Setenv(env.MaxRetries, "5")

		actual := try.To(env.Profile(env.New())).OrFatal(t)

		expected := &profiles.Profile{
			TrackingUri: "http://tracking.example.com:5000",
			RegistryUri: "http://registry.example.com:5000",
			Cert:        profiles.Cert{Insecure: true},
			Auth:        profiles.Auth{Username: "alice", Password: "s3cr3t"},
			MaxRetries:  5,
		}
		if diff := cmp.Diff(expected, actual); diff != "" {
			t.Errorf("profile mismatch (-want +got):\n%s", diff)
		}
	})

	for _, missing := range []string{env.TrackingURI, env.RegistryURI} {
		t.Run("when "+missing+" is missing, it returns ErrMissingEnv", func(t *testing.T) {
			clearEnv(t)
			t.Setenv(env.TrackingURI, "http://localhost:5000")
			t.Setenv(env.RegistryURI, "http://localhost:5000")
			t.Setenv(missing, "")

			_, err := env.Profile(env.New())
			if !errors.Is(err, env.ErrMissingEnv) {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(err.Error(), missing) {
				t.Errorf("error does not name the variable: %v", err)
			}
		})
	}

	t.Run("when registry is optional, tracking uri is used for registry", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(env.TrackingURI, "http://localhost:5000")

		actual := try.To(env.Profile(env.New(), env.RegistryOptional())).OrFatal(t)
		if actual.Registry() != "http://localhost:5000" {
			t.Errorf("unexpected registry: %s", actual.Registry())
		}
	})

	t.Run("values set on viper take precedence", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(env.TrackingURI, "http://from-env:5000")

		v := env.New()
		v.Set(env.TrackingURI, "http://from-viper:5000")
		v.Set(env.RegistryURI, "http://from-viper:5000")

		actual := try.To(env.Profile(v)).OrFatal(t)
		if actual.TrackingUri != "http://from-viper:5000" {
			t.Errorf("unexpected tracking uri: %s", actual.TrackingUri)
		}
	})

	t.Run("server certificate is loaded from file", func(t *testing.T) {
		clearEnv(t)
		pem := try.To(os.ReadFile(filepath.Join("..", "profiles", "testdata", "ca.crt"))).OrFatal(t)
		certpath := filepath.Join(t.TempDir(), "ca.crt")
		if err := os.WriteFile(certpath, pem, 0600); err != nil {
			t.Fatal(err)
		}

		t.Setenv(env.TrackingURI, "https://localhost:5000")
		t.Setenv(env.RegistryURI, "https://localhost:5000")
		t.Setenv(env.TrackingServerCert, certpath)

		actual := try.To(env.Profile(env.New())).OrFatal(t)
		if actual.Cert.CA != base64.StdEncoding.EncodeToString(pem) {
			t.Error("unexpected CA")
		}
	})

	t.Run("when the tracking uri is not a URL, it returns ErrProfileInvalid", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(env.TrackingURI, "./mlruns")
		t.Setenv(env.RegistryURI, "./mlruns")

		if _, err := env.Profile(env.New()); !errors.Is(err, profiles.ErrProfileInvalid) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
