package profiles

import (
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/aesdk/mlflowsdk/pkg/configs/profiles/open"
	"github.com/hectane/go-acl"
	yaml "gopkg.in/yaml.v3"
)

var ErrProfileStoreNotFound = errors.New("profile store is not found")
var ErrCannotCreateConfig = errors.New("cannot create profile store")
var ErrCannotUpdateConfig = errors.New("cannot update profile store")
var ErrProfileInvalid = errors.New("mlflow profile is invalid")

// ProfileStore is a map from profile name to Profile.
type ProfileStore map[string]*Profile

type Cert struct {
	// base64 encoded CA certificate
	CA string `yaml:"ca,omitempty"`

	// skip verification of server certificate.
	Insecure bool `yaml:"insecure,omitempty"`
}

// Auth is credential for a tracking server.
//
// When Token is set, it is sent as a bearer token.
// Otherwise, when Username is set, basic authentication is used.
type Auth struct {
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Token    string `yaml:"token,omitempty"`
}

// Profile describes how to connect MLflow tracking server and model registry.
type Profile struct {
	// endpoint of MLflow tracking server
	TrackingUri string `yaml:"trackingUri"`

	// endpoint of MLflow model registry.
	//
	// If empty, TrackingUri is used.
	RegistryUri string `yaml:"registryUri,omitempty"`

	Cert Cert `yaml:"cert,omitempty"`

	Auth Auth `yaml:"auth,omitempty"`

	// how many times a request is retried on transient failure.
	MaxRetries int `yaml:"maxRetries,omitempty"`
}

// Registry returns the effective registry URI.
func (p *Profile) Registry() string {
	if p.RegistryUri == "" {
		return p.TrackingUri
	}
	return p.RegistryUri
}

func verifyUrl(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs() && (u.Scheme == "http" || u.Scheme == "https")
}

func verifyPEM(b64cert string) bool {
	bin, err := base64.StdEncoding.DecodeString(b64cert)
	if err != nil {
		return false
	}
	blk, _ := pem.Decode(bin)
	return blk != nil
}

// Verify Profile
//
// # Return
//
// nil if it is valid. Otherwise, ErrProfileInvalid error.
func (p *Profile) Verify() error {
	if !verifyUrl(p.TrackingUri) {
		return fmt.Errorf("%w: trackingUri is not http(s) URL: %s", ErrProfileInvalid, p.TrackingUri)
	}
	if p.RegistryUri != "" && !verifyUrl(p.RegistryUri) {
		return fmt.Errorf("%w: registryUri is not http(s) URL: %s", ErrProfileInvalid, p.RegistryUri)
	}
	if p.Cert.CA != "" && !verifyPEM(p.Cert.CA) {
		return fmt.Errorf("%w: cert.ca is not PEM", ErrProfileInvalid)
	}
	if p.Auth.Password != "" && p.Auth.Username == "" {
		return fmt.Errorf("%w: auth.password is set without auth.username", ErrProfileInvalid)
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("%w: maxRetries is negative: %d", ErrProfileInvalid, p.MaxRetries)
	}

	return nil
}

// LoadProfileStore loads profile store from file.
func LoadProfileStore(filepath string) (ProfileStore, error) {
	buf, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrProfileStoreNotFound, filepath)
		}
		return nil, err
	}
	return Unmarshall(buf)
}

// Unmarshall profile store from yaml in byte array.
func Unmarshall(buf []byte) (ProfileStore, error) {
	ret := map[string]*Profile{}
	err := yaml.Unmarshal(buf, &ret)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Save profile store to file.
//
// The previous content is kept as "<path>.backup" while writing,
// and the backup is removed once writing completes.
func (ps *ProfileStore) Save(path string) error {
	saving := false

	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(0700)); err != nil {
		return err
	}

	bkpath := path + ".backup"
	bk, err := open.NewSafeFile(bkpath)
	if err != nil {
		return err
	}
	defer func() {
		if !saving {
			os.Remove(bkpath)
		}
	}()
	defer bk.Close()

	f, err := os.OpenFile(path, os.O_RDWR, os.FileMode(0600))
	if err == nil {
		// In case of the existing file with loose permissions,
		// enforce permission to 0600.
		if err := acl.Chmod(path, os.FileMode(0600)); err != nil {
			f.Close()
			return err
		}
	} else {
		if os.IsPermission(err) {
			return fmt.Errorf(
				"%w, because no permission to write file at %s",
				ErrCannotUpdateConfig, path,
			)
		} else if os.IsNotExist(err) {
			f_, err_ := open.NewSafeFile(path)
			if err_ != nil {
				return fmt.Errorf(
					"%w: cannot create a file at %s",
					ErrCannotCreateConfig, path,
				)
			}
			f = f_
		} else {
			return err
		}
	}
	defer f.Close()

	if err := bk.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	if _, err := io.Copy(bk, f); err != nil {
		return err
	}

	saving = true
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		return err
	}
	buf, err := yaml.Marshal(ps)
	if err != nil {
		return err
	}
	_, err = f.Write(buf)

	if err == nil {
		saving = false
	}
	return err
}
