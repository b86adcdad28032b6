package open_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/aesdk/mlflowsdk/pkg/configs/profiles/open"
	"github.com/aesdk/mlflowsdk/pkg/utils/try"
)

func TestNewSafeFile(t *testing.T) {
	t.Run("it creates a file only the user can access", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "secret")
		f := try.To(open.NewSafeFile(p)).OrFatal(t)
		defer f.Close()

		stat := try.To(os.Stat(p)).OrFatal(t)
		if runtime.GOOS != "windows" && stat.Mode().Perm() != 0o600 {
			t.Errorf("unexpected permission: %s", stat.Mode())
		}
	})

	t.Run("it truncates and tightens an existing file", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "secret")
		if err := os.WriteFile(p, []byte("old content"), 0o644); err != nil {
			t.Fatal(err)
		}

		f := try.To(open.NewSafeFile(p)).OrFatal(t)
		if _, err := f.Write([]byte("new")); err != nil {
			t.Fatal(err)
		}
		f.Close()

		if got := try.To(os.ReadFile(p)).OrFatal(t); string(got) != "new" {
			t.Errorf("unexpected content: %s", got)
		}
		stat := try.To(os.Stat(p)).OrFatal(t)
		if runtime.GOOS != "windows" && stat.Mode().Perm() != 0o600 {
			t.Errorf("unexpected permission: %s", stat.Mode())
		}
	})
}
