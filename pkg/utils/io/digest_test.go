package io_test

import (
	"bytes"
	"errors"
	"testing"

	kio "github.com/aesdk/mlflowsdk/pkg/utils/io"
)

func TestDigestWriter(t *testing.T) {
	// digests in expected are generated with `sha256sum` command.

	t.Run("when it is given nothing, it returns digest of empty", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		testee := kio.NewDigestWriter(buf, nil)

		if buf.Len() != 0 || testee.Written() != 0 {
			t.Errorf("unexpected content: %q", buf.String())
		}
		if h := testee.HexSum(); h != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
			t.Errorf("unexpected digest: %s", h)
		}
	})

	t.Run("it passes bytes through, calculating digest and size", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		reported := 0
		testee := kio.NewDigestWriter(buf, func(n int) { reported += n })

		for _, chunk := range []string{"test text ", "to be hashed"} {
			n, err := testee.Write([]byte(chunk))
			if err != nil {
				t.Fatal(err)
			}
			if n != len(chunk) {
				t.Errorf("length mismatch: %d != %d", n, len(chunk))
			}
		}

		if buf.String() != "test text to be hashed" {
			t.Errorf("unexpected content: %q", buf.String())
		}
		if testee.Written() != 22 || reported != 22 {
			t.Errorf("unexpected size: written = %d, reported = %d", testee.Written(), reported)
		}
		if h := testee.HexSum(); h != "5d249d950c789e8879076ddc4a8890a2998ab1b9e90598e879156d264268db0b" {
			t.Errorf("unexpected digest: %s", h)
		}
	})

	t.Run("when destination fails, it returns the error", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		testee := kio.NewDigestWriter(failingWriter{err: expectedErr}, func(int) {
			t.Error("onWrite is called for failed write")
		})

		if _, err := testee.Write([]byte("abc")); !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}
		if testee.Written() != 0 {
			t.Errorf("unexpected size: %d", testee.Written())
		}
	})
}

type failingWriter struct {
	err error
}

func (f failingWriter) Write([]byte) (int, error) {
	return 0, f.err
}
