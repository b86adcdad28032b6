package io

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// DigestWriter proxies writes to its destination, calculating SHA-256 and size of them.
type DigestWriter struct {
	dest    io.Writer
	sha     hash.Hash
	written int64
	onWrite func(n int)
}

// NewDigestWriter wraps dest.
//
// onWrite, if not nil, is called with the number of bytes for each successful write.
func NewDigestWriter(dest io.Writer, onWrite func(n int)) *DigestWriter {
	return &DigestWriter{dest: dest, sha: sha256.New(), onWrite: onWrite}
}

func (dw *DigestWriter) Write(p []byte) (int, error) {
	n, err := dw.dest.Write(p)
	if 0 < n {
		dw.sha.Write(p[:n])
		dw.written += int64(n)
		if dw.onWrite != nil {
			dw.onWrite(n)
		}
	}
	return n, err
}

// Sum returns SHA-256 of bytes written so far.
func (dw *DigestWriter) Sum() []byte {
	return dw.sha.Sum(nil)
}

// HexSum is Sum in hex encoding.
func (dw *DigestWriter) HexSum() string {
	return hex.EncodeToString(dw.Sum())
}

// Written returns the number of bytes written so far.
func (dw *DigestWriter) Written() int64 {
	return dw.written
}
