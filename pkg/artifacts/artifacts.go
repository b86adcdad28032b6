// Package artifacts downloads artifacts from MLflow artifact stores into local directories.
//
// Supported artifact URIs are
//
//   - mlflow-artifacts:/path (or mlflow-artifacts://host/path): artifacts served by the
//     artifact proxy of the tracking server. The host part is ignored and the proxy is
//     always reached through the tracking server.
//   - file:///path, or bare local paths.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aesdk/mlflowsdk/pkg/rest"
	kio "github.com/aesdk/mlflowsdk/pkg/utils/io"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	SchemeProxy = "mlflow-artifacts"
	SchemeFile  = "file"

	DefaultConcurrency = 4
)

var (
	ErrUnsupportedScheme = errors.New("unsupported artifact uri")
	ErrUnsafePath        = errors.New("artifact path escapes destination")
)

// Progress observes downloads. Either field can be nil.
type Progress struct {
	// Start is called once before downloading, with the number of files and their total size.
	Start func(files int, bytes int64)

	// Add is called with the number of bytes written. It can be called concurrently.
	Add func(n int64)
}

// File is a downloaded file.
type File struct {
	// Path is slash separated, relative to the destination.
	Path   string
	Size   int64
	SHA256 string
}

type Result struct {
	// Dest is the destination directory.
	Dest  string
	Files []File
}

type Downloader struct {
	client      rest.Client
	concurrency int
	progress    Progress
	logger      *zap.Logger
}

type Option func(*Downloader) *Downloader

// WithConcurrency sets the max number of files downloaded at once.
func WithConcurrency(n int) Option {
	return func(d *Downloader) *Downloader {
		if 0 < n {
			d.concurrency = n
		}
		return d
	}
}

func WithProgress(p Progress) Option {
	return func(d *Downloader) *Downloader {
		d.progress = p
		return d
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *Downloader) *Downloader {
		d.logger = logger
		return d
	}
}

func New(client rest.Client, options ...Option) *Downloader {
	d := &Downloader{
		client:      client,
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, o := range options {
		d = o(d)
	}
	return d
}

// file to be downloaded.
type entry struct {
	// slash separated path relative to the destination.
	rel  string
	size int64

	// opens the content.
	fetch func(ctx context.Context, w io.Writer) error
}

// Download downloads artifacts at artifactURI into dest.
//
// When artifactURI points a directory, its content is placed directly under dest.
// When it points a file, the file is placed in dest with the same name.
//
// # Returns
//
// - Result: downloaded files.
//
// - error: ErrUnsupportedScheme if the URI cannot be handled, ErrUnsafePath if a listed
// path escapes dest, or an error from the store.
func (d *Downloader) Download(ctx context.Context, artifactURI string, dest string) (Result, error) {
	entries, err := d.plan(ctx, artifactURI)
	if err != nil {
		return Result{}, err
	}

	for _, e := range entries {
		if !filepath.IsLocal(filepath.FromSlash(e.rel)) {
			return Result{}, fmt.Errorf("%w: %s", ErrUnsafePath, e.rel)
		}
	}

	if d.progress.Start != nil {
		var total int64
		for _, e := range entries {
			total += e.size
		}
		d.progress.Start(len(entries), total)
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return Result{}, err
	}

	files := make([]File, len(entries))
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(d.concurrency)
	for i, e := range entries {
		eg.Go(func() error {
			f, err := d.save(ectx, e, dest)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		for _, f := range files {
			if f.Path != "" {
				os.Remove(filepath.Join(dest, filepath.FromSlash(f.Path)))
			}
		}
		return Result{}, err
	}

	return Result{Dest: dest, Files: files}, nil
}

func (d *Downloader) save(ctx context.Context, e entry, dest string) (_ File, err error) {
	p := filepath.Join(dest, filepath.FromSlash(e.rel))
	f, err := kio.CreateAll(p, 0o644, 0o755)
	if err != nil {
		return File{}, err
	}
	defer func() {
		f.Close()
		if err != nil {
			os.Remove(p)
		}
	}()

	var onWrite func(int)
	if add := d.progress.Add; add != nil {
		onWrite = func(n int) { add(int64(n)) }
	}
	dw := kio.NewDigestWriter(f, onWrite)

	d.logger.Debug("downloading artifact", zap.String("path", e.rel))
	if err := e.fetch(ctx, dw); err != nil {
		return File{}, fmt.Errorf("%s: %w", e.rel, err)
	}
	if err := f.Close(); err != nil {
		return File{}, err
	}

	return File{Path: e.rel, Size: dw.Written(), SHA256: dw.HexSum()}, nil
}

// plan lists files to be downloaded.
func (d *Downloader) plan(ctx context.Context, artifactURI string) ([]entry, error) {
	u, err := url.Parse(artifactURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedScheme, artifactURI, err)
	}

	switch {
	case u.Scheme == SchemeProxy:
		p := u.Path
		if p == "" {
			p = u.Opaque
		}
		return d.planProxied(ctx, strings.Trim(p, "/"))
	case u.Scheme == SchemeFile:
		return planLocal(filepath.FromSlash(u.Path))
	case u.Scheme == "" || len(u.Scheme) == 1:
		// a bare path, or a path with a drive letter.
		return planLocal(artifactURI)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, artifactURI)
	}
}

func (d *Downloader) planProxied(ctx context.Context, root string) ([]entry, error) {
	fetcher := func(p string) func(context.Context, io.Writer) error {
		return func(ctx context.Context, w io.Writer) error {
			return d.client.DownloadProxiedArtifact(ctx, p, func(r io.Reader) error {
				_, err := io.Copy(w, r)
				return err
			})
		}
	}

	entries := []entry{}
	var walk func(rel string) error
	walk = func(rel string) error {
		listed, err := d.client.ListProxiedArtifacts(ctx, path.Join(root, rel))
		if err != nil {
			return err
		}
		for _, fi := range listed {
			// listed paths are names in the directory.
			if !isBaseName(fi.Path) {
				return fmt.Errorf("%w: %s", ErrUnsafePath, fi.Path)
			}
			child := path.Join(rel, fi.Path)
			if fi.IsDir {
				if err := walk(child); err != nil {
					return err
				}
				continue
			}
			entries = append(entries, entry{
				rel: child, size: fi.FileSize, fetch: fetcher(path.Join(root, child)),
			})
		}
		return nil
	}
	if err := walk(""); err != nil {
		return nil, err
	}

	if len(entries) == 0 && root != "" {
		// nothing listed: the uri is a file (or an empty directory, which fails to download).
		d.logger.Debug("no artifacts listed, downloading as a file", zap.String("path", root))
		return []entry{{rel: path.Base(root), fetch: fetcher(root)}}, nil
	}
	return entries, nil
}

// isBaseName reports whether name is a single path element.
func isBaseName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func planLocal(root string) ([]entry, error) {
	fetcher := func(p string) func(context.Context, io.Writer) error {
		return func(ctx context.Context, w io.Writer) error {
			f, err := os.Open(p)
			if err != nil {
				return err
			}
			defer f.Close()
			_, err = io.Copy(w, &ctxReader{ctx: ctx, r: f})
			return err
		}
	}

	stat, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !stat.IsDir() {
		return []entry{{rel: filepath.Base(root), size: stat.Size(), fetch: fetcher(root)}}, nil
	}

	entries := []entry{}
	err = filepath.WalkDir(root, func(p string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !de.Type().IsRegular() {
			return nil
		}
		info, err := de.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		entries = append(entries, entry{
			rel: filepath.ToSlash(rel), size: info.Size(), fetch: fetcher(p),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ctxReader stops reading when the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
