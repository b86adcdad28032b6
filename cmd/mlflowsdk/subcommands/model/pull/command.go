package pull

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/common"
	"github.com/aesdk/mlflowsdk/pkg/artifacts"
	"github.com/aesdk/mlflowsdk/pkg/mlmodel"
	"github.com/aesdk/mlflowsdk/pkg/tracking"
	kpath "github.com/aesdk/mlflowsdk/pkg/utils/path"
	"github.com/cheggaaa/pb/v3"
	"github.com/youta-t/flarc"
	"go.uber.org/zap"
)

type Flags struct {
	Concurrency int  `flag:"concurrency" alias:"c" help:"how many files are downloaded at once"`
	Quiet       bool `flag:"quiet" alias:"q" help:"do not show progress"`
}

const (
	ARG_MODEL_URI = "MODEL_URI"
	ARG_DEST      = "DEST"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Download a Model.",
		Flags{
			Concurrency: artifacts.DefaultConcurrency,
		},
		flarc.Args{
			{
				Name: ARG_MODEL_URI, Required: true,
				Help: "URI of the Model, like models:/iris/1, models:/iris@champion or runs:/<run id>/model",
			},
			{
				Name: ARG_DEST, Required: false,
				Help: "directory to download into. (default: derived from MODEL_URI)",
			},
		},
		common.NewTask[Flags](Task),
		flarc.WithDescription(`
Download artifacts of a Model into a directory, and print what is downloaded as JSON.

Example:

Pull version 1 of "iris" into "./iris-1":
	{{ .Command }} models:/iris/1

Pull the Production stage of "iris" into "/somewhere/iris":
	{{ .Command }} models:/iris/Production /somewhere/iris
`),
	)
}

// Summary is what the command prints.
type Summary struct {
	ModelURI    string           `json:"modelUri"`
	ArtifactURI string           `json:"artifactUri"`
	Dest        string           `json:"dest"`
	Files       []artifacts.File `json:"files"`
	Flavors     []string         `json:"flavors,omitempty"`
	RunId       string           `json:"runId,omitempty"`
}

const barTemplate pb.ProgressBarTemplate = `{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{bar . }} {{percent . }}`

func Task(
	ctx context.Context,
	logger *zap.Logger,
	client *tracking.Client,
	cl flarc.Commandline[Flags],
	_ []any,
) error {
	flags := cl.Flags()
	args := cl.Args()
	modelURI := args[ARG_MODEL_URI][0]

	dest := DefaultDest(modelURI)
	if d := args[ARG_DEST]; 0 < len(d) && d[0] != "" {
		dest = d[0]
	}
	dest, err := kpath.Resolve(dest)
	if err != nil {
		return err
	}

	artifactURI, err := client.ResolveModelURI(ctx, modelURI)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", modelURI, err)
	}
	logger.Debug("model is resolved", zap.String("model", modelURI), zap.String("artifact", artifactURI))

	options := []artifacts.Option{
		artifacts.WithConcurrency(flags.Concurrency),
		artifacts.WithLogger(logger),
	}
	var bar *pb.ProgressBar
	if !flags.Quiet {
		bar = newBar(cl.Stderr(), dest)
		options = append(options, artifacts.WithProgress(artifacts.Progress{
			Start: func(_ int, bytes int64) {
				bar.SetTotal(bytes)
				bar.Start()
			},
			Add: func(n int64) { bar.Add64(n) },
		}))
	}

	result, err := artifacts.New(client.Raw(), options...).Download(ctx, artifactURI, dest)
	if bar != nil && bar.IsStarted() {
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", artifactURI, err)
	}

	summary := Summary{
		ModelURI:    modelURI,
		ArtifactURI: artifactURI,
		Dest:        result.Dest,
		Files:       result.Files,
	}
	if m, err := mlmodel.Load(dest); err == nil {
		summary.Flavors = m.FlavorNames()
		slices.Sort(summary.Flavors)
		summary.RunId = m.RunId
	} else if errors.Is(err, os.ErrNotExist) {
		logger.Info("downloaded artifacts have no MLmodel", zap.String("dest", dest))
	} else {
		logger.Warn("MLmodel is broken", zap.Error(err))
	}

	return common.Dump(cl.Stdout(), summary)
}

func newBar(w io.Writer, dest string) *pb.ProgressBar {
	bar := barTemplate.New(0)
	bar.SetWriter(w)
	bar.Set(pb.Bytes, true)
	bar.Set("prefix", fmt.Sprintf("Downloading to %s:", ellipsis(dest, 60)))
	return bar
}

func ellipsis(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-(max-3):]
}

// DefaultDest derives a directory name from a model URI.
//
//	models:/iris/1          -> iris-1
//	models:/iris@champion   -> iris-champion
//	runs:/<run id>/model    -> <run id>-model
func DefaultDest(modelURI string) string {
	_, rest, ok := strings.Cut(modelURI, ":")
	if !ok {
		rest = modelURI
	}
	rest = strings.Trim(rest, "/")
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '@', '\\', ':':
			return '-'
		}
		return r
	}, rest)
	if name == "" || name == "." || name == ".." {
		return "model"
	}
	return name
}
