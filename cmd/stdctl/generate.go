package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hairizuan-noorazman/std-generator/caption"
	"github.com/hairizuan-noorazman/std-generator/export"
	"github.com/hairizuan-noorazman/std-generator/internal/provider"
	"github.com/hairizuan-noorazman/std-generator/logger"
	"github.com/hairizuan-noorazman/std-generator/session"
	"github.com/hairizuan-noorazman/std-generator/stdgen"
	"github.com/hairizuan-noorazman/std-generator/testcase"
	"github.com/spf13/cobra"
)

// errAborted is returned when the review is left without writing.
var errAborted = errors.New("review aborted, nothing written")

// generateOptions are the inputs of one generate run.
type generateOptions struct {
	Feature  string
	Spec     string
	SpecFile string
	Images   []string
	Model    string
	Out      string
	Review   bool
}

// reviewFunc lets the user adjust the selection of a session. It returns
// false when the user aborts.
type reviewFunc func(sessions *session.Manager, sessionID uuid.UUID) (bool, error)

// generateRunner executes generate with injectable collaborators.
type generateRunner struct {
	pipeline  *stdgen.Pipeline
	factory   stdgen.GeneratorFactory
	apiKey    string
	captioner caption.Captioner
	sessions  *session.Manager
	review    reviewFunc
	stdout    io.Writer
	stderr    io.Writer
	spinner   func(out io.Writer, description string) func()
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate test cases and write a Testmo import CSV",
		Example: `  stdctl generate --feature Login --spec-file login.txt --image login.png
  stdctl generate --feature Checkout --spec "Users pay by card" --review`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			runner, err := newGenerateRunner(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if opts.Out == "" {
				opts.Out = cfg.GetString("out")
			}
			if opts.Model == "" {
				opts.Model = cfg.GetString("model")
			}

			err = runner.run(ctx, opts)
			if errors.Is(err, errAborted) {
				printWarning(cmd.ErrOrStderr(), err.Error())
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.Feature, "feature", "f", "", "Feature name, also used as the Testmo folder")
	cmd.Flags().StringVarP(&opts.Spec, "spec", "s", "", "Specification text")
	cmd.Flags().StringVar(&opts.SpecFile, "spec-file", "", "Read the specification from a .txt file")
	cmd.Flags().StringArrayVarP(&opts.Images, "image", "i", nil, "Spec image (png, jpg, jpeg), repeatable")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Output CSV path (default from config: testmo_import.csv)")
	cmd.Flags().BoolVarP(&opts.Review, "review", "r", false, "Review and select test cases before writing")
	cmd.MarkFlagsMutuallyExclusive("spec", "spec-file")
	_ = cmd.MarkFlagRequired("feature")

	return cmd
}

func newGenerateRunner(ctx context.Context, stdout, stderr io.Writer) (*generateRunner, error) {
	log := logger.NewLogrusLoggerWithOptions(logger.Options{
		Level:  cfg.GetString("log_level"),
		Format: "text",
		Output: stderr,
	})

	catalog, err := getModelCatalog()
	if err != nil {
		return nil, err
	}

	settings := getProviderSettings()
	factory, err := provider.NewGeneratorFactory(ctx, settings)
	if err != nil {
		return nil, err
	}

	apiKey := getConfigAPIKey()
	captioner, vision := provider.NewCaptioner(settings, apiKey)
	if !vision {
		log.Debug(ctx, "image captioning disabled, file names are used", nil)
	}

	return &generateRunner{
		pipeline:  stdgen.NewPipeline(catalog, log),
		factory:   factory,
		apiKey:    apiKey,
		captioner: captioner,
		sessions:  session.NewManager(time.Hour, log),
		review:    runReview,
		stdout:    stdout,
		stderr:    stderr,
		spinner:   startSpinner,
	}, nil
}

func (g *generateRunner) run(ctx context.Context, opts generateOptions) error {
	spec, err := resolveSpec(opts)
	if err != nil {
		return err
	}

	captions, err := g.captionImages(ctx, opts.Images)
	if err != nil {
		return err
	}

	req := stdgen.GenerationRequest{
		FeatureName: strings.TrimSpace(opts.Feature),
		SpecText:    spec,
		Captions:    captions,
		Model:       opts.Model,
	}
	if err := req.Validate(g.pipeline.Catalog()); err != nil {
		return err
	}

	gen, err := g.factory(g.apiKey)
	if err != nil {
		if errors.Is(err, stdgen.ErrCredentialMissing) {
			return fmt.Errorf("%w: set OPENAI_API_KEY or pass --api-key", err)
		}
		return err
	}

	stop := g.spinner(g.stderr, fmt.Sprintf("Generating test cases with %s", req.Model))
	result, err := g.pipeline.Run(ctx, gen, req)
	stop()
	if err != nil {
		var parseErr *stdgen.ParseError
		if errors.As(err, &parseErr) {
			printError(g.stderr, "the model reply could not be parsed; raw reply follows")
			fmt.Fprintln(g.stderr, parseErr.Raw)
		}
		return err
	}

	sess, err := g.sessions.Create()
	if err != nil {
		return err
	}
	defer g.sessions.Delete(sess.ID)

	if _, err := g.sessions.ReplaceTestCases(sess.ID, req.FeatureName, result.Model, result.TestCases); err != nil {
		return err
	}

	printSuccess(g.stdout, fmt.Sprintf("Generated %d test cases in %s", len(result.TestCases), result.Duration.Round(time.Millisecond)))

	if opts.Review {
		ok, err := g.review(g.sessions, sess.ID)
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	} else {
		printCases(g.stdout, result.TestCases)
	}

	folder, cases, err := g.sessions.ExportSet(sess.ID)
	if err != nil {
		return err
	}

	if err := writeExport(opts.Out, cases, folder); err != nil {
		return err
	}

	printSuccess(g.stdout, fmt.Sprintf("Wrote %d test cases to %s", len(cases), opts.Out))
	return nil
}

// resolveSpec returns the specification text from the flag or file.
func resolveSpec(opts generateOptions) (string, error) {
	if opts.SpecFile == "" {
		return opts.Spec, nil
	}

	if strings.ToLower(filepath.Ext(opts.SpecFile)) != ".txt" {
		return "", fmt.Errorf("%w: spec file must be a .txt file", stdgen.ErrInputMissing)
	}

	data, err := os.ReadFile(opts.SpecFile)
	if err != nil {
		return "", fmt.Errorf("failed to read spec file: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("spec file %s is not UTF-8 text", opts.SpecFile)
	}
	return string(data), nil
}

// captionImages captions each image in order as "name: caption".
func (g *generateRunner) captionImages(ctx context.Context, paths []string) ([]string, error) {
	captions := make([]string, 0, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		mimeType, err := caption.MimeTypeFor(name)
		if err != nil {
			return nil, err
		}

		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		text, err := g.captioner.Caption(ctx, name, f, mimeType)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to caption %s: %w", name, err)
		}

		captions = append(captions, caption.Format(name, text))
	}
	return captions, nil
}

func writeExport(path string, cases []testcase.TestCase, folder string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := export.WriteCSV(f, cases, folder); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printCases(out io.Writer, cases []testcase.TestCase) {
	rows := make([][]string, 0, len(cases))
	for i, tc := range cases {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			tc.Title,
			tc.Severity,
			strconv.Itoa(len(tc.Steps)),
		})
	}
	printTable(out, []string{"#", "TITLE", "SEVERITY", "STEPS"}, rows)
}
