package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hairizuan-noorazman/std-generator/caption"
	"github.com/hairizuan-noorazman/std-generator/logger"
	"github.com/hairizuan-noorazman/std-generator/session"
	"github.com/hairizuan-noorazman/std-generator/stdgen"
	"github.com/hairizuan-noorazman/std-generator/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRunner struct {
	*generateRunner
	gen    *testutil.FakeGenerator
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestRunner(t *testing.T, apiKey string) *testRunner {
	t.Helper()

	log := logger.NewTestLogger()
	catalog, err := stdgen.NewModelCatalog(nil, "")
	require.NoError(t, err)

	gen := testutil.NewFakeGenerator()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	return &testRunner{
		generateRunner: &generateRunner{
			pipeline: stdgen.NewPipeline(catalog, log),
			factory: func(key string) (stdgen.Generator, error) {
				if key == "" {
					return nil, stdgen.ErrCredentialMissing
				}
				return gen, nil
			},
			apiKey:    apiKey,
			captioner: caption.FilenameCaptioner{},
			sessions:  session.NewManager(time.Hour, log),
			review: func(*session.Manager, uuid.UUID) (bool, error) {
				return true, nil
			},
			stdout:  stdout,
			stderr:  stderr,
			spinner: func(io.Writer, string) func() { return func() {} },
		},
		gen:    gen,
		stdout: stdout,
		stderr: stderr,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenerate_WritesAllCases(t *testing.T) {
	r := newTestRunner(t, "sk-test")
	r.gen.Queue(testutil.SampleReply)
	out := filepath.Join(t.TempDir(), "testmo_import.csv")

	err := r.run(context.Background(), generateOptions{
		Feature: "Login",
		Spec:    "Users log in with email.",
		Out:     out,
	})
	require.NoError(t, err)

	assert.Equal(t, testutil.SampleCSV, readFile(t, out))
	assert.Contains(t, r.stdout.String(), "Generated 2 test cases")
	assert.Contains(t, r.stdout.String(), "Wrote 2 test cases")

	requests := r.gen.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "gpt-4o-mini", requests[0].Model)
	assert.Equal(t, stdgen.SystemInstruction, requests[0].System)
}

func TestGenerate_ReviewSelection(t *testing.T) {
	r := newTestRunner(t, "sk-test")
	r.gen.Queue(testutil.SampleReply)
	r.review = func(sessions *session.Manager, id uuid.UUID) (bool, error) {
		// Select all, then drop the first record.
		if _, err := sessions.SelectAll(id, true); err != nil {
			return false, err
		}
		_, err := sessions.SetSelected(id, 0, false)
		return true, err
	}
	out := filepath.Join(t.TempDir(), "out.csv")

	err := r.run(context.Background(), generateOptions{Feature: "Login", Spec: "spec", Out: out, Review: true})
	require.NoError(t, err)

	assert.Equal(t, "Title,Steps,Expected,Folder,Tags\nB,,,Login,\n", readFile(t, out))
}

func TestGenerate_ReviewAborted(t *testing.T) {
	r := newTestRunner(t, "sk-test")
	r.gen.Queue(testutil.SampleReply)
	r.review = func(*session.Manager, uuid.UUID) (bool, error) { return false, nil }
	out := filepath.Join(t.TempDir(), "out.csv")

	err := r.run(context.Background(), generateOptions{Feature: "Login", Spec: "spec", Out: out, Review: true})
	assert.ErrorIs(t, err, errAborted)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		reply   string
		genErr  error
		opts    generateOptions
		wantErr error
		wantRaw bool
	}{
		{
			name:    "missing feature",
			apiKey:  "sk-test",
			opts:    generateOptions{Spec: "spec"},
			wantErr: stdgen.ErrInputMissing,
		},
		{
			name:    "missing spec",
			apiKey:  "sk-test",
			opts:    generateOptions{Feature: "Login"},
			wantErr: stdgen.ErrInputMissing,
		},
		{
			name:    "unknown model",
			apiKey:  "sk-test",
			opts:    generateOptions{Feature: "Login", Spec: "spec", Model: "gpt-99"},
			wantErr: stdgen.ErrUnknownModel,
		},
		{
			name:    "missing key",
			opts:    generateOptions{Feature: "Login", Spec: "spec"},
			wantErr: stdgen.ErrCredentialMissing,
		},
		{
			name:    "transport failure",
			apiKey:  "sk-test",
			genErr:  errors.New("timeout"),
			opts:    generateOptions{Feature: "Login", Spec: "spec"},
			wantErr: stdgen.ErrTransport,
		},
		{
			name:    "unparseable reply",
			apiKey:  "sk-test",
			reply:   "I could not produce JSON.",
			opts:    generateOptions{Feature: "Login", Spec: "spec"},
			wantErr: stdgen.ErrParse,
			wantRaw: true,
		},
		{
			name:    "unsupported image",
			apiKey:  "sk-test",
			opts:    generateOptions{Feature: "Login", Spec: "spec", Images: []string{"diagram.gif"}},
			wantErr: caption.ErrUnsupportedImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner(t, tt.apiKey)
			if tt.reply != "" {
				r.gen.Queue(tt.reply)
			}
			if tt.genErr != nil {
				r.gen.FailWith(tt.genErr)
			}
			tt.opts.Out = filepath.Join(t.TempDir(), "out.csv")

			err := r.run(context.Background(), tt.opts)
			assert.ErrorIs(t, err, tt.wantErr)

			if tt.wantRaw {
				assert.Contains(t, r.stderr.String(), tt.reply)
			}

			_, statErr := os.Stat(tt.opts.Out)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestGenerate_ImagesBecomeCaptions(t *testing.T) {
	r := newTestRunner(t, "sk-test")
	r.gen.Queue(testutil.SampleReply)

	dir := t.TempDir()
	img := filepath.Join(dir, "login.png")
	require.NoError(t, os.WriteFile(img, testutil.PNGBytes, 0o600))

	err := r.run(context.Background(), generateOptions{
		Feature: "Login",
		Spec:    "spec",
		Images:  []string{img},
		Out:     filepath.Join(dir, "out.csv"),
	})
	require.NoError(t, err)

	assert.Contains(t, r.gen.LastPrompt(), "Image Descriptions:\n- login.png\n")
}

func TestResolveSpec(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "spec.txt")
	require.NoError(t, os.WriteFile(specPath, []byte("from file"), 0o600))
	binPath := filepath.Join(dir, "bin.txt")
	require.NoError(t, os.WriteFile(binPath, []byte{0xff, 0xfe}, 0o600))

	got, err := resolveSpec(generateOptions{Spec: "inline"})
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	got, err = resolveSpec(generateOptions{SpecFile: specPath})
	require.NoError(t, err)
	assert.Equal(t, "from file", got)

	_, err = resolveSpec(generateOptions{SpecFile: filepath.Join(dir, "spec.pdf")})
	assert.Error(t, err)

	_, err = resolveSpec(generateOptions{SpecFile: filepath.Join(dir, "missing.txt")})
	assert.Error(t, err)

	_, err = resolveSpec(generateOptions{SpecFile: binPath})
	assert.Error(t, err)
}
