package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func notFound() error {
	return &smithy.GenericAPIError{Code: "NoSuchKey", Message: "missing"}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*params.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*params.Key]
	if !ok {
		return nil, notFound()
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[*params.Key]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestNewS3Storage_Validation(t *testing.T) {
	_, err := NewS3Storage(context.Background(), "", "us-east-1")
	assert.Error(t, err)

	_, err = NewS3Storage(context.Background(), "bucket", "")
	assert.Error(t, err)
}

func TestS3Storage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	storage := &S3Storage{client: fake, bucket: "bucket"}

	require.NoError(t, storage.Upload(ctx, "sessions/x/images/000-a.png", strings.NewReader("img")))
	assert.Contains(t, fake.objects, "sessions/x/images/000-a.png")

	exists, err := storage.Exists(ctx, "sessions/x/images/000-a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := storage.Download(ctx, "sessions/x/images/000-a.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	require.NoError(t, storage.Delete(ctx, "sessions/x/images/000-a.png"))

	exists, err = storage.Exists(ctx, "sessions/x/images/000-a.png")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = storage.Download(ctx, "sessions/x/images/000-a.png")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{path: "sessions/a/images/000-x.png"},
		{path: "file.txt"},
		{path: "", wantErr: true},
		{path: ".", wantErr: true},
		{path: "../x", wantErr: true},
		{path: "a/../../x", wantErr: true},
		{path: "/abs/path", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := validatePath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPath)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsS3NotFoundError(t *testing.T) {
	assert.True(t, isS3NotFoundError(notFound()))
	assert.True(t, isS3NotFoundError(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.False(t, isS3NotFoundError(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isS3NotFoundError(errors.New("boom")))
}

func TestNewBlobStorage(t *testing.T) {
	ctx := context.Background()

	s, err := NewBlobStorage(ctx, Config{Type: "local", BaseDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = NewBlobStorage(ctx, Config{Type: "local"})
	assert.Error(t, err)

	_, err = NewBlobStorage(ctx, Config{Type: "s3", S3Region: "us-east-1"})
	assert.Error(t, err)

	_, err = NewBlobStorage(ctx, Config{Type: "gcs"})
	assert.ErrorContains(t, err, "unsupported storage type")
}

func TestImagePath(t *testing.T) {
	id := uuid.MustParse("6f1c2f7e-3c1a-4d7e-9f3a-0a1b2c3d4e5f")

	tests := []struct {
		name string
		file string
		want string
	}{
		{name: "plain", file: "login.png", want: "sessions/6f1c2f7e-3c1a-4d7e-9f3a-0a1b2c3d4e5f/images/002-login.png"},
		{name: "strips directories", file: "../../etc/passwd", want: "sessions/6f1c2f7e-3c1a-4d7e-9f3a-0a1b2c3d4e5f/images/002-passwd"},
		{name: "windows path", file: `C:\shots\home page.jpg`, want: "sessions/6f1c2f7e-3c1a-4d7e-9f3a-0a1b2c3d4e5f/images/002-home_page.jpg"},
		{name: "hidden", file: ".env", want: "sessions/6f1c2f7e-3c1a-4d7e-9f3a-0a1b2c3d4e5f/images/002-env"},
		{name: "empty", file: "", want: "sessions/6f1c2f7e-3c1a-4d7e-9f3a-0a1b2c3d4e5f/images/002-upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ImagePath(id, 2, tt.file)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, validatePath(got))
		})
	}
}
