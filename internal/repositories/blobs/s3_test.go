package blobs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yijia-Z/dalle2-app/internal/models"
)

type s3Object struct {
	contentType string
	data        []byte
}

// fakeS3 is an in-memory bucket keyed by "bucket/key".
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]s3Object
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]s3Object{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = s3Object{contentType: aws.ToString(in.ContentType), data: data}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: aws.String(obj.contentType),
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_Contract(t *testing.T) {
	runStoreContract(t, NewS3Store(newFakeS3(), "images", ""))
}

func TestS3Store_UsesPrefix(t *testing.T) {
	fake := newFakeS3()
	s := NewS3Store(fake, "images", "history")

	require.NoError(t, s.Put(context.Background(), "r_0", models.Image{ContentType: "image/png", Data: pngBytes}))

	_, ok := fake.objects["images/history/r_0"]
	assert.True(t, ok)
}

func TestS3Store_PutError(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("access denied")
	s := NewS3Store(fake, "images", "")

	err := s.Put(context.Background(), "r_0", models.Image{Data: pngBytes})
	assert.ErrorContains(t, err, "failed to put blob[r_0]: access denied")
}

func TestNewS3Client_StaticCredentials(t *testing.T) {
	c, err := NewS3Client(context.Background(), S3Options{
		Region:       "us-east-1",
		AccessKey:    "admin",
		SecretKey:    "secretpassword",
		BaseEndpoint: "http://127.0.0.1:9000",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestNewS3Client_ConfigError(t *testing.T) {
	orig := loadAWSConfig
	t.Cleanup(func() { loadAWSConfig = orig })
	loadAWSConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no region")
	}

	_, err := NewS3Client(context.Background(), S3Options{})
	assert.ErrorContains(t, err, "aws config error: no region")
}
