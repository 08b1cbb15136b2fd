package blob

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestUpload_URLPublica(t *testing.T) {
	p := &fakePutter{}
	s := NewS3StoreWithClient(p, Options{Bucket: "imgs", PublicBaseURL: "https://cdn.example.com/"})
	s.newKey = func(folder, fileName string) string { return folder + "/fixed-" + fileName }

	url, err := s.Upload(context.Background(), "original", "a.png", "image/png", []byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/original/fixed-a.png", url)
	assert.Equal(t, "imgs", aws.ToString(p.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(p.input.ContentType))
	assert.Equal(t, []byte{1, 2}, p.body)
}

func TestUpload_URLEscapaNombre(t *testing.T) {
	p := &fakePutter{}
	s := NewS3StoreWithClient(p, Options{Bucket: "imgs", PublicBaseURL: "https://cdn.example.com"})
	s.newKey = func(folder, fileName string) string { return folder + "/k-" + fileName }

	url, err := s.Upload(context.Background(), "original", "año#1?50%.png", "image/png", []byte{1})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/original/k-a%C3%B1o%231%3F50%25.png", url)
	assert.Equal(t, "original/k-año#1?50%.png", aws.ToString(p.input.Key), "la clave del objeto no se escapa")
}

func TestUpload_Error(t *testing.T) {
	s := NewS3StoreWithClient(&fakePutter{err: errors.New("sin red")}, Options{Bucket: "imgs"})
	_, err := s.Upload(context.Background(), "edited", "a.png", "image/png", []byte{1})
	assert.Error(t, err)
}

func TestObjectKey_SanitizaNombre(t *testing.T) {
	k := objectKey("original", `..\..\mi foto.png`)
	assert.Regexp(t, `^original/[0-9a-f-]{36}-mi_foto\.png$`, k)
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "http://minio:9000/imgs", publicBase(Options{Bucket: "imgs", Endpoint: "http://minio:9000/"}))
	assert.Equal(t, "https://imgs.s3.us-east-1.amazonaws.com", publicBase(Options{Bucket: "imgs", Region: "us-east-1"}))
}
