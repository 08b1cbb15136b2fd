// Package blob sube archivos de imagen a un host de objetos compatible con S3
// (AWS S3, MinIO, R2). Es opcional: sin bucket configurado el portal guarda solo
// contenido embebido.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/jhoicas/portal-imagenes/internal/application/requests"
)

var _ requests.BlobUploader = (*S3Store)(nil)

// Putter subconjunto del cliente S3 usado por el store.
type Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configuración del host.
type Options struct {
	Bucket          string
	Region          string
	Endpoint        string // vacío = AWS
	PublicBaseURL   string // base para construir la URL pública; vacío = endpoint/bucket
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store implementa requests.BlobUploader.
type S3Store struct {
	client  Putter
	bucket  string
	baseURL string
	newKey  func(folder, fileName string) string
}

// NewS3Store construye el cliente con credenciales estáticas si se proporcionan;
// si no, usa la cadena por defecto del SDK.
func NewS3Store(ctx context.Context, opts Options) (*S3Store, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("blob: cargar configuración aws: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3StoreWithClient(client, opts), nil
}

// NewS3StoreWithClient permite inyectar el cliente (tests).
func NewS3StoreWithClient(client Putter, opts Options) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: publicBase(opts),
		newKey:  objectKey,
	}
}

// Upload guarda el objeto en <folder>/<uuid>-<nombre> y devuelve su URL pública.
func (s *S3Store) Upload(ctx context.Context, folder, fileName, contentType string, data []byte) (string, error) {
	key := s.newKey(folder, fileName)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("blob: put %s: %w", key, err)
	}
	return s.baseURL + "/" + escapeKey(key), nil
}

// escapeKey escapa cada segmento de la clave para usarla como ruta de URL.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func objectKey(folder, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "image"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return path.Join(folder, uuid.New().String()+"-"+name)
}

func publicBase(opts Options) string {
	if opts.PublicBaseURL != "" {
		return strings.TrimRight(opts.PublicBaseURL, "/")
	}
	if opts.Endpoint != "" {
		return strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
}
