package storage

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	gcs "cloud.google.com/go/storage"
	"github.com/Azure/azure-storage-blob-go/azblob"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"google.golang.org/api/option"

	"github.com/yairfalse/driftcatch/internal/errors"
	"github.com/yairfalse/driftcatch/pkg/types"
)

// errObjectNotFound marks a missing object in any backend
var errObjectNotFound = stderrors.New("object not found")

// ObjectStore moves raw bytes in and out of one object store backend
type ObjectStore interface {
	Read(ctx context.Context, loc Location) (io.ReadCloser, error)
	Write(ctx context.Context, loc Location, data []byte) error
	Exists(ctx context.Context, loc Location) (bool, error)
}

// RemoteStorage implements Storage on S3, GCS and Azure blob storage
type RemoteStorage struct {
	stores map[string]ObjectStore
}

// NewRemoteStorage creates a remote store with the default backends
func NewRemoteStorage(config Config) *RemoteStorage {
	return &RemoteStorage{
		stores: map[string]ObjectStore{
			SchemeS3:    &S3Store{DefaultRegion: config.AWSRegion},
			SchemeGCS:   &GCSStore{},
			SchemeAzure: &AzureStore{},
		},
	}
}

// WithObjectStore replaces the backend for scheme
func (s *RemoteStorage) WithObjectStore(scheme string, store ObjectStore) *RemoteStorage {
	s.stores[scheme] = store
	return s
}

func (s *RemoteStorage) resolve(location string) (Location, ObjectStore, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return Location{}, nil, err
	}
	store, ok := s.stores[loc.Scheme]
	if !ok {
		return Location{}, nil, errors.UsageError(fmt.Sprintf("no remote backend for %q", location))
	}
	return loc, store, nil
}

// Save uploads the encoded snapshot
func (s *RemoteStorage) Save(ctx context.Context, snapshot *types.Snapshot, location string) error {
	loc, store, err := s.resolve(location)
	if err != nil {
		return err
	}

	data, err := Encode(snapshot)
	if err != nil {
		return err
	}

	if err := store.Write(ctx, loc, data); err != nil {
		return errors.IOError(location, err)
	}
	return nil
}

// Load downloads and decodes the snapshot
func (s *RemoteStorage) Load(ctx context.Context, location string) (*types.Snapshot, error) {
	rc, err := s.open(ctx, location)
	if err != nil {
		if stderrors.Is(err, errObjectNotFound) {
			return nil, errors.NotFoundError(location, err)
		}
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.IOError(location, err)
	}

	snapshot, err := Decode(data)
	if err != nil {
		return nil, errors.CorruptSnapshotError(location, err)
	}
	return snapshot, nil
}

// Exists reports whether the object is present
func (s *RemoteStorage) Exists(ctx context.Context, location string) (bool, error) {
	loc, store, err := s.resolve(location)
	if err != nil {
		return false, err
	}
	ok, err := store.Exists(ctx, loc)
	if err != nil {
		return false, errors.IOError(location, err)
	}
	return ok, nil
}

// Open streams a remote data source
func (s *RemoteStorage) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	rc, err := s.open(ctx, location)
	if err != nil && stderrors.Is(err, errObjectNotFound) {
		return nil, errors.SourceNotFoundError(location, err)
	}
	return rc, err
}

func (s *RemoteStorage) open(ctx context.Context, location string) (io.ReadCloser, error) {
	loc, store, err := s.resolve(location)
	if err != nil {
		return nil, err
	}
	rc, err := store.Read(ctx, loc)
	if err != nil {
		if stderrors.Is(err, errObjectNotFound) {
			return nil, err
		}
		return nil, errors.IOError(location, err)
	}
	return rc, nil
}

// S3Store reads and writes objects in AWS S3
type S3Store struct {
	// DefaultRegion applies when the location has no ?region=
	DefaultRegion string
}

func (st *S3Store) client(ctx context.Context, loc Location) (*s3.Client, error) {
	region := loc.Region
	if region == "" {
		region = st.DefaultRegion
	}

	var awsConfig aws.Config
	var err error
	if region != "" {
		awsConfig, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	} else {
		awsConfig, err = awsconfig.LoadDefaultConfig(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsConfig), nil
}

func (st *S3Store) Read(ctx context.Context, loc Location) (io.ReadCloser, error) {
	client, err := st.client(ctx, loc)
	if err != nil {
		return nil, err
	}

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("%w: %v", errObjectNotFound, err)
		}
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", loc.Bucket, loc.Key, err)
	}
	return result.Body, nil
}

func (st *S3Store) Write(ctx context.Context, loc Location, data []byte) error {
	client, err := st.client(ctx, loc)
	if err != nil {
		return err
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(loc.Bucket),
		Key:         aws.String(loc.Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", loc.Bucket, loc.Key, err)
	}
	return nil
}

func (st *S3Store) Exists(ctx context.Context, loc Location) (bool, error) {
	client, err := st.client(ctx, loc)
	if err != nil {
		return false, err
	}

	_, err = client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return true
		}
	}
	return false
}

// GCSStore reads and writes objects in Google Cloud Storage
type GCSStore struct {
	// ClientOptions are passed to the GCS client, e.g. option.WithCredentialsFile
	ClientOptions []option.ClientOption
}

func (st *GCSStore) client(ctx context.Context, scope string) (*gcs.Client, error) {
	opts := append([]option.ClientOption{option.WithScopes(scope)}, st.ClientOptions...)
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return client, nil
}

func (st *GCSStore) Read(ctx context.Context, loc Location) (io.ReadCloser, error) {
	client, err := st.client(ctx, gcs.ScopeReadOnly)
	if err != nil {
		return nil, err
	}

	reader, err := client.Bucket(loc.Bucket).Object(loc.Key).NewReader(ctx)
	if err != nil {
		client.Close()
		if isGCSNotFound(err) {
			return nil, fmt.Errorf("%w: %v", errObjectNotFound, err)
		}
		return nil, fmt.Errorf("failed to create reader for gs://%s/%s: %w", loc.Bucket, loc.Key, err)
	}
	return &closeBoth{ReadCloser: reader, client: client}, nil
}

func (st *GCSStore) Write(ctx context.Context, loc Location, data []byte) error {
	client, err := st.client(ctx, gcs.ScopeReadWrite)
	if err != nil {
		return err
	}
	defer client.Close()

	writer := client.Bucket(loc.Bucket).Object(loc.Key).NewWriter(ctx)
	writer.ContentType = "application/json"
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write gs://%s/%s: %w", loc.Bucket, loc.Key, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize gs://%s/%s: %w", loc.Bucket, loc.Key, err)
	}
	return nil
}

func (st *GCSStore) Exists(ctx context.Context, loc Location) (bool, error) {
	client, err := st.client(ctx, gcs.ScopeReadOnly)
	if err != nil {
		return false, err
	}
	defer client.Close()

	if _, err := client.Bucket(loc.Bucket).Object(loc.Key).Attrs(ctx); err != nil {
		if isGCSNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isGCSNotFound(err error) bool {
	return stderrors.Is(err, gcs.ErrObjectNotExist) || stderrors.Is(err, gcs.ErrBucketNotExist)
}

// closeBoth closes the object reader and then the client that owns it
type closeBoth struct {
	io.ReadCloser
	client *gcs.Client
}

func (c *closeBoth) Close() error {
	err := c.ReadCloser.Close()
	if cerr := c.client.Close(); err == nil {
		err = cerr
	}
	return err
}

// AzureStore reads and writes blobs in Azure Storage. The account key is
// taken from AZURE_STORAGE_KEY; without it requests are anonymous, which
// works for public containers and SAS-signed URLs.
type AzureStore struct{}

func (st *AzureStore) blobURL(loc Location) (url.URL, azblob.Credential, error) {
	raw := fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", loc.Account, loc.Bucket, loc.Key)
	parsed, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, nil, fmt.Errorf("failed to parse Azure blob URL: %w", err)
	}

	var credential azblob.Credential = azblob.NewAnonymousCredential()
	if key := os.Getenv("AZURE_STORAGE_KEY"); key != "" {
		shared, err := azblob.NewSharedKeyCredential(loc.Account, key)
		if err != nil {
			return url.URL{}, nil, fmt.Errorf("invalid Azure storage key: %w", err)
		}
		credential = shared
	}
	return *parsed, credential, nil
}

func (st *AzureStore) Read(ctx context.Context, loc Location) (io.ReadCloser, error) {
	u, credential, err := st.blobURL(loc)
	if err != nil {
		return nil, err
	}
	blobURL := azblob.NewBlobURL(u, azblob.NewPipeline(credential, azblob.PipelineOptions{}))

	response, err := blobURL.Download(ctx, 0, azblob.CountToEnd, azblob.BlobAccessConditions{}, false, azblob.ClientProvidedKeyOptions{})
	if err != nil {
		if isAzureNotFound(err) {
			return nil, fmt.Errorf("%w: %v", errObjectNotFound, err)
		}
		return nil, fmt.Errorf("failed to download %s: %w", u.String(), err)
	}
	return response.Body(azblob.RetryReaderOptions{MaxRetryRequests: 3}), nil
}

func (st *AzureStore) Write(ctx context.Context, loc Location, data []byte) error {
	u, credential, err := st.blobURL(loc)
	if err != nil {
		return err
	}
	blockBlobURL := azblob.NewBlockBlobURL(u, azblob.NewPipeline(credential, azblob.PipelineOptions{}))

	_, err = azblob.UploadBufferToBlockBlob(ctx, data, blockBlobURL, azblob.UploadToBlockBlobOptions{
		BlobHTTPHeaders: azblob.BlobHTTPHeaders{ContentType: "application/json"},
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", u.String(), err)
	}
	return nil
}

func (st *AzureStore) Exists(ctx context.Context, loc Location) (bool, error) {
	u, credential, err := st.blobURL(loc)
	if err != nil {
		return false, err
	}
	blobURL := azblob.NewBlobURL(u, azblob.NewPipeline(credential, azblob.PipelineOptions{}))

	if _, err := blobURL.GetProperties(ctx, azblob.BlobAccessConditions{}, azblob.ClientProvidedKeyOptions{}); err != nil {
		if isAzureNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isAzureNotFound(err error) bool {
	var storageErr azblob.StorageError
	if !stderrors.As(err, &storageErr) {
		return false
	}
	switch storageErr.ServiceCode() {
	case azblob.ServiceCodeBlobNotFound, azblob.ServiceCodeContainerNotFound:
		return true
	}
	if resp := storageErr.Response(); resp != nil && resp.StatusCode == http.StatusNotFound {
		return true
	}
	return false
}
