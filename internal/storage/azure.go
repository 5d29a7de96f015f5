package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"mime"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
)

// AzureBlobStore implements BlobStore against one Azure storage account. It holds a
// single long-lived SDK client; the SDK client is safe for concurrent use.
type AzureBlobStore struct {
	client   *azblob.Client
	cred     *azblob.SharedKeyCredential
	account  string
	now      func() time.Time
	pageSize int32
}

// Option configures an AzureBlobStore.
type Option func(*AzureBlobStore)

// WithClock overrides the time source used to stamp read tokens.
func WithClock(now func() time.Time) Option {
	return func(s *AzureBlobStore) {
		s.now = now
	}
}

// WithListPageSize caps the number of names fetched per list request.
func WithListPageSize(n int32) Option {
	return func(s *AzureBlobStore) {
		s.pageSize = n
	}
}

// NewAzureBlobStore builds the adapter from a storage connection string. The SDK's
// retry policy is disabled: a failed call surfaces to the caller immediately.
func NewAzureBlobStore(connStr string, opts ...Option) (*AzureBlobStore, error) {
	acct, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	cred, err := azblob.NewSharedKeyCredential(acct.Name, acct.Key)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(acct.ServiceURL, cred, &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: -1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}

	s := &AzureBlobStore{
		client:  client,
		cred:    cred,
		account: acct.Name,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *AzureBlobStore) containerClient(containerName string) *container.Client {
	return s.client.ServiceClient().NewContainerClient(containerName)
}

func (s *AzureBlobStore) blobClient(containerName, blobName string) *blob.Client {
	return s.containerClient(containerName).NewBlobClient(blobName)
}

func (s *AzureBlobStore) AccountName() string {
	return s.account
}

func (s *AzureBlobStore) BlobExists(ctx context.Context, containerName, blobName string) (bool, error) {
	_, err := s.BlobProperties(ctx, containerName, blobName)
	if errors.Is(err, ErrBlobNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AzureBlobStore) BlobProperties(ctx context.Context, containerName, blobName string) (*Properties, error) {
	resp, err := s.blobClient(containerName, blobName).GetProperties(ctx, nil)
	if err != nil {
		return nil, classify(fmt.Sprintf("get properties %s/%s", containerName, blobName), err, ErrBlobNotFound)
	}

	props := &Properties{}
	if resp.ContentLength != nil {
		props.Size = *resp.ContentLength
	}
	if resp.ContentType != nil {
		props.ContentType = *resp.ContentType
	}
	if resp.ETag != nil {
		props.ETag = string(*resp.ETag)
	}
	if resp.LastModified != nil {
		props.LastModified = *resp.LastModified
	}
	return props, nil
}

// ReadSAS signs a blob-scoped, read-only service SAS. The blob name is
// percent-encoded before signing so the token matches the encoded URL path.
func (s *AzureBlobStore) ReadSAS(containerName, blobName string) (string, error) {
	perms := sas.BlobPermissions{Read: true}
	params, err := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		ExpiryTime:    s.now().UTC().Add(ReadTokenTTL),
		Permissions:   perms.String(),
		ContainerName: containerName,
		BlobName:      url.PathEscape(blobName),
	}.SignWithSharedKey(s.cred)
	if err != nil {
		return "", fmt.Errorf("sign read token %s/%s: %w", containerName, blobName, err)
	}
	return params.Encode(), nil
}

// UploadBlob creates the blob with an If-None-Match: * condition, so the service
// rejects the write if another upload created the same name first.
func (s *AzureBlobStore) UploadBlob(ctx context.Context, containerName, blobName string, payload io.ReaderAt, size int64) error {
	if size > 0 {
		var last [1]byte
		n, err := payload.ReadAt(last[:], size-1)
		if n < 1 {
			if err == nil || errors.Is(err, io.EOF) {
				return fmt.Errorf("upload %s/%s: %w", containerName, blobName, ErrPayloadTruncated)
			}
			return fmt.Errorf("upload %s/%s: read payload: %w", containerName, blobName, err)
		}
	}

	contentType := mime.TypeByExtension(path.Ext(blobName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body := streaming.NopCloser(io.NewSectionReader(payload, 0, size))
	_, err := s.containerClient(containerName).NewBlockBlobClient(blobName).Upload(ctx, body, &blockblob.UploadOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(contentType)},
		AccessConditions: &blob.AccessConditions{
			ModifiedAccessConditions: &blob.ModifiedAccessConditions{IfNoneMatch: to.Ptr(azcore.ETagAny)},
		},
	})
	if err != nil {
		return classify(fmt.Sprintf("upload %s/%s", containerName, blobName), err, ErrContainerNotFound)
	}
	return nil
}

func (s *AzureBlobStore) DownloadBlob(ctx context.Context, containerName, blobName string) ([]byte, error) {
	resp, err := s.blobClient(containerName, blobName).DownloadStream(ctx, nil)
	if err != nil {
		return nil, classify(fmt.Sprintf("download %s/%s", containerName, blobName), err, ErrBlobNotFound)
	}

	data, readErr := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("download %s/%s: read body: %w", containerName, blobName, readErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("download %s/%s: close body: %w", containerName, blobName, closeErr)
	}
	if resp.ContentLength != nil && int64(len(data)) != *resp.ContentLength {
		return nil, fmt.Errorf("download %s/%s: got %d of %d bytes: %w",
			containerName, blobName, len(data), *resp.ContentLength, io.ErrUnexpectedEOF)
	}
	return data, nil
}

func (s *AzureBlobStore) DeleteBlob(ctx context.Context, containerName, blobName string) error {
	if _, err := s.blobClient(containerName, blobName).Delete(ctx, nil); err != nil {
		return classify(fmt.Sprintf("delete %s/%s", containerName, blobName), err, ErrBlobNotFound)
	}
	return nil
}

// ListBlobs pages through the container on demand. The pager is created up front
// and consumed by the first range over the sequence.
func (s *AzureBlobStore) ListBlobs(ctx context.Context, containerName string) iter.Seq2[string, error] {
	opts := &container.ListBlobsFlatOptions{}
	if s.pageSize > 0 {
		opts.MaxResults = to.Ptr(s.pageSize)
	}
	pager := s.containerClient(containerName).NewListBlobsFlatPager(opts)

	return func(yield func(string, error) bool) {
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				yield("", classify(fmt.Sprintf("list %s", containerName), err, ErrContainerNotFound))
				return
			}
			if page.Segment == nil {
				continue
			}
			for _, item := range page.Segment.BlobItems {
				if item == nil || item.Name == nil {
					continue
				}
				if !yield(*item.Name, nil) {
					return
				}
			}
		}
	}
}

// classify wraps a provider error with the matching sentinel. containerMissing is
// the sentinel reported when the container itself does not exist: reads treat that
// as a missing blob, writes as a missing container.
func classify(op string, err error, containerMissing error) error {
	switch {
	case bloberror.HasCode(err, bloberror.ContainerNotFound):
		return fmt.Errorf("%s: %w: %w", op, containerMissing, err)
	case bloberror.HasCode(err, bloberror.BlobNotFound), hasStatus(err, http.StatusNotFound):
		return fmt.Errorf("%s: %w: %w", op, ErrBlobNotFound, err)
	case bloberror.HasCode(err, bloberror.BlobAlreadyExists, bloberror.ConditionNotMet):
		return fmt.Errorf("%s: %w: %w", op, ErrBlobAlreadyExists, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func hasStatus(err error, status int) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == status
}

var _ BlobStore = (*AzureBlobStore)(nil)
