// Package storage wraps the Azure Blob Storage SDK behind the small set of
// operations the gateway needs. The provider SDK does the real work (auth,
// connection reuse, signing); this package only shapes inputs and classifies errors.
package storage

import (
	"context"
	"errors"
	"io"
	"iter"
	"time"
)

var (
	// ErrBlobNotFound is returned when the named blob does not exist.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrContainerNotFound is returned when the named container does not exist.
	ErrContainerNotFound = errors.New("container not found")

	// ErrBlobAlreadyExists is returned by UploadBlob when a blob with the same name
	// was created before the upload committed.
	ErrBlobAlreadyExists = errors.New("blob already exists")

	// ErrPayloadTruncated is returned by UploadBlob when the payload holds fewer
	// bytes than the declared size.
	ErrPayloadTruncated = errors.New("payload shorter than declared size")
)

// Collect drains a name sequence into a slice. The result is never nil.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	names := make([]string, 0)
	for name, err := range seq {
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// ReadTokenTTL is how long a token issued by ReadSAS stays valid.
const ReadTokenTTL = 5 * time.Minute

// Properties is a snapshot of a blob's service-side properties. It is fetched on
// every call and never cached.
type Properties struct {
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// BlobStore is the capability set the HTTP layer relies on. AzureBlobStore is the
// production implementation; tests substitute fakes.
type BlobStore interface {
	// BlobExists reports whether the blob is present. A missing blob or container
	// is (false, nil); only transport and auth failures return an error.
	BlobExists(ctx context.Context, container, blob string) (bool, error)

	// BlobProperties returns the blob's properties, or ErrBlobNotFound.
	BlobProperties(ctx context.Context, container, blob string) (*Properties, error)

	// ReadSAS returns a SAS query string granting read access to exactly one blob
	// for ReadTokenTTL from now.
	ReadSAS(container, blob string) (string, error)

	// UploadBlob streams the first size bytes of payload to the blob. It never
	// overwrites an existing blob.
	UploadBlob(ctx context.Context, container, blob string, payload io.ReaderAt, size int64) error

	// DownloadBlob reads the full blob into memory. Any read failure during the
	// transfer is returned; a partial body is never reported as success.
	DownloadBlob(ctx context.Context, container, blob string) ([]byte, error)

	// DeleteBlob removes the blob, or returns ErrBlobNotFound.
	DeleteBlob(ctx context.Context, container, blob string) error

	// ListBlobs enumerates blob names lazily in service order. The sequence can be
	// ranged over once.
	ListBlobs(ctx context.Context, container string) iter.Seq2[string, error]

	// AccountName returns the storage account's public name.
	AccountName() string
}
