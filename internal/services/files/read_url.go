package files

import (
	"fmt"
	"net/url"
)

const readURLTemplate = "https://%s.blob.core.windows.net/%s/%s?%s"

// ReadSigner issues read tokens for single blobs. storage.BlobStore satisfies it.
type ReadSigner interface {
	ReadSAS(container, blob string) (string, error)
	AccountName() string
}

// ComposeReadURL returns a public URL granting time-limited read access to one
// blob. The blob name is percent-encoded in the path.
func ComposeReadURL(signer ReadSigner, containerName, blobName string) (string, error) {
	token, err := signer.ReadSAS(containerName, blobName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(readURLTemplate, signer.AccountName(), containerName, url.PathEscape(blobName), token), nil
}
