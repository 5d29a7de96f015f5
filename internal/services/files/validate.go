package files

import (
	"path"
	"slices"
	"strings"
)

// MaxUploadSize is the largest payload accepted on upload, in bytes. A payload of
// exactly this size passes.
const MaxUploadSize int64 = 10 << 20

// multipartOverhead is the slack allowed on top of MaxUploadSize for boundaries,
// part headers and small form fields before the request body is cut off.
const multipartOverhead int64 = 1 << 20

const (
	msgEmptyFile     = "File is empty."
	msgFileTooLarge  = "File size exceeds the maximum allowed size (10 MB)."
	msgBlobExists    = "Blob name already exists in the container."
	msgPayloadShort  = "Uploaded file is shorter than its declared size."
	msgExtensionBase = "Invalid file extension. Allowed extensions: "
)

// uploadRejection runs the local upload checks in order and returns the message
// for the first one that fails, or "" when the payload may go to the store.
func (s *FileService) uploadRejection(size int64, filename string) string {
	switch {
	case size <= 0:
		return msgEmptyFile
	case size > MaxUploadSize:
		return msgFileTooLarge
	case !s.extensionAllowed(filename):
		return s.extensionMessage()
	}
	return ""
}

// extensionAllowed reports whether filename has a non-empty stem and an extension
// on the allow-list. Matching ignores case.
func (s *FileService) extensionAllowed(filename string) bool {
	ext := path.Ext(filename)
	if ext == "" || strings.TrimSuffix(filename, ext) == "" {
		return false
	}
	return slices.Contains(s.extensions, strings.ToLower(ext[1:]))
}

func (s *FileService) extensionMessage() string {
	return msgExtensionBase + strings.Join(s.extensions, ", ") + "."
}
