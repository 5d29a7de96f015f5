package files

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/asad/blobgate/internal/core"
	"github.com/asad/blobgate/internal/logging"
	"github.com/asad/blobgate/internal/storage"
)

// FileService exposes upload, download, delete, list and read-URL operations for
// one storage account over HTTP.
type FileService struct {
	store      storage.BlobStore
	extensions []string
	logger     logging.Logger
}

// NewFileService creates a file service. allowedExtensions are lower case without
// a leading dot; their order is kept in the rejection message.
func NewFileService(store storage.BlobStore, allowedExtensions []string, logger logging.Logger) *FileService {
	return &FileService{
		store:      store,
		extensions: allowedExtensions,
		logger:     logger,
	}
}

// Name returns the service identifier, which is also its path prefix.
func (s *FileService) Name() string {
	return "files"
}

// RegisterRoutes sets up the file routes on a router scoped to /files:
//   - POST /{container}/{blob} - Upload (multipart field "file")
//   - GET /{container}/{blob} - Download as application/octet-stream
//   - GET /images/{container}/{blob} - Download with an image content type
//   - GET /videos/{container}/{blob} - Download with a video content type
//   - DELETE /{container}/{blob} - Delete
//   - GET /url/{container}/{blob} - Signed, time-limited read URL
//   - GET /{container} - List blob names
func (s *FileService) RegisterRoutes(router chi.Router) {
	router.Get("/images/{container}/{blob}", s.handleDownloadImage)
	router.Get("/videos/{container}/{blob}", s.handleDownloadVideo)
	router.Get("/url/{container}/{blob}", s.handleReadURL)

	router.Post("/{container}/{blob}", s.handleUpload)
	router.Get("/{container}/{blob}", s.handleDownload)
	router.Delete("/{container}/{blob}", s.handleDelete)

	router.Get("/{container}", s.handleList)
}

// handleUpload godoc
//
//	@Summary		Upload a file
//	@Description	Stores the multipart field "file" as a new blob. Existing blobs are never overwritten.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			container	path		string	true	"Container name"
//	@Param			blob		path		string	true	"Blob name"
//	@Param			file		formData	file	true	"File to upload (max 10 MB)"
//	@Success		200
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/files/{container}/{blob} [post]
func (s *FileService) handleUpload(w http.ResponseWriter, r *http.Request) {
	containerName := pathParam(r, "container")
	blobName := pathParam(r, "blob")

	// A body over the multipart limit is refused before the form is parsed, so
	// it gets the size message even when its file part is empty.
	limit := MaxUploadSize + multipartOverhead
	if r.ContentLength > limit {
		s.writeError(w, http.StatusBadRequest, codeInvalidRequest, msgFileTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			s.writeError(w, http.StatusBadRequest, codeInvalidRequest, msgFileTooLarge)
		case errors.Is(err, http.ErrMissingFile):
			s.writeError(w, http.StatusBadRequest, codeInvalidRequest, msgEmptyFile)
		default:
			s.logger.Debug("rejected malformed upload", logging.ErrorField(err))
			s.writeError(w, http.StatusBadRequest, codeInvalidRequest, "Request must be a multipart form with a file field.")
		}
		return
	}
	defer file.Close()

	if msg := s.uploadRejection(header.Size, header.Filename); msg != "" {
		s.writeError(w, http.StatusBadRequest, codeInvalidRequest, msg)
		return
	}

	ctx := r.Context()
	exists, err := s.store.BlobExists(ctx, containerName, blobName)
	if err != nil {
		s.logger.Error("failed to check blob existence",
			logging.String("container", containerName),
			logging.String("blob", blobName),
			logging.ErrorField(err),
		)
		s.writeError(w, http.StatusInternalServerError, codeInternal, "Failed to check blob existence")
		return
	}
	if exists {
		s.writeError(w, http.StatusBadRequest, codeInvalidRequest, msgBlobExists)
		return
	}

	err = s.store.UploadBlob(ctx, containerName, blobName, file, header.Size)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrBlobAlreadyExists):
		s.writeError(w, http.StatusBadRequest, codeInvalidRequest, msgBlobExists)
		return
	case errors.Is(err, storage.ErrPayloadTruncated):
		s.writeError(w, http.StatusBadRequest, codeInvalidRequest, msgPayloadShort)
		return
	default:
		s.writeStoreError(w, "upload blob", containerName, blobName, err)
		return
	}

	s.logger.Info("blob uploaded",
		logging.String("container", containerName),
		logging.String("blob", blobName),
		logging.Int64("size", header.Size),
	)
	w.WriteHeader(http.StatusOK)
}

// handleDownload godoc
//
//	@Summary	Download a file
//	@Tags		files
//	@Produce	octet-stream
//	@Param		container	path		string	true	"Container name"
//	@Param		blob		path		string	true	"Blob name"
//	@Success	200			{file}		file
//	@Failure	404			{object}	ErrorResponse
//	@Failure	500			{object}	ErrorResponse
//	@Router		/files/{container}/{blob} [get]
func (s *FileService) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.serveBlob(w, r, genericContentType)
}

// handleDownloadImage godoc
//
//	@Summary		Download an image
//	@Description	Responds with image/jpeg or image/png by extension, otherwise application/octet-stream.
//	@Tags			files
//	@Produce		jpeg,png,octet-stream
//	@Param			container	path		string	true	"Container name"
//	@Param			blob		path		string	true	"Blob name"
//	@Success		200			{file}		file
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/files/images/{container}/{blob} [get]
func (s *FileService) handleDownloadImage(w http.ResponseWriter, r *http.Request) {
	s.serveBlob(w, r, imageContentType)
}

// handleDownloadVideo godoc
//
//	@Summary		Download a video
//	@Description	Responds with video/mp4 for .mp4 blobs, otherwise application/octet-stream.
//	@Tags			files
//	@Produce		mp4,octet-stream
//	@Param			container	path		string	true	"Container name"
//	@Param			blob		path		string	true	"Blob name"
//	@Success		200			{file}		file
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/files/videos/{container}/{blob} [get]
func (s *FileService) handleDownloadVideo(w http.ResponseWriter, r *http.Request) {
	s.serveBlob(w, r, videoContentType)
}

// serveBlob checks the blob's properties before fetching its content, so a missing
// blob never reaches the download call.
func (s *FileService) serveBlob(w http.ResponseWriter, r *http.Request, contentType func(string) string) {
	containerName := pathParam(r, "container")
	blobName := pathParam(r, "blob")
	ctx := r.Context()

	if _, err := s.store.BlobProperties(ctx, containerName, blobName); err != nil {
		s.writeStoreError(w, "get blob properties", containerName, blobName, err)
		return
	}

	data, err := s.store.DownloadBlob(ctx, containerName, blobName)
	if err != nil {
		s.writeStoreError(w, "download blob", containerName, blobName, err)
		return
	}

	w.Header().Set("Content-Type", contentType(blobName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleDelete godoc
//
//	@Summary	Delete a file
//	@Tags		files
//	@Produce	json
//	@Param		container	path	string	true	"Container name"
//	@Param		blob		path	string	true	"Blob name"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/files/{container}/{blob} [delete]
func (s *FileService) handleDelete(w http.ResponseWriter, r *http.Request) {
	containerName := pathParam(r, "container")
	blobName := pathParam(r, "blob")
	ctx := r.Context()

	if _, err := s.store.BlobProperties(ctx, containerName, blobName); err != nil {
		s.writeStoreError(w, "get blob properties", containerName, blobName, err)
		return
	}

	if err := s.store.DeleteBlob(ctx, containerName, blobName); err != nil {
		s.writeStoreError(w, "delete blob", containerName, blobName, err)
		return
	}

	s.logger.Info("blob deleted",
		logging.String("container", containerName),
		logging.String("blob", blobName),
	)
	w.WriteHeader(http.StatusNoContent)
}

// handleReadURL godoc
//
//	@Summary		Get a read URL
//	@Description	Returns a URL with a read-only token for one blob, valid for five minutes.
//	@Tags			files
//	@Produce		plain
//	@Param			container	path		string	true	"Container name"
//	@Param			blob		path		string	true	"Blob name"
//	@Success		200			{string}	string
//	@Failure		500			{object}	ErrorResponse
//	@Router			/files/url/{container}/{blob} [get]
func (s *FileService) handleReadURL(w http.ResponseWriter, r *http.Request) {
	containerName := pathParam(r, "container")
	blobName := pathParam(r, "blob")

	readURL, err := ComposeReadURL(s.store, containerName, blobName)
	if err != nil {
		s.logger.Error("failed to generate read url",
			logging.String("container", containerName),
			logging.String("blob", blobName),
			logging.ErrorField(err),
		)
		s.writeError(w, http.StatusInternalServerError, codeInternal, "Failed to generate read URL")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, readURL)
}

// handleList godoc
//
//	@Summary	List files
//	@Tags		files
//	@Produce	json
//	@Param		container	path		string	true	"Container name"
//	@Success	200			{array}		string
//	@Failure	404			{object}	ErrorResponse
//	@Failure	500			{object}	ErrorResponse
//	@Router		/files/{container} [get]
func (s *FileService) handleList(w http.ResponseWriter, r *http.Request) {
	containerName := pathParam(r, "container")

	names, err := storage.Collect(s.store.ListBlobs(r.Context(), containerName))
	if err != nil {
		s.writeStoreError(w, "list blobs", containerName, "", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(names)
}

// pathParam returns a route parameter. chi matches on the escaped path when the
// request carried one, so the value is unescaped here.
func pathParam(r *http.Request, key string) string {
	value := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return value
	}
	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}
	return value
}

// writeStoreError maps a storage error to a response. Anything that is not a
// not-found condition is logged and reported as an internal error.
func (s *FileService) writeStoreError(w http.ResponseWriter, op, containerName, blobName string, err error) {
	switch {
	case errors.Is(err, storage.ErrBlobNotFound):
		s.writeError(w, http.StatusNotFound, codeBlobNotFound, "The specified blob does not exist.")
	case errors.Is(err, storage.ErrContainerNotFound):
		s.writeError(w, http.StatusNotFound, codeContainerNotFound, "The specified container does not exist.")
	default:
		s.logger.Error("failed to "+op,
			logging.String("container", containerName),
			logging.String("blob", blobName),
			logging.ErrorField(err),
		)
		s.writeError(w, http.StatusInternalServerError, codeInternal, "Failed to "+op)
	}
}

// writeError writes an error response in JSON format.
func (s *FileService) writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorBody{Code: code, Message: message},
	})
}

// Ensure FileService implements the Service interface.
var _ core.Service = (*FileService)(nil)
