// Package blobtest runs an in-memory Azure Blob Storage REST endpoint that the
// official SDK can talk to. It covers the calls the gateway makes: container
// create and list, blob properties, upload, download and delete.
package blobtest

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	// AccountName and AccountKey are the Azurite development credentials. The
	// server accepts any signature, but the SDK needs a well-formed key.
	AccountName = "devstoreaccount1"
	AccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="

	defaultMaxResults = 5000
)

type object struct {
	content     []byte
	contentType string
	etag        string
	modifiedAt  time.Time
}

type injectedError struct {
	status int
	code   string
}

// Server is an in-memory blob service bound to a local httptest listener.
type Server struct {
	httpServer *httptest.Server

	mu         sync.Mutex
	containers map[string]map[string]*object
	failures   map[string]injectedError
	requests   map[string]int
}

// NewServer starts a server and stops it when the test ends.
func NewServer(tb testing.TB) *Server {
	tb.Helper()
	s := &Server{
		containers: make(map[string]map[string]*object),
		failures:   make(map[string]injectedError),
		requests:   make(map[string]int),
	}

	router := chi.NewRouter()
	router.Use(s.countRequests)
	router.Route("/{account}", func(r chi.Router) {
		r.Put("/{container}", s.handleCreateContainer)
		r.Get("/{container}", s.handleListBlobs)

		r.Head("/{container}/*", s.handleGetProperties)
		r.Get("/{container}/*", s.handleGetBlob)
		r.Put("/{container}/*", s.handlePutBlob)
		r.Delete("/{container}/*", s.handleDeleteBlob)
	})

	s.httpServer = httptest.NewServer(router)
	tb.Cleanup(s.httpServer.Close)
	return s
}

// URL returns the blob service endpoint, including the account path segment.
func (s *Server) URL() string {
	return s.httpServer.URL + "/" + AccountName
}

// ConnectionString returns a connection string pointing the SDK at this server.
func (s *Server) ConnectionString() string {
	return fmt.Sprintf("DefaultEndpointsProtocol=http;AccountName=%s;AccountKey=%s;BlobEndpoint=%s;",
		AccountName, AccountKey, s.URL())
}

// CreateContainer adds an empty container.
func (s *Server) CreateContainer(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.containers[name]; !ok {
		s.containers[name] = make(map[string]*object)
	}
}

// PutBlob stores a blob directly, creating the container if needed.
func (s *Server) PutBlob(containerName, blobName string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blobs, ok := s.containers[containerName]
	if !ok {
		blobs = make(map[string]*object)
		s.containers[containerName] = blobs
	}
	blobs[blobName] = newObject(content, "application/octet-stream")
}

// Blob returns a copy of a stored blob's content.
func (s *Server) Blob(containerName, blobName string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.containers[containerName][blobName]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), obj.content...), true
}

// ContentType returns the content type recorded for a stored blob.
func (s *Server) ContentType(containerName, blobName string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj, ok := s.containers[containerName][blobName]; ok {
		return obj.contentType
	}
	return ""
}

// FailNext makes the next request with the given HTTP method fail with status and
// the Azure error code.
func (s *Server) FailNext(method string, status int, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = injectedError{status: status, code: code}
}

// Requests returns how many requests with the given method reached the server.
func (s *Server) Requests(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method]
}

func newObject(content []byte, contentType string) *object {
	return &object{
		content:     append([]byte(nil), content...),
		contentType: contentType,
		etag:        strconv.Quote(uuid.NewString()),
		modifiedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-ms-request-id", uuid.NewString())
		w.Header().Set("x-ms-version", "2023-11-03")

		s.mu.Lock()
		s.requests[r.Method]++
		failure, fail := s.failures[r.Method]
		delete(s.failures, r.Method)
		s.mu.Unlock()

		if fail {
			writeError(w, r, failure.status, failure.code, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// blobName returns the wildcard path segment. chi matches against the raw path
// when one is present, in which case the value is still escaped.
func blobName(r *http.Request) string {
	name := chi.URLParam(r, "*")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			return unescaped
		}
	}
	return name
}

func (s *Server) handleCreateContainer(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("restype") != "container" {
		writeError(w, r, http.StatusBadRequest, "InvalidQueryParameterValue", "restype=container required")
		return
	}
	containerName := chi.URLParam(r, "container")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.containers[containerName]; ok {
		writeError(w, r, http.StatusConflict, "ContainerAlreadyExists", "The specified container already exists.")
		return
	}
	s.containers[containerName] = make(map[string]*object)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleGetProperties(w http.ResponseWriter, r *http.Request) {
	obj, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeObjectHeaders(w, obj)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetBlob(w http.ResponseWriter, r *http.Request) {
	obj, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeObjectHeaders(w, obj)
	w.WriteHeader(http.StatusOK)
	w.Write(obj.content)
}

func (s *Server) handlePutBlob(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("x-ms-blob-type") != "BlockBlob" {
		writeError(w, r, http.StatusBadRequest, "InvalidHeaderValue", "only block blobs are supported")
		return
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "InvalidInput", "failed to read request body")
		return
	}
	if r.ContentLength >= 0 && int64(len(content)) != r.ContentLength {
		writeError(w, r, http.StatusBadRequest, "InvalidInput", "body length does not match Content-Length")
		return
	}

	contentType := r.Header.Get("x-ms-blob-content-type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	containerName, name := chi.URLParam(r, "container"), blobName(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	blobs, ok := s.containers[containerName]
	if !ok {
		writeError(w, r, http.StatusNotFound, "ContainerNotFound", "The specified container does not exist.")
		return
	}
	if _, exists := blobs[name]; exists && r.Header.Get("If-None-Match") == "*" {
		writeError(w, r, http.StatusConflict, "BlobAlreadyExists", "The specified blob already exists.")
		return
	}

	obj := newObject(content, contentType)
	blobs[name] = obj
	w.Header().Set("ETag", obj.etag)
	w.Header().Set("Last-Modified", obj.modifiedAt.Format(http.TimeFormat))
	w.Header().Set("x-ms-request-server-encrypted", "true")
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleDeleteBlob(w http.ResponseWriter, r *http.Request) {
	containerName, name := chi.URLParam(r, "container"), blobName(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	blobs, ok := s.containers[containerName]
	if !ok {
		writeError(w, r, http.StatusNotFound, "ContainerNotFound", "The specified container does not exist.")
		return
	}
	if _, exists := blobs[name]; !exists {
		writeError(w, r, http.StatusNotFound, "BlobNotFound", "The specified blob does not exist.")
		return
	}
	delete(blobs, name)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleListBlobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("restype") != "container" || query.Get("comp") != "list" {
		writeError(w, r, http.StatusBadRequest, "InvalidQueryParameterValue", "restype=container&comp=list required")
		return
	}
	containerName := chi.URLParam(r, "container")

	maxResults := defaultMaxResults
	if v, err := strconv.Atoi(query.Get("maxresults")); err == nil && v > 0 {
		maxResults = v
	}
	start := 0
	if v, err := strconv.Atoi(query.Get("marker")); err == nil && v > 0 {
		start = v
	}

	s.mu.Lock()
	blobs, ok := s.containers[containerName]
	if !ok {
		s.mu.Unlock()
		writeError(w, r, http.StatusNotFound, "ContainerNotFound", "The specified container does not exist.")
		return
	}
	names := make([]string, 0, len(blobs))
	for name := range blobs {
		names = append(names, name)
	}
	sort.Strings(names)

	result := enumerationResults{
		ServiceEndpoint: s.httpServer.URL + "/" + AccountName + "/",
		ContainerName:   containerName,
		Marker:          query.Get("marker"),
		MaxResults:      maxResults,
	}
	end := min(start+maxResults, len(names))
	for _, name := range names[min(start, len(names)):end] {
		obj := blobs[name]
		result.Blobs.Items = append(result.Blobs.Items, blobItem{
			Name: name,
			Properties: blobItemProperties{
				LastModified:  obj.modifiedAt.Format(http.TimeFormat),
				ETag:          obj.etag,
				ContentLength: int64(len(obj.content)),
				ContentType:   obj.contentType,
				BlobType:      "BlockBlob",
			},
		})
	}
	if end < len(names) {
		result.NextMarker = strconv.Itoa(end)
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, xml.Header)
	xml.NewEncoder(w).Encode(result)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*object, bool) {
	containerName, name := chi.URLParam(r, "container"), blobName(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	blobs, ok := s.containers[containerName]
	if !ok {
		writeError(w, r, http.StatusNotFound, "ContainerNotFound", "The specified container does not exist.")
		return nil, false
	}
	obj, ok := blobs[name]
	if !ok {
		writeError(w, r, http.StatusNotFound, "BlobNotFound", "The specified blob does not exist.")
		return nil, false
	}
	return obj, true
}

func writeObjectHeaders(w http.ResponseWriter, obj *object) {
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.content)))
	w.Header().Set("Content-Type", obj.contentType)
	w.Header().Set("ETag", obj.etag)
	w.Header().Set("Last-Modified", obj.modifiedAt.Format(http.TimeFormat))
	w.Header().Set("x-ms-blob-type", "BlockBlob")
}

// writeError writes an Azure-style error. The SDK reads the code from the
// x-ms-error-code header, which is the only signal available on HEAD responses.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("x-ms-error-code", code)
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	io.WriteString(w, xml.Header)
	xml.NewEncoder(w).Encode(errorBody{Code: code, Message: message})
}

type errorBody struct {
	XMLName xml.Name `xml:"Error"`
	Code    string   `xml:"Code"`
	Message string   `xml:"Message"`
}

type enumerationResults struct {
	XMLName         xml.Name `xml:"EnumerationResults"`
	ServiceEndpoint string   `xml:"ServiceEndpoint,attr"`
	ContainerName   string   `xml:"ContainerName,attr"`
	Marker          string   `xml:"Marker,omitempty"`
	MaxResults      int      `xml:"MaxResults,omitempty"`
	Blobs           blobList `xml:"Blobs"`
	NextMarker      string   `xml:"NextMarker"`
}

type blobList struct {
	Items []blobItem `xml:"Blob"`
}

type blobItem struct {
	Name       string             `xml:"Name"`
	Properties blobItemProperties `xml:"Properties"`
}

type blobItemProperties struct {
	LastModified  string `xml:"Last-Modified"`
	ETag          string `xml:"Etag"`
	ContentLength int64  `xml:"Content-Length"`
	ContentType   string `xml:"Content-Type"`
	BlobType      string `xml:"BlobType"`
}
