package files

// ErrorResponse is the JSON body returned with every error status.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries a machine-readable code and the client-facing message.
type ErrorBody struct {
	Code    string `json:"code" example:"InvalidRequest"`
	Message string `json:"message" example:"File is empty."`
}

// Error codes used in ErrorBody.Code.
const (
	codeInvalidRequest    = "InvalidRequest"
	codeBlobNotFound      = "BlobNotFound"
	codeContainerNotFound = "ContainerNotFound"
	codeInternal          = "InternalError"
)
