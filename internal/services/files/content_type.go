package files

import (
	"path"
	"strings"
)

const octetStream = "application/octet-stream"

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

var videoTypes = map[string]string{
	".mp4": "video/mp4",
}

func genericContentType(string) string {
	return octetStream
}

func imageContentType(blobName string) string {
	return lookupContentType(imageTypes, blobName)
}

func videoContentType(blobName string) string {
	return lookupContentType(videoTypes, blobName)
}

func lookupContentType(types map[string]string, blobName string) string {
	if ct, ok := types[strings.ToLower(path.Ext(blobName))]; ok {
		return ct
	}
	return octetStream
}
