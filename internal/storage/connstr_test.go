package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		connStr string
		want    Account
	}{
		{
			name:    "public cloud defaults",
			connStr: "AccountName=media;AccountKey=c2VjcmV0",
			want:    Account{Name: "media", Key: "c2VjcmV0", ServiceURL: "https://media.blob.core.windows.net/"},
		},
		{
			name:    "protocol and suffix",
			connStr: "DefaultEndpointsProtocol=http;AccountName=media;AccountKey=c2VjcmV0;EndpointSuffix=core.chinacloudapi.cn;",
			want:    Account{Name: "media", Key: "c2VjcmV0", ServiceURL: "http://media.blob.core.chinacloudapi.cn/"},
		},
		{
			name:    "explicit blob endpoint",
			connStr: "AccountName=media;AccountKey=c2VjcmV0;BlobEndpoint=http://localhost:10000/media",
			want:    Account{Name: "media", Key: "c2VjcmV0", ServiceURL: "http://localhost:10000/media/"},
		},
		{
			name:    "keys are case insensitive and keep padding",
			connStr: " accountname = media ; ACCOUNTKEY=a2V5==",
			want:    Account{Name: "media", Key: "a2V5==", ServiceURL: "https://media.blob.core.windows.net/"},
		},
		{
			name:    "development storage",
			connStr: "UseDevelopmentStorage=true",
			want:    Account{Name: devAccountName, Key: devAccountKey, ServiceURL: devBlobEndpoint + "/"},
		},
		{
			name:    "development storage proxy",
			connStr: "UseDevelopmentStorage=true;DevelopmentStorageProxyUri=http://azurite:10000/",
			want:    Account{Name: devAccountName, Key: devAccountKey, ServiceURL: "http://azurite:10000/devstoreaccount1/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConnectionString(tt.connStr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseConnectionStringErrors(t *testing.T) {
	tests := map[string]string{
		"empty":             "",
		"missing key":       "AccountName=media",
		"missing name":      "AccountKey=c2VjcmV0",
		"malformed segment": "AccountName=media;garbage;AccountKey=c2VjcmV0",
		"sas only":          "BlobEndpoint=https://media.blob.core.windows.net/;SharedAccessSignature=sv=2022",
	}

	for name, connStr := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConnectionString(connStr)
			assert.Error(t, err)
		})
	}
}
