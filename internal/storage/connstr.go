package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Azurite's published development account.
const (
	devAccountName  = "devstoreaccount1"
	devAccountKey   = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
	devBlobEndpoint = "http://127.0.0.1:10000/devstoreaccount1"
)

// Account is the subset of a storage connection string the adapter uses.
type Account struct {
	Name       string
	Key        string
	ServiceURL string
}

// ParseConnectionString extracts the account name, key and blob service URL from
// an Azure storage connection string of the form "Key1=Value1;Key2=Value2".
// "UseDevelopmentStorage=true" resolves to the local Azurite account. An account
// key is required because read tokens are signed locally with it.
func ParseConnectionString(connStr string) (Account, error) {
	settings := make(map[string]string)
	for _, pair := range strings.Split(connStr, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return Account{}, fmt.Errorf("malformed connection string segment %q", key)
		}
		settings[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	if strings.EqualFold(settings["usedevelopmentstorage"], "true") {
		endpoint := devBlobEndpoint
		if proxy := settings["developmentstorageproxyuri"]; proxy != "" {
			endpoint = strings.TrimRight(proxy, "/") + "/" + devAccountName
		}
		return Account{Name: devAccountName, Key: devAccountKey, ServiceURL: endpoint + "/"}, nil
	}

	acct := Account{
		Name: settings["accountname"],
		Key:  settings["accountkey"],
	}
	if acct.Name == "" {
		return Account{}, errors.New("connection string is missing AccountName")
	}
	if acct.Key == "" {
		return Account{}, errors.New("connection string is missing AccountKey")
	}

	if endpoint := settings["blobendpoint"]; endpoint != "" {
		acct.ServiceURL = strings.TrimRight(endpoint, "/") + "/"
		return acct, nil
	}

	protocol := settings["defaultendpointsprotocol"]
	if protocol == "" {
		protocol = "https"
	}
	suffix := settings["endpointsuffix"]
	if suffix == "" {
		suffix = "core.windows.net"
	}
	acct.ServiceURL = fmt.Sprintf("%s://%s.blob.%s/", protocol, acct.Name, suffix)
	return acct, nil
}
