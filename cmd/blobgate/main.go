//	@title			blobgate API
//	@version		1.0
//	@description	HTTP gateway for file upload, download, delete, list and signed read URLs on an Azure Blob Storage account.
//
//	@BasePath	/

package main

import (
	"github.com/asad/blobgate/internal/cli"
)

// main is the entry point for the blobgate application.
// It delegates to the CLI package which handles command parsing and execution.
func main() {
	cli.Execute()
}
