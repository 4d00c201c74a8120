// BactoCloud Downloader - CLI tool for downloading measurements from the
// BactoCloud API to local folders.
package main

import (
	"os"

	"github.com/ashajkofci/bactocloud-downloader/internal/cli"
	"github.com/ashajkofci/bactocloud-downloader/internal/version"
)

// Version information, overridden at build time via ldflags:
//
//	go build -ldflags "-X main.Version=v1.2.0 -X main.BuildTime=2026-08-25"
var (
	Version   = "v1.0.0-dev"
	BuildTime = "unknown"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
