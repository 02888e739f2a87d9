// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// version.go — release stamp of the SDK and the paidy-wire CLI, set at
// link time.

package paidy

// Release stamp, overridden with -ldflags at build time. The defaults mark
// a local build.
//
//	BuildDate : YYYY.MM.DD-HHMM (UTC, 24-hour)
//	BuildEnv  : dev | qa | prod
var (
	// go build -ldflags "-X 'github.com/AndrewDonelson/paidy.BuildDate=2026.10.18-0930'"
	BuildDate = "0000.00.00-0000"

	// go build -ldflags "-X 'github.com/AndrewDonelson/paidy.BuildEnv=prod'"
	BuildEnv = "dev"
)

// Version reports the stamp as "BuildDate-BuildEnv", for example
// "2026.10.18-0930-prod".
func Version() string {
	return BuildDate + "-" + BuildEnv
}
