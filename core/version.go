package core

// Version is the library version reported in the User-Agent header.
// Override at build time with -ldflags "-X github.com/petal-labs/hfgo/core.Version=v1.2.3".
var Version = "0.1.0"

// UserAgent returns the User-Agent value sent with every request.
func UserAgent() string {
	return "hfgo/" + Version
}
