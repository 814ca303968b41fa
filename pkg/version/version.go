// Package version provides version information for trackresp
package version

// Version is the current version of the trackresp library
const Version = "0.3.0"

// GetVersion returns the current version of the library
func GetVersion() string {
	return Version
}
