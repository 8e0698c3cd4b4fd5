// Package version carries the identifiers the relay reports about itself
// in logs and the NIP-11 information document.
package version

var (
	// Name is the application name.
	Name = "lantern"
	// V is the semantic version of this build.
	V = "v0.4.2"
	// URL identifies the software in the NIP-11 document.
	URL = "https://lantern.dev"
	// Description is the default NIP-11 description.
	Description = "an event store and pub/sub broker speaking the nostr wire protocol"
)
