// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds murshid-specific configuration.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, body limits). Everything specific to this dashboard lives
// here: where the tracking service is, how the local MongoDB is
// reached, and the knobs for sessions, rate limiting, and the roster
// poller.
type AppConfig struct {
	// Tracking service (the remote data plane)
	APIBaseURL string        // e.g. https://api.tracking.example.com/api/v1
	APITimeout time.Duration // outbound HTTP timeout per request

	// Local MongoDB (session records and the admin audit trail)
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session cookies
	SessionKey    string // signing key, must be strong in production
	SessionName   string // cookie name
	SessionDomain string // blank means current host

	// Roster reconciler
	RosterPollInterval time.Duration // background sync period per open group view
	RosterIdleAfter    time.Duration // untouched views are dropped after this

	// Login rate limiting
	LoginIPLimit     int
	LoginIPWindow    time.Duration
	LoginEmailLimit  int
	LoginEmailWindow time.Duration

	// Session record hygiene
	SessionCleanupInterval time.Duration // how often the cleanup worker runs
	SessionInactiveAfter   time.Duration // open records idle past this are closed
}
