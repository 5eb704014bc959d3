// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for UKMHub.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, log
// level); AppConfig is everything specific to this application. The struct
// is passed to most lifecycle hooks, so any configuration needed during
// startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // secret key for signing session cookies
	SessionName   string        // cookie name (default: ukmhub-session)
	SessionDomain string        // cookie domain (blank means current host)
	SessionMaxAge time.Duration // how long a login survives

	// Timezone used for agenda classification and attendance day keys.
	Timezone string

	// UploadDir is where documentation files are stored on disk.
	UploadDir string

	// BaseURL is used to build the Google OAuth callback URL.
	BaseURL string

	// Google OAuth configuration (blank disables Google sign-in)
	GoogleClientID     string
	GoogleClientSecret string

	// SuperAdminEmail is promoted to (or created as) an admin on startup.
	SuperAdminEmail string
}
