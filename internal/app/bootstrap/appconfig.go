// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds LumenHub-specific configuration loaded via WAFFLE's
// config system. Core HTTP/server settings live in config.CoreConfig.
type AppConfig struct {
	// MongoDB
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Sessions
	SessionKey    string
	SessionName   string
	SessionDomain string

	// Base URL for OAuth redirects
	BaseURL string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
}
