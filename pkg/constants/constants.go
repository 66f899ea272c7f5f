// Package constants provides shared constants used throughout the campaigner
// codebase: timeouts, intervals, limits, endpoint paths and storage keys.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the backend
	DefaultHTTPTimeout = 30 * time.Second

	// UploadTimeout bounds a multipart media upload
	UploadTimeout = 5 * time.Minute

	// StrategyTimeout bounds strategy generation, which is slow on the backend
	StrategyTimeout = 3 * time.Minute

	// LoginTimeout bounds the whole OAuth handshake
	LoginTimeout = 10 * time.Minute

	// ShutdownTimeout is given to graceful shutdown after a failed command
	ShutdownTimeout = 5 * time.Second
)

// Interval constants for the cosmetic timers
const (
	// PlaceholderInterval is how often the input placeholder rotates
	PlaceholderInterval = 3 * time.Second

	// TypingInterval is the delay between revealed characters of a typed message
	TypingInterval = 30 * time.Millisecond

	// PopupPollInterval is how often the login popup is checked for closure
	PopupPollInterval = 500 * time.Millisecond
)

// Limit constants
const (
	// MaxMediaItems is the maximum number of media items per ad
	MaxMediaItems = 10

	// MaxStrategyAds is the maximum number of ad variants built from a strategy
	MaxStrategyAds = 3

	// PopupWidth and PopupHeight are the login window geometry hints
	PopupWidth  = 600
	PopupHeight = 700
)

// Backend endpoint paths
const (
	PathChat           = "/chat"
	PathStrategyChat   = "/chat/strategy"
	PathBriefAndMedia  = "/chat/strategy/brief_and_media"
	PathAds            = "/ads"
	PathMessages       = "/messages"
	PathCampaignSave   = "/campaign/save"
	PathFacebookLogin  = "/auth/facebook/login"
	PathMediaProxy     = "/media/proxy"
	PathContactDetails = "/api/users/contact-details"
)

// Storage keys
const (
	KeyAuthToken      = "auth_token"
	KeyRefreshToken   = "refresh_token"
	KeyTokenExpiresAt = "token_expires_at"

	KeyFacebookAccessToken  = "facebook_access_token"
	KeyFacebookRefreshToken = "facebook_refresh_token"
	KeyFacebookExpiresAt    = "facebook_token_expires_at"

	KeyTikTokAccessToken = "tiktok_access_token"
	KeyTikTokExpiresAt   = "tiktok_token_expires_at"
	KeyTikTokAuthToken   = "tiktok_auth_token"

	// KeyConversation holds the persisted conversation snapshot
	KeyConversation = "campaigner.conversation"
)

// AuthKeys lists every credential key cleared before a new login is stored.
var AuthKeys = []string{
	KeyAuthToken,
	KeyRefreshToken,
	KeyTokenExpiresAt,
	KeyFacebookAccessToken,
	KeyFacebookRefreshToken,
	KeyFacebookExpiresAt,
	KeyTikTokAccessToken,
	KeyTikTokExpiresAt,
	KeyTikTokAuthToken,
}

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for the state file holding tokens (rw-------)
	SecureFilePermissions = 0600
)

// DefaultAPIURL is the backend used when nothing is configured.
const DefaultAPIURL = "http://localhost:8000"

// AppPath is where a successful login navigates to.
const AppPath = "/app"
