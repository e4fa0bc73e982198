package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Cycle/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Cycle"
	AppID             = "com.github.tartampluch.go-cycle"
	CommandName       = "go-cycle"
	KeyringService    = "com.github.tartampluch.go-cycle"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	SettingsFileName  = "settings.yaml"
	DatabaseFileName  = "cycle.db"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess      = 0
	ExitCodeError        = 1
	ExitCodeCommandError = 2
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs, settings and the database.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagDebug    = "debug"
	FlagConfig   = "config"
	FlagDB       = "db"
	FlagLang     = "lang"
	FlagToday    = "today"
	FlagFormat   = "format"
	FlagCount    = "count"
	FlagMonth    = "month"
	FlagSelect   = "select"
	FlagOut      = "out"
	FlagPort     = "port"
	FlagPassword = "password"

	FlagDescDebug    = "Enable debug logging"
	FlagDescConfig   = "Path to the settings file"
	FlagDescDB       = "Path to the SQLite database"
	FlagDescLang     = "Interface language (en, fr)"
	FlagDescToday    = "Override today's date (YYYY-MM-DD)"
	FlagDescFormat   = "Output format (text|json)"
	FlagDescCount    = "Number of predicted periods"
	FlagDescMonth    = "Month to display (YYYY-MM)"
	FlagDescSelect   = "Highlight a selected date (YYYY-MM-DD)"
	FlagDescOut      = "Write the feed to a file instead of stdout"
	FlagDescPort     = "Override the server port"
	FlagDescPassword = "Store the import source password in the OS keyring"

	FormatText = "text"
	FormatJSON = "json"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// ValidFormats lists the accepted --format values.
var ValidFormats = []string{FormatText, FormatJSON}

// -----------------------------------------------------------------------------
// Settings Keys (YAML)
// -----------------------------------------------------------------------------

// Keys of the settings that normalization may reset.
const (
	PrefLanguage      = "language"
	PrefServerPort    = "server_port"
	PrefInterval      = "refresh_interval_min"
	PrefSourceMode    = "source_mode"
	PrefReminderValue = "reminder_value"
	PrefReminderUnit  = "reminder_unit"
	PrefReminderDir   = "reminder_direction"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Cycle Defaults
// -----------------------------------------------------------------------------

const (
	// DefaultCycleLength is used when fewer than two periods are logged.
	DefaultCycleLength = 28

	// DefaultPeriodLength is used when no completed period is logged.
	DefaultPeriodLength = 5

	// PredictionHorizon is the number of upcoming windows shown on the calendar
	// and in the statistics view.
	PredictionHorizon = 3

	// HistoryLimit caps the number of past periods listed in insights.
	HistoryLimit = 10

	// StorageKey is the single key under which the entry collection is persisted.
	StorageKey = "@period_tracker_data"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyDaysUntil       = "days_until_next_period"
	TKeyNoData          = "no_data"
	TKeyStatistics      = "title_statistics"
	TKeyPredictions     = "title_predictions"
	TKeyHistory         = "title_history"
	TKeyLegend          = "title_legend"
	TKeyAvgCycle        = "stat_avg_cycle"
	TKeyAvgPeriod       = "stat_avg_period"
	TKeyDaysSince       = "stat_days_since"
	TKeyTotalLogged     = "stat_total_logged"
	TKeyUnitDays        = "unit_days"
	TKeyPeriodN         = "prediction_period_n" // Requires Index
	TKeyInDays          = "prediction_in_days"  // Requires Count
	TKeyHistoryLength   = "history_length"      // Requires Count
	TKeyHistoryTo       = "history_to"          // Requires Date
	TKeyLegendPeriod    = "legend_period"
	TKeyLegendPredicted = "legend_predicted"
	TKeyLegendToday     = "legend_today"
	TKeyLogged          = "msg_day_logged"  // Requires Date
	TKeyRemoved         = "msg_day_removed" // Requires Date
	TKeySaveFailed      = "msg_save_failed"
	TKeyImported        = "msg_imported" // Requires Count
	TKeyEvtLogged       = "event_summary_logged"
	TKeyEvtPredicted    = "event_summary_predicted" // Requires Index
	TKeyFormatDate      = "format_date_long"
	TKeyWeekdays        = "weekdays_short"
	TKeyMonthNames      = "month_names"
	TKeyEmptyInsights   = "msg_empty_insights"
	TKeyPasswordStored  = "msg_password_stored"
	TKeyServerListening = "msg_server_listening" // Requires Port
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeNone       = ""
	SourceModeWeb        = "web"
	SourceModeLocal      = "local"
	DefaultPort          = "18081"
	DefaultRefreshMin    = 60
	DefaultLanguage      = "en"
	DefaultReminderValue = 1
	UIDSalt              = "go-cycle-v1-" // Salt for deterministic predicted-event UIDs
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Cycle//Engine//EN"
	ICalCalName   = "Cycle"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gocycle"
	ICalCategory  = "PERIOD"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropCategories  = "CATEGORIES"
	PropTransp      = "TRANSP"

	TranspTransparent = "TRANSPARENT"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// DateFormat is the canonical calendar-date layout used for storage and keys.
	DateFormat  = "2006-01-02"
	MonthFormat = "2006-01"

	UIDHashLength   = 16
	FormatHashInput = "%s|%s"
	FormatUID       = "%s@%s"
	FormatPredUID   = "pred-%s@%s"
	PredUIDPrefix   = "pred-"
	UIDSeparator    = "@"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteInsights       = "/insights"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	MimeHTML            = "text/html"
	AcceptCalendar      = "text/calendar, text/plain;q=0.8, */*;q=0.1"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty  = "configuration error: local path is empty"
	ErrWebURLEmpty     = "configuration error: web URL is empty"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrModeUnsupport   = "configuration error: unsupported source mode"
	ErrSourceMissing   = "configuration error: no import source configured"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrFetchRequest    = "failed to create request"
	ErrFetchNetwork    = "network error during fetch"
	ErrFetchStatus     = "server returned unexpected status"
	ErrNotCalendar     = "source returned a web page instead of calendar data"
	ErrICalParse       = "failed to parse iCalendar stream"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrMonthParse      = "unable to parse month"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrConfigDir       = "could not determine user config dir"
	ErrCreateDir       = "could not create app directory"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrSettingsRead    = "failed to read settings file"
	ErrSettingsParse   = "failed to parse settings file"
	ErrSettingsWrite   = "failed to write settings file"
	ErrStoreOpen       = "failed to open storage"
	ErrStoreSchema     = "failed to prepare storage schema"
	ErrStoreRead       = "failed to read storage key"
	ErrStoreWrite      = "failed to write storage key"
	ErrStoreDecode     = "failed to decode stored entries"
	ErrStoreEncode     = "failed to encode entries"
	ErrStoreClose      = "failed to close storage"
	ErrInvalidFormat   = "invalid output format"
	ErrInvalidCount    = "prediction count must be positive"
	ErrKeyring         = "failed to access OS keyring"
	ErrUsernameMissing = "configuration error: username is required to store a password"
	ErrFeedBuild       = "failed to build calendar feed"
	ErrInsightsEncode  = "failed to encode insights"
	ErrFileWrite       = "failed to write output file"
	ErrPromptRead      = "failed to read password"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummaryLogged    = "Period"
	FallbackSummaryPredicted = "Predicted period %d"

	// StubVCalendar is the minimal valid iCalendar object used when there is nothing to publish.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgRefreshReq     = "Feed refresh requested"
	MsgRefreshFailed  = "Feed refresh failed"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgAppStop        = "Application stopped gracefully"
	MsgSkippedEvent   = "Skipping malformed calendar event"
	MsgImportStarted  = "Import started"
	MsgImportDone     = "Import finished"
	MsgImportFailed   = "Import failed"
	MsgFeedSuccess    = "Calendar feed generation successful"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgEntriesLoaded  = "Entries loaded"
	MsgEntriesSaved   = "Entries saved"
	MsgLoadFailed     = "Loading entries failed, continuing with empty history"
	MsgSaveFailed     = "Saving entries failed"
	MsgSettingsAbsent = "Settings file not found, using defaults"
	MsgDayLogged      = "Period day logged"
	MsgDayRemoved     = "Period day removed"
	MsgPasswordStored = "Import password stored in keyring"
	MsgSettingReset   = "Invalid setting replaced with default"
	MsgCommandStart   = "Running command"
	MsgFetchStart     = "Downloading calendar"
	MsgFetchStatus    = "Calendar source returned error status"
	MsgFetchDone      = "Calendar source responded"
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent   = "component"
	LogKeyError       = "error"
	LogKeyURL         = "url"
	LogKeyStatus      = "status_code"
	LogKeyFile        = "file"
	LogKeyPath        = "path"
	LogKeyLang        = "lang"
	LogKeyKey         = "key"
	LogKeyPort        = "port"
	LogKeyMode        = "mode"
	LogKeyInterval    = "interval"
	LogKeyUser        = "user"
	LogKeyCount       = "count"
	LogKeyLogged      = "periods_logged"
	LogKeyPredicted   = "periods_predicted"
	LogKeyImported    = "periods_imported"
	LogKeySizeBytes   = "size_bytes"
	LogKeyETag        = "etag"
	LogKeyRoute       = "route"
	LogKeyValue       = "value"
	LogKeyStats       = "stats"
	LogKeyDate        = "date"
	LogKeyDuration    = "duration_ms"
	LogKeyCommand     = "command"
	LogKeyContentType = "content_type"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompCLI      = "cli"
	CompEngine   = "engine"
	CompImporter = "importer"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompStorage  = "storage"
	CompSettings = "settings"
	CompWorker   = "worker"
	CompMain     = "main"
	CompI18n     = "i18n"
)
