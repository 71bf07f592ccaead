package config

const (
	DefaultTimezone    = "Asia/Phnom_Penh"
	DefaultPort        = "3000"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultPollTimeout = 30 // seconds, Telegram long polling
	DefaultEnvFile     = ".env"
)

// Environment variable names.
const (
	EnvToken           = "BOT_TOKEN"
	EnvCommunityChatID = "COMMUNITY_CHAT_ID"
	EnvTopicGroupID    = "TOPIC_GROUP_ID"
	EnvTopicThreadID   = "TOPIC_THREAD_ID"
	EnvTimezone        = "TIMEZONE"
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvContentFile     = "CONTENT_FILE"
	EnvPollTimeout     = "POLL_TIMEOUT"
)
