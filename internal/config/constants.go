package config

import "time"

const (
	// Extraction
	ExtractMaxContentLength = 10000
	ExtractMinCandidateLen  = 100
	FetchUserAgent          = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// Per-user AI config defaults and bounds
	DefaultLanguage         = "en"
	DefaultMaxContentLength = 10000
	MinMaxContentLength     = 1000
	MaxMaxContentLength     = 50000
	DefaultEnableCaching    = true
	DefaultCacheExpiration  = 3600
	MinCacheExpiration      = 300
	MaxCacheExpiration      = 86400

	// Read-side cache freshness
	CacheFreshness = 24 * time.Hour

	// Narration
	NarrationMaxLength = 2000
	WordsPerMinute     = 150
	VoiceCacheDuration = 1 * time.Hour
	AudioFileExt       = ".mp3"
	AudioOutputFormat  = "mp3_44100_128"

	// Upstream timeouts. AnalysisTimeout bounds a whole pipeline run.
	RequestTimeout  = 90 * time.Second
	AnalysisTimeout = 4 * time.Minute

	// History
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100

	// Telegram limits
	MaxTelegramMessageLen = 4096
)
