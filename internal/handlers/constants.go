package handlers

// Auth rate limiting
const (
	// AuthRateLimitPerMinute caps signup/login attempts per client IP
	// (spec §6: auth routes carry their own stricter limiter than the
	// general API limiter).
	AuthRateLimitPerMinute = 10
)

// Submitted-code limits
const (
	// MaxSourceCodeBytes bounds the code field of an analyze request; the
	// sandbox and the AI provider both have their own much larger implicit
	// ceilings, but a request-level cap keeps a single bad actor from
	// forcing a multi-megabyte blob write and a correspondingly large
	// prompt.
	MaxSourceCodeBytes = 256 * 1024
)
