// Package timezone renders timestamps in the application timezone.
//
// The timezone is configured via the APP_TIMEZONE environment variable and
// installed once at start-up:
//
//	timezone.Init(cfg)
//	formatted := timezone.Format(deadline, constant.DateFormat)
//
// Use standard IANA timezone names such as "UTC" or "Asia/Jakarta". Until
// Init runs, or when the configured name cannot be loaded, UTC is used.
package timezone
