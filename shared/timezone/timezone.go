package timezone

import (
	"sync/atomic"
	"time"

	"conroom/config"

	"github.com/rs/zerolog/log"
)

var appLocation atomic.Pointer[time.Location]

// Init loads the configured timezone. It falls back to UTC when none is
// configured or the name is unknown.
func Init(cfg *config.Config) {
	name := cfg.App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		appLocation.Store(time.UTC)

		return
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Asia/Jakarta', 'UTC', 'America/New_York'")
		appLocation.Store(time.UTC)

		return
	}

	appLocation.Store(loc)
	log.Info().
		Str("timezone", name).
		Str("location", loc.String()).
		Msg("Application timezone initialized")
}

// GetLocation returns the current application timezone location.
func GetLocation() *time.Location {
	if loc := appLocation.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

// ToAppTime converts a time to the application timezone.
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Format formats a time in the application timezone.
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
