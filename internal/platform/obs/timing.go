package obs

import (
	"time"

	"github.com/rs/zerolog"
)

// Time measures an operation and logs its duration on return, attaching the
// error if the operation failed. Use as:
//
//	defer obs.Time(log, "ors.Geocode")(&err)
func Time(log zerolog.Logger, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Warn().Str("op", name).Dur("dur", dur).Err(*errp).Msg("operation failed")
			return
		}
		log.Debug().Str("op", name).Dur("dur", dur).Msg("operation complete")
	}
}
