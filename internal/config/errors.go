package config

import "github.com/ayoisaiah/upright/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errParseDuration = &apperr.Error{
		Message: "invalid duration for %s: %s",
	}

	errInvalidCLIDuration = &apperr.Error{
		Message: "invalid %s duration",
	}

	errInvalidSoundFormat = &apperr.Error{
		Message: "invalid sound file format: %s (must be mp3, ogg, flac, or wav)",
	}

	errSoundNotFound = &apperr.Error{
		Message: "sound file not found: %s",
	}

	errInvalidDuration = &apperr.Error{
		Message: "%s must be between %v and %v",
	}

	errInvalidWindowSize = &apperr.Error{
		Message: "window size must be between %d and %d samples",
	}

	errInvalidMotion = &apperr.Error{
		Message: "motion threshold must be positive and the motion window at least 1 frame",
	}

	errUnknownDriver = &apperr.Error{
		Message: "unknown storage driver %q (must be bolt or sqlite)",
	}

	errUnknownFormat = &apperr.Error{
		Message: "unknown export format %q (must be csv, xlsx or json)",
	}

	errInvalidPort = &apperr.Error{
		Message: "stats port must be between 1 and 65535",
	}

	errInvalidDateRange = &apperr.Error{
		Message: "the start time must be earlier than the end time",
	}

	errInvalidPeriod = &apperr.Error{
		Message: "please provide a valid time period",
	}

	errInvalidDate = &apperr.Error{
		Message: "please provide a valid %s date",
	}
)
