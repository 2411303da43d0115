package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv
const EnvPrefix = "ROUNDREPLAY_"

// ApplyEnv overrides c with ROUNDREPLAY_* variables found through lookup
// (os.LookupEnv after godotenv has loaded .env). Flags parsed afterwards
// still win.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"INPUT":   &c.InputPath,
		"MAP":     &c.MapImage,
		"TRACK":   &c.OutputTrack,
		"VIDEO":   &c.OutputVideo,
		"ADDR":    &c.Addr,
		"ENCODER": &c.VideoEncoder,
		"BUILD":   &c.BuildVersion,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	floats := map[string]*float64{
		"PAN":           &c.PanDuration,
		"HOLD":          &c.HoldDuration,
		"RESET":         &c.ResetDuration,
		"MIN_ZOOM":      &c.MinZoom,
		"KEYFRAME_STEP": &c.KeyframeStep,
	}
	for key, dst := range floats {
		if v, ok := lookup(EnvPrefix + key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = f
		}
	}

	ints := map[string]*int{
		"FPS":         &c.FPS,
		"WIDTH":       &c.Width,
		"HEIGHT":      &c.Height,
		"QUALITY":     &c.Quality,
		"LABEL_WIDTH": &c.LabelWidth,
	}
	for key, dst := range ints {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"AUTOPLAY": &c.AutoPlay,
		"QR":       &c.ShowQR,
		"STATS":    &c.ShowStats,
	}
	for key, dst := range bools {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = b
		}
	}

	return nil
}
