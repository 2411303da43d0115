package config

// Config holds everything a replay run needs. Values come from flags in
// cmd/roundreplay, with .env providing the defaults.
type Config struct {
	InputPath     string
	OutputTrack   string
	OutputVideo   string
	MapImage      string
	PanDuration   float64
	HoldDuration  float64
	ResetDuration float64
	MinZoom       float64
	LabelWidth    int
	FPS           int
	Width         int
	Height        int
	KeyframeStep  float64
	Addr          string
	AutoPlay      bool
	ShowQR        bool
	VideoEncoder  string
	Quality       int
	ShowStats     bool
	BuildVersion  string
}

// Default returns the stock playback timings: 1.2s pan, 3.0s hold per moment.
func Default() *Config {
	return &Config{
		PanDuration:   1.2,
		HoldDuration:  3.0,
		ResetDuration: 1.2,
		MinZoom:       0.1,
		LabelWidth:    80,
		FPS:           60,
		Width:         1280,
		Height:        720,
		KeyframeStep:  0.1,
		Addr:          ":8090",
		VideoEncoder:  "libx264",
		Quality:       23,
	}
}

// SegmentParams describes one encoded clip of a replay export.
type SegmentParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	Filter        string
}
