package reveal

import "time"

// Config mirrors the options object of the client-side scroll reveal library.
// Durations are serialized in milliseconds.
type Config struct {
	Origin     string  `json:"origin"`
	Distance   string  `json:"distance"`
	Duration   int64   `json:"duration"`
	Delay      int64   `json:"delay"`
	Rotate     Rotate  `json:"rotate"`
	Opacity    float64 `json:"opacity"`
	Scale      float64 `json:"scale"`
	Easing     string  `json:"easing"`
	Mobile     bool    `json:"mobile"`
	Reset      bool    `json:"reset"`
	UseDelay   string  `json:"useDelay"`
	ViewFactor float64 `json:"viewFactor"`
	ViewOffset Offset  `json:"viewOffset"`
}

type Rotate struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

type Offset struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// DefaultDelay is the delay of elements registered without a stagger.
const DefaultDelay = 200 * time.Millisecond

// DefaultConfig is a fade-up from 20px below over half a second.
func DefaultConfig() Config {
	return Delayed(DefaultDelay)
}

// Delayed returns the default config with the given delay.
func Delayed(d time.Duration) Config {
	return Config{
		Origin:     "bottom",
		Distance:   "20px",
		Duration:   500,
		Delay:      d.Milliseconds(),
		Opacity:    0,
		Scale:      1,
		Easing:     "cubic-bezier(0.645, 0.045, 0.355, 1)",
		Mobile:     true,
		Reset:      false,
		UseDelay:   "always",
		ViewFactor: 0.25,
	}
}

// CardConfig staggers cards by index.
func CardConfig(index int) Config {
	return Delayed(time.Duration(index) * Stagger)
}
