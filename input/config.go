package input

import "time"

// Config holds tunables for a System and its devices.
type Config struct {
	PressThreshold float64       `yaml:"press_threshold"`
	Debug          bool          `yaml:"debug"`
	Touch          TouchConfig   `yaml:"touch"`
	Gamepad        GamepadConfig `yaml:"gamepad"`
}

// TouchConfig tunes swipe and tap detection. Distances are in pixels.
type TouchConfig struct {
	SwipeThreshold float64       `yaml:"swipe_threshold"`
	TapThreshold   float64       `yaml:"tap_threshold"`
	TapMaxDuration time.Duration `yaml:"tap_max_duration"`
}

// GamepadConfig selects a pad and its stick deadzone.
type GamepadConfig struct {
	Index    int     `yaml:"index"`
	Deadzone float64 `yaml:"deadzone"`
}

func DefaultConfig() Config {
	return Config{
		PressThreshold: DefaultPressThreshold,
		Touch:          DefaultTouchConfig(),
		Gamepad:        DefaultGamepadConfig(),
	}
}

func DefaultTouchConfig() TouchConfig {
	return TouchConfig{
		SwipeThreshold: 30,
		TapThreshold:   10,
		TapMaxDuration: 250 * time.Millisecond,
	}
}

func DefaultGamepadConfig() GamepadConfig {
	return GamepadConfig{Deadzone: 0.2}
}

// withDefaults fills zero fields from the defaults.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PressThreshold == 0 {
		c.PressThreshold = def.PressThreshold
	}
	if c.Touch.SwipeThreshold == 0 {
		c.Touch.SwipeThreshold = def.Touch.SwipeThreshold
	}
	if c.Touch.TapThreshold == 0 {
		c.Touch.TapThreshold = def.Touch.TapThreshold
	}
	if c.Touch.TapMaxDuration == 0 {
		c.Touch.TapMaxDuration = def.Touch.TapMaxDuration
	}
	if c.Gamepad.Deadzone == 0 {
		c.Gamepad.Deadzone = def.Gamepad.Deadzone
	}
	return c
}
