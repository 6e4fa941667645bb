package scene

// A keyframe on an animation channel. Slopes are expressed in value units per
// second, as authored.
type Keyframe struct {
	Frame float32 `yaml:"frame"`
	Value float32 `yaml:"value"`

	// Outgoing slope; also used as the incoming slope when Tied is set.
	Slope float32 `yaml:"slope"`

	// Incoming slope for untied keys.
	InSlope float32 `yaml:"inSlope"`

	// True if the key defines slopes; otherwise both slopes are zero.
	SlopeSet bool `yaml:"slopeSet"`

	// True if the incoming and outgoing slopes are the same.
	Tied bool `yaml:"tied"`
}

// A single animated parameter (tx, ty, tz, rx, ry or rz) of an object.
type Channel struct {
	Name string     `yaml:"name"`
	Keys []Keyframe `yaml:"keys"`
}

// The animated channels of a single object.
type ChannelGroup struct {
	Name     string     `yaml:"name"`
	Channels []*Channel `yaml:"channels"`
}

// Keyframe animation tracks.
type Animation struct {
	FPS      float32         `yaml:"fps"`
	MaxFrame int             `yaml:"maxFrame"`
	Groups   []*ChannelGroup `yaml:"groups"`
}
