package reader

import (
	"errors"
	"fmt"
	"io"

	"github.com/achilleasa/assetpack/asset"
	"github.com/achilleasa/assetpack/asset/scene"
	"gopkg.in/yaml.v3"
)

// Frame rate used when the track file does not specify one.
const DefaultFPS float32 = 24

var channelNames = map[string]bool{
	"tx": true, "ty": true, "tz": true,
	"rx": true, "ry": true, "rz": true,
}

// Decode and validate animation tracks.
func readAnimation(res *asset.Resource) (*scene.Animation, error) {
	dec := yaml.NewDecoder(res)
	dec.KnownFields(true)

	anim := &scene.Animation{}
	if err := dec.Decode(anim); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("anim: could not parse %q: %w", res.Path(), err)
	}

	if anim.FPS < 0 {
		return nil, fmt.Errorf("anim: %q: invalid fps %v", res.Path(), anim.FPS)
	} else if anim.FPS == 0 {
		anim.FPS = DefaultFPS
	}

	lastFrame := 0
	for _, group := range anim.Groups {
		if group.Name == "" {
			return nil, fmt.Errorf("anim: %q: channel group without a name", res.Path())
		}
		for _, ch := range group.Channels {
			if !channelNames[ch.Name] {
				return nil, fmt.Errorf("anim: %q: group %q: unsupported channel %q", res.Path(), group.Name, ch.Name)
			}
			for i, key := range ch.Keys {
				if i > 0 && key.Frame <= ch.Keys[i-1].Frame {
					return nil, fmt.Errorf("anim: %q: channel %s/%s: key frames must be strictly increasing", res.Path(), group.Name, ch.Name)
				}
				if int(key.Frame) > lastFrame {
					lastFrame = int(key.Frame)
				}
			}
		}
	}

	if anim.MaxFrame <= 0 {
		anim.MaxFrame = lastFrame
	}
	return anim, nil
}
