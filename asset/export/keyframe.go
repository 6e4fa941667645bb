package export

import (
	"fmt"
	"math"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/asset/scene"
	"github.com/chewxy/math32"
)

// Channel attribute bits.
const (
	ChannelTX uint16 = 1 << iota
	ChannelTY
	ChannelTZ
	ChannelRX
	ChannelRY
	ChannelRZ
)

var channelAttrs = map[string]uint16{
	"tx": ChannelTX,
	"ty": ChannelTY,
	"tz": ChannelTZ,
	"rx": ChannelRX,
	"ry": ChannelRY,
	"rz": ChannelRZ,
}

const rotationChannels = ChannelRX | ChannelRY | ChannelRZ

type key struct {
	val    float32
	lslope float32
	rslope float32
}

type channel struct {
	attr   uint16
	frames []uint16
	keys   []key
}

type channelGroup struct {
	name     string
	attr     uint16
	channels []*channel
}

// Emits the animation tracks. Channel values are stored per key together
// with the incoming and outgoing slopes scaled to the neighbouring frame
// gaps; rotations are converted to radians.
type keyframeExporter struct{}

func (keyframeExporter) Kind() string { return "kfr" }
func (keyframeExporter) Ext() string  { return "kfr" }

func (e keyframeExporter) Export(ctx *Context, sc *scene.Scene) (*binfile.Writer, error) {
	anim := sc.Anim
	if anim == nil {
		return nil, ErrNothingToExport
	}
	if anim.FPS <= 0 {
		return nil, fmt.Errorf("kfr: invalid frame rate %v", anim.FPS)
	}
	if anim.MaxFrame > math.MaxInt16 {
		return nil, fmt.Errorf("kfr: max frame %d does not fit in 16 bits", anim.MaxFrame)
	}

	var groups []*channelGroup
	for _, g := range anim.Groups {
		grp, err := e.buildGroup(anim, g)
		if err != nil {
			return nil, err
		}
		if len(grp.channels) > 0 {
			groups = append(groups, grp)
		}
	}
	if len(groups) == 0 {
		return nil, ErrNothingToExport
	}

	w := binfile.NewWriter()
	w.WriteTag("KFR")
	w.WriteI16(int16(anim.MaxFrame))
	w.WriteI16(int16(len(groups)))
	grpTblPos := w.Pos()
	for range groups {
		w.Reserve()
	}

	namePos := make([]int, len(groups))
	for i, grp := range groups {
		namePos[i] = w.Pos()
		w.PatchCur(grpTblPos + i*4)

		w.Reserve() // -> name
		w.WriteU16(grp.attr)
		w.WriteU16(uint16(len(grp.channels)))
		chanTblPos := w.Pos()
		for range grp.channels {
			w.Reserve()
		}

		for j, ch := range grp.channels {
			w.PatchCur(chanTblPos + j*4)
			w.WriteU16(ch.attr)
			w.WriteU16(uint16(len(ch.frames)))
			for _, frame := range ch.frames {
				w.WriteU16(frame)
			}
			w.Align(4)
			for _, k := range ch.keys {
				w.WriteFV(k.val, k.lslope, k.rslope)
			}
		}
	}

	for i, grp := range groups {
		w.PatchCur(namePos[i])
		w.WriteString(grp.name)
	}

	return w, nil
}

// Collect the channels of g that have keys within the animation range. The
// group attribute mask covers all channels, including empty ones.
func (e keyframeExporter) buildGroup(anim *scene.Animation, g *scene.ChannelGroup) (*channelGroup, error) {
	grp := &channelGroup{name: g.Name}
	for _, ch := range g.Channels {
		attr, ok := channelAttrs[ch.Name]
		if !ok {
			return nil, fmt.Errorf("kfr: group %q: unsupported channel %q", g.Name, ch.Name)
		}
		grp.attr |= attr

		if out := buildChannel(anim, attr, ch.Keys); len(out.frames) > 0 {
			grp.channels = append(grp.channels, out)
		}
	}
	return grp, nil
}

func buildChannel(anim *scene.Animation, attr uint16, keys []scene.Keyframe) *channel {
	ch := &channel{attr: attr}
	isRotation := attr&rotationChannels != 0
	maxFrame := float32(anim.MaxFrame)

	for i, k := range keys {
		if k.Frame > maxFrame {
			continue
		}

		val := k.Value
		if isRotation {
			val = degToRad(val)
		}

		var lslope, rslope float32
		if k.SlopeSet {
			if !k.Tied {
				lslope = k.InSlope
			} else {
				lslope = k.Slope
			}
			rslope = k.Slope
			if isRotation {
				lslope = degToRad(lslope)
				rslope = degToRad(rslope)
			}
			lslope /= anim.FPS
			rslope /= anim.FPS
		}

		if i == 0 {
			lslope = 0
		} else {
			lslope *= k.Frame - keys[i-1].Frame
		}
		if i == len(keys)-1 {
			rslope = 0
		} else {
			rslope *= keys[i+1].Frame - k.Frame
		}

		ch.frames = append(ch.frames, uint16(int(k.Frame)))
		ch.keys = append(ch.keys, key{val: val, lslope: lslope, rslope: rslope})
	}
	return ch
}

func degToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}
