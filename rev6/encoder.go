package rev6

import (
	"io"
	"math"

	"github.com/anaminus/parse"
	"github.com/msmtools/msmbin"
	"github.com/msmtools/msmbin/errors"
)

// Encoder encodes a msmbin.BinAnim as a rev 6 container.
type Encoder struct{}

// Encode writes the binary form of anim to w. Writing mirrors reading field
// for field; a clone-layer table is written only when non-empty, so files
// that decoded without one re-save byte-identical.
func (Encoder) Encode(w io.Writer, anim *msmbin.BinAnim) (err error) {
	if w == nil {
		return errors.New("nil writer")
	}
	if anim == nil {
		return errors.New("nil animation")
	}
	fw := parse.NewBinaryWriter(w)
	e := encoder{fw}
	e.binAnim(anim)
	_, err = fw.End()
	return err
}

type encoder struct {
	fw *parse.BinaryWriter
}

// string writes a length-prefixed string, zero-padding the payload to a
// 4-byte boundary.
func (e encoder) string(s string) (failed bool) {
	if e.fw.Number(uint32(len(s))) {
		return true
	}
	if e.fw.Bytes([]byte(s)) {
		return true
	}
	if pad := (4 - len(s)%4) % 4; pad > 0 {
		return e.fw.Bytes(make([]byte, pad))
	}
	return false
}

func (e encoder) f32(f float32) (failed bool) {
	return e.fw.Number(math.Float32bits(f))
}

func (e encoder) immediate(i msmbin.Immediate) (failed bool) {
	return e.fw.Number(int8(i))
}

func (e encoder) binAnim(a *msmbin.BinAnim) (failed bool) {
	if e.fw.Number(uint32(len(a.Sources))) {
		return true
	}
	for i := range a.Sources {
		if e.source(&a.Sources[i]) {
			return true
		}
	}
	if e.fw.Number(uint32(len(a.Anims))) {
		return true
	}
	for i := range a.Anims {
		if e.animation(&a.Anims[i]) {
			return true
		}
	}
	return false
}

func (e encoder) source(s *msmbin.Source) (failed bool) {
	if e.string(s.Src) {
		return true
	}
	if e.fw.Number(s.ID) {
		return true
	}
	if e.fw.Number(s.Width) {
		return true
	}
	return e.fw.Number(s.Height)
}

func (e encoder) animation(a *msmbin.Animation) (failed bool) {
	if e.string(a.Name) {
		return true
	}
	if e.fw.Number(a.Width) {
		return true
	}
	if e.fw.Number(a.Height) {
		return true
	}
	if e.f32(a.LoopOffset) {
		return true
	}
	if e.fw.Number(a.Centered) {
		return true
	}
	if e.fw.Number(uint32(len(a.Layers))) {
		return true
	}
	for i := range a.Layers {
		if e.layer(&a.Layers[i]) {
			return true
		}
	}
	if len(a.CloneLayers) > 0 {
		if e.fw.Number(uint32(len(a.CloneLayers))) {
			return true
		}
		for i := range a.CloneLayers {
			if e.cloneLayer(&a.CloneLayers[i]) {
				return true
			}
		}
	}
	return false
}

func (e encoder) layer(l *msmbin.Layer) (failed bool) {
	if e.string(l.Name) {
		return true
	}
	if e.fw.Number(l.Type) {
		return true
	}
	if e.fw.Number(uint32(l.Blend)) {
		return true
	}
	if e.fw.Number(l.Parent) {
		return true
	}
	if e.fw.Number(l.ID) {
		return true
	}
	if e.fw.Number(l.Src) {
		return true
	}
	if e.fw.Number(l.Width) {
		return true
	}
	if e.fw.Number(l.Height) {
		return true
	}
	if e.f32(l.AnchorX) {
		return true
	}
	if e.f32(l.AnchorY) {
		return true
	}
	if e.string(l.Unk) {
		return true
	}
	if e.fw.Number(uint32(len(l.Frames))) {
		return true
	}
	for i := range l.Frames {
		if e.frame(&l.Frames[i]) {
			return true
		}
	}
	return false
}

func (e encoder) cloneLayer(c *msmbin.CloneLayer) (failed bool) {
	if e.string(c.NewLayer) {
		return true
	}
	if e.string(c.SourceLayer) {
		return true
	}
	if e.string(c.ReferenceLayer) {
		return true
	}
	return e.fw.Number(c.VariantIndex)
}

func (e encoder) frame(f *msmbin.Frame) (failed bool) {
	if e.f32(f.Time) {
		return true
	}
	if e.dataXY(f.Pos) {
		return true
	}
	if e.dataXY(f.Scale) {
		return true
	}
	if e.dataValue(f.Rotation) {
		return true
	}
	if e.dataValue(f.Opacity) {
		return true
	}
	if e.dataString(f.Sprite) {
		return true
	}
	return e.dataRGB(f.RGB)
}

func (e encoder) dataValue(v msmbin.DataValue) (failed bool) {
	if e.immediate(v.Immediate) {
		return true
	}
	return e.f32(v.Value)
}

func (e encoder) dataXY(v msmbin.DataXY) (failed bool) {
	if e.immediate(v.Immediate) {
		return true
	}
	if e.f32(v.X) {
		return true
	}
	return e.f32(v.Y)
}

func (e encoder) dataRect(v msmbin.DataRect) (failed bool) {
	if e.immediate(v.Immediate) {
		return true
	}
	if e.f32(v.X) {
		return true
	}
	if e.f32(v.Y) {
		return true
	}
	if e.f32(v.W) {
		return true
	}
	return e.f32(v.H)
}

func (e encoder) dataString(v msmbin.DataString) (failed bool) {
	if e.immediate(v.Immediate) {
		return true
	}
	return e.string(v.String)
}

func (e encoder) dataRGB(v msmbin.DataRGB) (failed bool) {
	if e.immediate(v.Immediate) {
		return true
	}
	if e.fw.Number(v.Red) {
		return true
	}
	if e.fw.Number(v.Green) {
		return true
	}
	return e.fw.Number(v.Blue)
}
