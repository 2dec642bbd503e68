// The rev6 package decodes and encodes revision 6 of the game's binary
// animation container.
//
// The container has no magic number and no version tag of its own; its
// structure is positional. All values are little-endian. Strings are stored
// as a uint32 byte-length prefix followed by the UTF-8 payload, zero-padded
// to a 4-byte boundary.
package rev6

import (
	"io"

	"github.com/msmtools/msmbin"
	"github.com/msmtools/msmbin/cursor"
	"github.com/msmtools/msmbin/errors"
)

// maxCloneLayers is the largest clone-table count treated as plausible when
// sniffing for a trailing clone-layer table. Real exports stay far below it.
const maxCloneLayers = 512

// Decoder decodes a stream of bytes into a msmbin.BinAnim.
type Decoder struct{}

// Decode reads data from r and decodes it as a rev 6 container. warn holds
// the non-fatal problems encountered while decoding, such as unknown blend
// values; it may be non-nil even when err is nil.
func (Decoder) Decode(r io.Reader) (anim *msmbin.BinAnim, warn, err error) {
	if r == nil {
		return nil, nil, errors.New("nil reader")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	d := decoder{cur: cursor.New(data)}
	anim, err = d.binAnim()
	warn = d.warn.Return()
	if err != nil {
		return nil, warn, err
	}
	return anim, warn, nil
}

type decoder struct {
	cur  *cursor.Cursor
	warn errors.Errors
}

// count reads a uint32 record count and guards it against the bytes left in
// the buffer, so a corrupt count cannot drive a huge allocation. Every record
// of the container occupies at least four bytes.
func (d *decoder) count(record string) (int, error) {
	off := d.cur.Tell()
	n, err := d.cur.U32()
	if err != nil {
		return 0, err
	}
	if int64(n) > int64(d.cur.Remaining()) {
		return 0, CountError{Record: record, Offset: off, Count: n, Remaining: d.cur.Remaining()}
	}
	return int(n), nil
}

func (d *decoder) binAnim() (*msmbin.BinAnim, error) {
	var a msmbin.BinAnim

	n, err := d.count("source")
	if err != nil {
		return nil, err
	}
	a.Sources = make([]msmbin.Source, 0, n)
	for i := 0; i < n; i++ {
		off := d.cur.Tell()
		src, err := d.source()
		if err != nil {
			return nil, RecordError{Record: "source", Index: i, Offset: off, Cause: err}
		}
		a.Sources = append(a.Sources, src)
	}

	n, err = d.count("animation")
	if err != nil {
		return nil, err
	}
	a.Anims = make([]msmbin.Animation, 0, n)
	for i := 0; i < n; i++ {
		off := d.cur.Tell()
		anim, err := d.animation()
		if err != nil {
			return nil, RecordError{Record: "animation", Index: i, Offset: off, Cause: err}
		}
		a.Anims = append(a.Anims, anim)
	}

	return &a, nil
}

func (d *decoder) source() (s msmbin.Source, err error) {
	if s.Src, err = d.cur.String(); err != nil {
		return s, err
	}
	if s.ID, err = d.cur.U16(); err != nil {
		return s, err
	}
	if s.Width, err = d.cur.U16(); err != nil {
		return s, err
	}
	s.Height, err = d.cur.U16()
	return s, err
}

func (d *decoder) animation() (a msmbin.Animation, err error) {
	if a.Name, err = d.cur.String(); err != nil {
		return a, err
	}
	if a.Width, err = d.cur.U16(); err != nil {
		return a, err
	}
	if a.Height, err = d.cur.U16(); err != nil {
		return a, err
	}
	if a.LoopOffset, err = d.cur.F32(); err != nil {
		return a, err
	}
	if a.Centered, err = d.cur.U32(); err != nil {
		return a, err
	}

	n, err := d.count("layer")
	if err != nil {
		return a, err
	}
	a.Layers = make([]msmbin.Layer, 0, n)
	for i := 0; i < n; i++ {
		off := d.cur.Tell()
		layer, err := d.layer()
		if err != nil {
			return a, RecordError{Record: "layer", Index: i, Offset: off, Cause: err}
		}
		a.Layers = append(a.Layers, layer)
	}

	a.CloneLayers = d.cloneLayers()
	return a, nil
}

// cloneLayers sniffs for a trailing clone-layer table. Older exports omit the
// table entirely with no marker, so the only way to detect it is to try
// decoding it and sanity-check the result. On any failure the cursor is
// restored to where it was before the speculative read and an empty table is
// returned.
func (d *decoder) cloneLayers() []msmbin.CloneLayer {
	mark := d.cur.Tell()

	n, err := d.cur.U32()
	if err != nil {
		d.reset(mark)
		return []msmbin.CloneLayer{}
	}
	// Implausible counts are almost certainly unrelated trailing data.
	if n > maxCloneLayers {
		d.reset(mark)
		return []msmbin.CloneLayer{}
	}

	clones := make([]msmbin.CloneLayer, 0, n)
	for i := uint32(0); i < n; i++ {
		clone, err := d.cloneLayer()
		if err != nil {
			d.reset(mark)
			return []msmbin.CloneLayer{}
		}
		clones = append(clones, clone)
	}

	// A table whose entries lack layer names is a misparse of whatever
	// actually follows the layers.
	for _, clone := range clones {
		if clone.NewLayer == "" || clone.SourceLayer == "" {
			d.reset(mark)
			return []msmbin.CloneLayer{}
		}
	}

	return clones
}

func (d *decoder) reset(mark int) {
	// mark was produced by Tell, so it is always a valid target.
	if err := d.cur.Seek(mark); err != nil {
		panic(err)
	}
}

func (d *decoder) cloneLayer() (c msmbin.CloneLayer, err error) {
	if c.NewLayer, err = d.cur.String(); err != nil {
		return c, err
	}
	if c.SourceLayer, err = d.cur.String(); err != nil {
		return c, err
	}
	if c.ReferenceLayer, err = d.cur.String(); err != nil {
		return c, err
	}
	c.VariantIndex, err = d.cur.U32()
	return c, err
}

func (d *decoder) layer() (l msmbin.Layer, err error) {
	if l.Name, err = d.cur.String(); err != nil {
		return l, err
	}
	if l.Type, err = d.cur.I32(); err != nil {
		return l, err
	}
	if l.Blend, err = d.blend(); err != nil {
		return l, err
	}
	if l.Parent, err = d.cur.I16(); err != nil {
		return l, err
	}
	if l.ID, err = d.cur.I16(); err != nil {
		return l, err
	}
	if l.Src, err = d.cur.I16(); err != nil {
		return l, err
	}
	if l.Width, err = d.cur.U16(); err != nil {
		return l, err
	}
	if l.Height, err = d.cur.U16(); err != nil {
		return l, err
	}
	if l.AnchorX, err = d.cur.F32(); err != nil {
		return l, err
	}
	if l.AnchorY, err = d.cur.F32(); err != nil {
		return l, err
	}
	if l.Unk, err = d.cur.String(); err != nil {
		return l, err
	}

	n, err := d.count("frame")
	if err != nil {
		return l, err
	}
	l.Frames = make([]msmbin.Frame, 0, n)
	for i := 0; i < n; i++ {
		off := d.cur.Tell()
		frame, err := d.frame()
		if err != nil {
			return l, RecordError{Record: "frame", Index: i, Offset: off, Cause: err}
		}
		l.Frames = append(l.Frames, frame)
	}

	return l, nil
}

// blend decodes a blend mode. Unknown values are a compatibility concern, not
// an error: the decoder warns and substitutes BlendAdditive so that files
// written by newer exporters still load.
func (d *decoder) blend() (msmbin.Blend, error) {
	off := d.cur.Tell()
	v, err := d.cur.U32()
	if err != nil {
		return 0, err
	}
	b := msmbin.Blend(v)
	if !b.Valid() {
		d.warn = d.warn.Append(UnknownBlendError{Value: v, Offset: off})
		return msmbin.BlendAdditive, nil
	}
	return b, nil
}

func (d *decoder) frame() (f msmbin.Frame, err error) {
	if f.Time, err = d.cur.F32(); err != nil {
		return f, err
	}
	if f.Pos, err = d.dataXY(); err != nil {
		return f, err
	}
	if f.Scale, err = d.dataXY(); err != nil {
		return f, err
	}
	if f.Rotation, err = d.dataValue(); err != nil {
		return f, err
	}
	if f.Opacity, err = d.dataValue(); err != nil {
		return f, err
	}
	if f.Sprite, err = d.dataString(); err != nil {
		return f, err
	}
	f.RGB, err = d.dataRGB()
	return f, err
}

func (d *decoder) immediate() (msmbin.Immediate, error) {
	v, err := d.cur.I8()
	return msmbin.Immediate(v), err
}

func (d *decoder) dataValue() (v msmbin.DataValue, err error) {
	if v.Immediate, err = d.immediate(); err != nil {
		return v, err
	}
	v.Value, err = d.cur.F32()
	return v, err
}

func (d *decoder) dataXY() (v msmbin.DataXY, err error) {
	if v.Immediate, err = d.immediate(); err != nil {
		return v, err
	}
	if v.X, err = d.cur.F32(); err != nil {
		return v, err
	}
	v.Y, err = d.cur.F32()
	return v, err
}

func (d *decoder) dataRect() (v msmbin.DataRect, err error) {
	if v.Immediate, err = d.immediate(); err != nil {
		return v, err
	}
	if v.X, err = d.cur.F32(); err != nil {
		return v, err
	}
	if v.Y, err = d.cur.F32(); err != nil {
		return v, err
	}
	if v.W, err = d.cur.F32(); err != nil {
		return v, err
	}
	v.H, err = d.cur.F32()
	return v, err
}

func (d *decoder) dataString() (v msmbin.DataString, err error) {
	if v.Immediate, err = d.immediate(); err != nil {
		return v, err
	}
	v.String, err = d.cur.String()
	return v, err
}

func (d *decoder) dataRGB() (v msmbin.DataRGB, err error) {
	if v.Immediate, err = d.immediate(); err != nil {
		return v, err
	}
	if v.Red, err = d.cur.U8(); err != nil {
		return v, err
	}
	if v.Green, err = d.cur.U8(); err != nil {
		return v, err
	}
	v.Blue, err = d.cur.U8()
	return v, err
}
