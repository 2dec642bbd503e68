package costume

import (
	"io"

	"github.com/msmtools/msmbin"
	"github.com/msmtools/msmbin/cursor"
	"github.com/msmtools/msmbin/errors"
)

// Decoder decodes a stream of bytes into a Costume.
//
// The blocks of the stream are consumed in their nominal order. At the final
// attachment/sheet-remap pair the layout historically varies: modern exports
// write the attachments first, some legacy exports write the sheet remaps
// first. The decoder records a checkpoint before the pair, tries the modern
// layout, and on failure rewinds and tries the legacy one; only if both fail
// does it report an error. After the last block the stream must be fully
// consumed; trailing bytes are a fatal format error.
type Decoder struct{}

// Decode reads data from r and decodes it as a costume overlay. warn holds
// non-fatal problems, such as blend overrides outside the known blend set; it
// may be non-nil even when err is nil. A failed parse yields no costume data
// at all.
func (Decoder) Decode(r io.Reader) (c *Costume, warn, err error) {
	if r == nil {
		return nil, nil, errors.New("nil reader")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	d := decoder{cur: cursor.New(data)}
	c, err = d.costume()
	warn = d.warn.Return()
	if err != nil {
		return nil, warn, err
	}
	return c, warn, nil
}

type decoder struct {
	cur  *cursor.Cursor
	warn errors.Errors
}

func (d *decoder) costume() (*Costume, error) {
	var c Costume
	var err error

	off := d.cur.Tell()
	if c.ApplyShader, err = d.applyShader(); err != nil {
		return nil, BlockError{Block: "apply_shader", Offset: off, Cause: err}
	}
	off = d.cur.Tell()
	if c.Remaps, err = d.remaps(); err != nil {
		return nil, BlockError{Block: "remaps", Offset: off, Cause: err}
	}
	off = d.cur.Tell()
	if c.CloneLayers, err = d.cloneLayers(); err != nil {
		return nil, BlockError{Block: "clone_layers", Offset: off, Cause: err}
	}
	off = d.cur.Tell()
	if c.SetBlendLayers, err = d.setBlendLayers(); err != nil {
		return nil, BlockError{Block: "set_blend_layers", Offset: off, Cause: err}
	}
	off = d.cur.Tell()
	if c.LayerColors, err = d.layerColors(); err != nil {
		return nil, BlockError{Block: "layer_colors", Offset: off, Cause: err}
	}

	if err = d.attachmentPair(&c); err != nil {
		return nil, err
	}

	if rem := d.cur.Remaining(); rem > 0 {
		return nil, TrailingError{Offset: d.cur.Len() - rem}
	}

	return &c, nil
}

// count reads a uint32 record count and guards it against the bytes left in
// the buffer, so a corrupt count cannot drive a huge allocation. Every record
// of the format occupies at least four bytes.
func (d *decoder) count() (int, error) {
	off := d.cur.Tell()
	n, err := d.cur.U32()
	if err != nil {
		return 0, err
	}
	if int64(n) > int64(d.cur.Remaining()) {
		return 0, CountError{Offset: off, Count: n, Remaining: d.cur.Remaining()}
	}
	return int(n), nil
}

func (d *decoder) applyShader() ([]ShaderAssignment, error) {
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	records := make([]ShaderAssignment, 0, n)
	for i := 0; i < n; i++ {
		var r ShaderAssignment
		if r.Node, err = d.cur.String(); err != nil {
			return nil, err
		}
		if r.Resource, err = d.cur.String(); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (d *decoder) remaps() ([]Remap, error) {
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	remaps := make([]Remap, 0, n)
	for i := 0; i < n; i++ {
		var r Remap
		if r.DisplayName, err = d.cur.String(); err != nil {
			return nil, err
		}
		if r.Resource, err = d.cur.String(); err != nil {
			return nil, err
		}
		if r.Sheet, err = d.cur.String(); err != nil {
			return nil, err
		}
		mn, err := d.count()
		if err != nil {
			return nil, err
		}
		r.FrameMappings = make([]FrameMapping, 0, mn)
		for j := 0; j < mn; j++ {
			var m FrameMapping
			if m.From, err = d.cur.String(); err != nil {
				return nil, err
			}
			if m.To, err = d.cur.String(); err != nil {
				return nil, err
			}
			r.FrameMappings = append(r.FrameMappings, m)
		}
		remaps = append(remaps, r)
	}
	return remaps, nil
}

func (d *decoder) cloneLayers() ([]CloneLayer, error) {
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	clones := make([]CloneLayer, 0, n)
	for i := 0; i < n; i++ {
		var c CloneLayer
		if c.SourceLayer, err = d.cur.String(); err != nil {
			return nil, err
		}
		if c.NewLayer, err = d.cur.String(); err != nil {
			return nil, err
		}
		if c.ReferenceLayer, err = d.cur.String(); err != nil {
			return nil, err
		}
		if c.VariantIndex, err = d.cur.U32(); err != nil {
			return nil, err
		}
		clones = append(clones, c)
	}
	return clones, nil
}

func (d *decoder) setBlendLayers() ([]BlendLayerOverride, error) {
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	layers := make([]BlendLayerOverride, 0, n)
	for i := 0; i < n; i++ {
		var l BlendLayerOverride
		if l.Name, err = d.cur.String(); err != nil {
			return nil, err
		}
		off := d.cur.Tell()
		if l.BlendValue, err = d.cur.U32(); err != nil {
			return nil, err
		}
		// The raw value is preserved either way; flag values outside the
		// known blend set so bad exports are visible.
		if !msmbin.Blend(l.BlendValue).Valid() {
			d.warn = d.warn.Append(UnknownBlendError{Layer: l.Name, Value: l.BlendValue, Offset: off})
		}
		layers = append(layers, l)
	}
	return layers, nil
}

func (d *decoder) layerColors() ([]LayerColor, error) {
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	colors := make([]LayerColor, 0, n)
	for i := 0; i < n; i++ {
		var c LayerColor
		if c.Layer, err = d.cur.String(); err != nil {
			return nil, err
		}
		if c.RGBA16.R, err = d.cur.U16(); err != nil {
			return nil, err
		}
		if c.RGBA16.G, err = d.cur.U16(); err != nil {
			return nil, err
		}
		if c.RGBA16.B, err = d.cur.U16(); err != nil {
			return nil, err
		}
		if c.RGBA16.A, err = d.cur.U16(); err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// attachmentPair decodes the final attachment/sheet-remap pair, trying the
// modern attachments-first layout and falling back to the legacy
// remaps-first layout from a checkpoint.
func (d *decoder) attachmentPair(c *Costume) error {
	mark := d.cur.Tell()

	attachments, err := d.attachments()
	if err == nil {
		var sheets []SheetRemap
		if sheets, err = d.sheetRemaps(); err == nil {
			c.Attachments, c.SheetRemaps = attachments, sheets
			return nil
		}
	}
	attachErr := err

	d.reset(mark)
	sheets, err := d.sheetRemaps()
	if err == nil {
		if attachments, err = d.attachments(); err == nil {
			c.Attachments, c.SheetRemaps = attachments, sheets
			return nil
		}
	}

	return LayoutError{AttachmentsFirst: attachErr, SheetsFirst: err, Offset: mark}
}

func (d *decoder) reset(mark int) {
	// mark was produced by Tell, so it is always a valid target.
	if err := d.cur.Seek(mark); err != nil {
		panic(err)
	}
}

func (d *decoder) attachments() ([]Attachment, error) {
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	attachments := make([]Attachment, 0, n)
	for i := 0; i < n; i++ {
		var a Attachment
		if a.AttachTo, err = d.cur.String(); err != nil {
			return nil, err
		}
		if a.Resource, err = d.cur.String(); err != nil {
			return nil, err
		}
		if a.Animation, err = d.cur.String(); err != nil {
			return nil, err
		}
		if a.RawTimeValue, err = d.cur.F32(); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, nil
}

func (d *decoder) sheetRemaps() ([]SheetRemap, error) {
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	remaps := make([]SheetRemap, 0, n)
	for i := 0; i < n; i++ {
		var r SheetRemap
		if r.From, err = d.cur.String(); err != nil {
			return nil, err
		}
		if r.To, err = d.cur.String(); err != nil {
			return nil, err
		}
		remaps = append(remaps, r)
	}
	return remaps, nil
}
