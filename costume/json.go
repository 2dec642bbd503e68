package costume

import (
	"encoding/json"
)

// MarshalJSON encodes the costume as the dictionary shape emitted by the
// original conversion tools, including the aliases older consumers read:
// layer_color_overrides mirrors layer_colors and swaps mirrors sheet_remaps.
func (c *Costume) MarshalJSON() (b []byte, err error) {
	type costumeJSON struct {
		ApplyShader         []ShaderAssignment   `json:"apply_shader"`
		Remaps              []Remap              `json:"remaps"`
		CloneLayers         []CloneLayer         `json:"clone_layers"`
		SetBlendLayers      []BlendLayerOverride `json:"set_blend_layers"`
		LayerColors         []LayerColor         `json:"layer_colors"`
		LayerColorOverrides []LayerColor         `json:"layer_color_overrides"`
		AttachmentLayers    []Attachment         `json:"ae_anim_layers"`
		SheetRemaps         []SheetRemap         `json:"sheet_remaps"`
		Swaps               []SheetRemap         `json:"swaps"`
	}
	v := costumeJSON{
		ApplyShader:         c.ApplyShader,
		Remaps:              c.Remaps,
		CloneLayers:         c.CloneLayers,
		SetBlendLayers:      c.SetBlendLayers,
		LayerColors:         c.LayerColors,
		LayerColorOverrides: c.LayerColors,
		AttachmentLayers:    c.Attachments,
		SheetRemaps:         c.SheetRemaps,
		Swaps:               c.SheetRemaps,
	}
	if v.ApplyShader == nil {
		v.ApplyShader = []ShaderAssignment{}
	}
	if v.Remaps == nil {
		v.Remaps = []Remap{}
	}
	if v.CloneLayers == nil {
		v.CloneLayers = []CloneLayer{}
	}
	if v.SetBlendLayers == nil {
		v.SetBlendLayers = []BlendLayerOverride{}
	}
	if v.LayerColors == nil {
		v.LayerColors = []LayerColor{}
		v.LayerColorOverrides = v.LayerColors
	}
	if v.AttachmentLayers == nil {
		v.AttachmentLayers = []Attachment{}
	}
	if v.SheetRemaps == nil {
		v.SheetRemaps = []SheetRemap{}
		v.Swaps = v.SheetRemaps
	}
	return json.Marshal(v)
}

// MarshalJSON encodes the clone directive with both its descriptive keys and
// the legacy name/resource/sheet aliases, alongside the derived signed
// insert_mode.
func (c CloneLayer) MarshalJSON() (b []byte, err error) {
	return json.Marshal(struct {
		Name     string `json:"name"`
		Resource string `json:"resource"`
		Sheet    string `json:"sheet"`

		VariantIndex   uint32 `json:"variant_index"`
		NewLayer       string `json:"new_layer"`
		SourceLayer    string `json:"source_layer"`
		ReferenceLayer string `json:"reference_layer"`
		InsertMode     int32  `json:"insert_mode"`
	}{
		Name:           c.NewLayer,
		Resource:       c.SourceLayer,
		Sheet:          c.ReferenceLayer,
		VariantIndex:   c.VariantIndex,
		NewLayer:       c.NewLayer,
		SourceLayer:    c.SourceLayer,
		ReferenceLayer: c.ReferenceLayer,
		InsertMode:     c.InsertMode(),
	})
}

// MarshalJSON encodes the tint with its stored 16-bit channels and the
// derived clamped 8-bit channels and hex form.
func (c LayerColor) MarshalJSON() (b []byte, err error) {
	return json.Marshal(struct {
		Layer  string `json:"layer"`
		RGBA16 RGBA16 `json:"rgba16"`
		RGBA   RGBA8  `json:"rgba"`
		Hex    string `json:"hex"`
	}{
		Layer:  c.Layer,
		RGBA16: c.RGBA16,
		RGBA:   c.RGBA8(),
		Hex:    c.Hex(),
	})
}

// MarshalJSON encodes the attachment with its derived timing fields. The
// time_scale key mirrors time_offset for compatibility with older consumers.
func (a Attachment) MarshalJSON() (b []byte, err error) {
	offset, tempo := classifyTime(a.RawTimeValue)
	return json.Marshal(struct {
		AttachTo  string `json:"attach_to"`
		Resource  string `json:"resource"`
		Animation string `json:"animation"`

		TimeOffset      float32 `json:"time_offset"`
		TimeScale       float32 `json:"time_scale"`
		TempoMultiplier float32 `json:"tempo_multiplier"`
		Loop            bool    `json:"loop"`
		RawTimeValue    float32 `json:"raw_time_value"`
	}{
		AttachTo:        a.AttachTo,
		Resource:        a.Resource,
		Animation:       a.Animation,
		TimeOffset:      offset,
		TimeScale:       offset,
		TempoMultiplier: tempo,
		Loop:            a.Loop(),
		RawTimeValue:    a.RawTimeValue,
	})
}
