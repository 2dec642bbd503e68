package costume

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"github.com/msmtools/msmbin/errors"
)

// buf builds little-endian test streams.
type buf struct {
	b []byte
}

func (w *buf) u16(v uint16) *buf {
	w.b = append(w.b, byte(v), byte(v>>8))
	return w
}

func (w *buf) u32(v uint32) *buf {
	w.b = append(w.b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	return w
}

func (w *buf) f32(v float32) *buf {
	return w.u32(math.Float32bits(v))
}

func (w *buf) str(s string) *buf {
	w.u32(uint32(len(s)))
	w.b = append(w.b, s...)
	if pad := (4 - len(s)%4) % 4; pad > 0 {
		w.b = append(w.b, make([]byte, pad)...)
	}
	return w
}

func (w *buf) raw(b ...byte) *buf {
	w.b = append(w.b, b...)
	return w
}

// head appends every block before the attachment/sheet-remap pair.
func head() *buf {
	w := new(buf)
	w.u32(1).str("torso").str("shaders/glow")
	w.u32(1).str("Epic Skin").str("epic").str("sheet_a").
		u32(2).str("a").str("b").str("c").str("d")
	w.u32(1).str("arm").str("arm_copy").str("body").u32(0xFFFFFFFE)
	w.u32(1).str("glowy").u32(2)
	w.u32(1).str("cape").u16(300).u16(10).u16(0).u16(65535)
	return w
}

func wantHead() Costume {
	return Costume{
		ApplyShader: []ShaderAssignment{{Node: "torso", Resource: "shaders/glow"}},
		Remaps: []Remap{{
			DisplayName:   "Epic Skin",
			Resource:      "epic",
			Sheet:         "sheet_a",
			FrameMappings: []FrameMapping{{From: "a", To: "b"}, {From: "c", To: "d"}},
		}},
		CloneLayers:    []CloneLayer{{SourceLayer: "arm", NewLayer: "arm_copy", ReferenceLayer: "body", VariantIndex: 0xFFFFFFFE}},
		SetBlendLayers: []BlendLayerOverride{{Name: "glowy", BlendValue: 2}},
		LayerColors:    []LayerColor{{Layer: "cape", RGBA16: RGBA16{R: 300, G: 10, B: 0, A: 65535}}},
	}
}

func TestDecode(t *testing.T) {
	w := head()
	w.u32(1).str("hand").str("fx/spark").str("burst").f32(0.01)
	w.u32(1).str("sheet_a").str("sheet_b")

	c, warn, err := Decoder{}.Decode(bytes.NewReader(w.b))
	if warn != nil {
		t.Errorf("unexpected warnings: %s", warn)
	}
	if err != nil {
		t.Fatalf("decode: %s", err)
	}

	want := wantHead()
	want.Attachments = []Attachment{{AttachTo: "hand", Resource: "fx/spark", Animation: "burst", RawTimeValue: 0.01}}
	want.SheetRemaps = []SheetRemap{{From: "sheet_a", To: "sheet_b"}}
	if !reflect.DeepEqual(*c, want) {
		t.Errorf("decoded costume differs:\ngot  %+v\nwant %+v", *c, want)
	}

	if got := c.CloneLayers[0].InsertMode(); got != -2 {
		t.Errorf("InsertMode = %d, want -2", got)
	}
}

func TestDecodeLegacyLayout(t *testing.T) {
	// Legacy exports write the sheet remaps before the attachments. The
	// attachments-first attempt misreads the stream and fails partway in,
	// after which the decoder must rewind and recover the same content.
	w := head()
	w.u32(1).str("sheet_a").str("sheet_b")
	w.u32(1).str("hand").str("fx").str("burst").f32(0.002)

	c, warn, err := Decoder{}.Decode(bytes.NewReader(w.b))
	if warn != nil {
		t.Errorf("unexpected warnings: %s", warn)
	}
	if err != nil {
		t.Fatalf("decode: %s", err)
	}

	wantAttach := []Attachment{{AttachTo: "hand", Resource: "fx", Animation: "burst", RawTimeValue: 0.002}}
	if !reflect.DeepEqual(c.Attachments, wantAttach) {
		t.Errorf("attachments:\ngot  %+v\nwant %+v", c.Attachments, wantAttach)
	}
	wantSheets := []SheetRemap{{From: "sheet_a", To: "sheet_b"}}
	if !reflect.DeepEqual(c.SheetRemaps, wantSheets) {
		t.Errorf("sheet remaps:\ngot  %+v\nwant %+v", c.SheetRemaps, wantSheets)
	}
}

func TestDecodeLayoutExhausted(t *testing.T) {
	// A count with nothing behind it fails both layouts.
	w := head()
	mark := len(w.b)
	w.u32(5)

	_, _, err := Decoder{}.Decode(bytes.NewReader(w.b))
	var lerr LayoutError
	if !errors.As(err, &lerr) {
		t.Fatalf("got %T (%v), want LayoutError", err, err)
	}
	if lerr.Offset != mark {
		t.Errorf("offset = %d, want %d", lerr.Offset, mark)
	}
	if lerr.AttachmentsFirst == nil || lerr.SheetsFirst == nil {
		t.Errorf("LayoutError does not carry both causes: %+v", lerr)
	}
	if errors.Unwrap(lerr) != lerr.SheetsFirst {
		t.Error("LayoutError does not unwrap to the final cause")
	}
}

func TestDecodeTrailingBytes(t *testing.T) {
	w := head()
	w.u32(1).str("hand").str("fx").str("burst").f32(0)
	w.u32(0)
	valid := len(w.b)
	w.raw(0xAA)

	_, _, err := Decoder{}.Decode(bytes.NewReader(w.b))
	var terr TrailingError
	if !errors.As(err, &terr) {
		t.Fatalf("got %T (%v), want TrailingError", err, err)
	}
	if terr.Offset != valid {
		t.Errorf("offset = %d, want %d", terr.Offset, valid)
	}
}

func TestDecodeBlockError(t *testing.T) {
	// Truncation inside the remaps block names the block and its offset.
	w := new(buf)
	w.u32(0)
	mark := len(w.b)
	w.u32(1).str("Epic Skin")

	_, _, err := Decoder{}.Decode(bytes.NewReader(w.b))
	var berr BlockError
	if !errors.As(err, &berr) {
		t.Fatalf("got %T (%v), want BlockError", err, err)
	}
	if berr.Block != "remaps" || berr.Offset != mark {
		t.Errorf("BlockError = %+v", berr)
	}
}

func TestDecodeUnknownBlendWarning(t *testing.T) {
	w := new(buf)
	w.u32(0)
	w.u32(0)
	w.u32(0)
	w.u32(1).str("glowy").u32(99)
	w.u32(0)
	w.u32(0)
	w.u32(0)

	c, warn, err := Decoder{}.Decode(bytes.NewReader(w.b))
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	if got := c.SetBlendLayers[0].BlendValue; got != 99 {
		t.Errorf("blend value = %d, want raw 99", got)
	}
	if warn == nil {
		t.Fatal("expected a warning")
	}
	errs, ok := warn.(errors.Errors)
	if !ok || len(errs) != 1 {
		t.Fatalf("warn = %#v, want one-element Errors", warn)
	}
	berr, ok := errs[0].(UnknownBlendError)
	if !ok {
		t.Fatalf("warning %T, want UnknownBlendError", errs[0])
	}
	if berr.Layer != "glowy" || berr.Value != 99 {
		t.Errorf("UnknownBlendError = %+v", berr)
	}
}

func TestClassifyTime(t *testing.T) {
	cases := []struct {
		raw    float32
		offset float32
		tempo  float32
	}{
		{0, 0, 1},
		{0.002, 0, 0.2},
		{-0.002, 0, 0.2},
		{0.0025, 0, 0.25}, // sentinel boundary is inclusive
		{0.01, 0.01, 1},
		{-1.5, -1.5, 1},
		{0.0005, 0, 0.1}, // floored at 10% speed
	}
	for _, c := range cases {
		offset, tempo := classifyTime(c.raw)
		if !near(offset, c.offset) || !near(tempo, c.tempo) {
			t.Errorf("classifyTime(%g) = (%g, %g), want (%g, %g)", c.raw, offset, tempo, c.offset, c.tempo)
		}
	}
}

func near(a, b float32) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}

func TestAttachmentDerived(t *testing.T) {
	a := Attachment{RawTimeValue: 0.002}
	if got := a.TimeOffset(); got != 0 {
		t.Errorf("TimeOffset = %g, want 0", got)
	}
	if got := a.TempoMultiplier(); !near(got, 0.2) {
		t.Errorf("TempoMultiplier = %g, want 0.2", got)
	}
	if !a.Loop() {
		t.Error("Loop = false, want true")
	}

	a = Attachment{RawTimeValue: 0.01}
	if got := a.TimeOffset(); !near(got, 0.01) {
		t.Errorf("TimeOffset = %g, want 0.01", got)
	}
	if got := a.TempoMultiplier(); got != 1 {
		t.Errorf("TempoMultiplier = %g, want 1", got)
	}
}

func TestLayerColorDerived(t *testing.T) {
	c := LayerColor{Layer: "cape", RGBA16: RGBA16{R: 300, G: 10, B: 0, A: 65535}}
	want := RGBA8{R: 255, G: 10, B: 0, A: 255}
	if got := c.RGBA8(); got != want {
		t.Errorf("RGBA8 = %+v, want %+v", got, want)
	}
	if got := c.Hex(); got != "#FF0A00FF" {
		t.Errorf("Hex = %q, want %q", got, "#FF0A00FF")
	}
}

func TestCloneLayerInsertMode(t *testing.T) {
	if m := (CloneLayer{VariantIndex: 0xFFFFFFFF}).InsertMode(); m != -1 {
		t.Errorf("InsertMode(0xFFFFFFFF) = %d, want -1", m)
	}
	if m := (CloneLayer{VariantIndex: 1}).InsertMode(); m != 1 {
		t.Errorf("InsertMode(1) = %d, want 1", m)
	}
}

func TestMarshalJSON(t *testing.T) {
	c := wantHead()
	c.Attachments = []Attachment{{AttachTo: "hand", Resource: "fx", Animation: "burst", RawTimeValue: 0.0025}}
	c.SheetRemaps = []SheetRemap{{From: "sheet_a", To: "sheet_b"}}

	b, err := json.Marshal(&c)
	if err != nil {
		t.Fatal(err)
	}
	var v map[string]interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{
		"apply_shader", "remaps", "clone_layers", "set_blend_layers",
		"layer_colors", "layer_color_overrides", "ae_anim_layers",
		"sheet_remaps", "swaps",
	} {
		if _, ok := v[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if !reflect.DeepEqual(v["layer_colors"], v["layer_color_overrides"]) {
		t.Error("layer_color_overrides is not an alias of layer_colors")
	}
	if !reflect.DeepEqual(v["sheet_remaps"], v["swaps"]) {
		t.Error("swaps is not an alias of sheet_remaps")
	}

	clone := v["clone_layers"].([]interface{})[0].(map[string]interface{})
	if clone["name"] != "arm_copy" || clone["resource"] != "arm" || clone["sheet"] != "body" {
		t.Errorf("clone layer aliases wrong: %v", clone)
	}
	if mode := clone["insert_mode"].(float64); mode != -2 {
		t.Errorf("insert_mode = %v, want -2", mode)
	}

	color := v["layer_colors"].([]interface{})[0].(map[string]interface{})
	if color["hex"] != "#FF0A00FF" {
		t.Errorf("hex = %v", color["hex"])
	}

	attach := v["ae_anim_layers"].([]interface{})[0].(map[string]interface{})
	if tempo := attach["tempo_multiplier"].(float64); !near(float32(tempo), 0.25) {
		t.Errorf("tempo_multiplier = %v, want 0.25", tempo)
	}
	if offset := attach["time_offset"].(float64); offset != 0 {
		t.Errorf("time_offset = %v, want 0", offset)
	}
	if attach["time_scale"] != attach["time_offset"] {
		t.Error("time_scale is not an alias of time_offset")
	}
	if loop, ok := attach["loop"].(bool); !ok || !loop {
		t.Errorf("loop = %v, want true", attach["loop"])
	}

	// Empty costumes marshal every list as [], not null.
	b, err = json.Marshal(&Costume{})
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(b, []byte("null")) {
		t.Errorf("empty costume marshals null lists: %s", b)
	}
}
