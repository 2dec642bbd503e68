// The costume package decodes the game's costume-overlay BIN format.
//
// A costume file is a flat, strictly sequential stream of fixed block kinds
// with no header, magic or version: shader assignments, sprite remaps, clone
// layers, blend overrides, per-layer color tints, timed attachments
// ("AEAnim layers") and sheet remaps. The format is not self-describing, so
// the parser consumes the blocks in order and requires the stream to end
// exactly at the last one. One position in the stream historically varies
// between two layouts; see Decoder.
//
// The format uses the same primitive encoding as the animation container:
// little-endian values and length-prefixed strings zero-padded to a 4-byte
// boundary.
package costume

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Costume is the decoded content of one costume overlay file.
type Costume struct {
	ApplyShader    []ShaderAssignment
	Remaps         []Remap
	CloneLayers    []CloneLayer
	SetBlendLayers []BlendLayerOverride
	LayerColors    []LayerColor
	Attachments    []Attachment
	SheetRemaps    []SheetRemap
}

// ShaderAssignment binds a shader resource to a named node.
type ShaderAssignment struct {
	Node     string `json:"node"`
	Resource string `json:"resource"`
}

// Remap is a per-layer sprite-name substitution table, optionally scoped to a
// specific atlas sheet.
type Remap struct {
	DisplayName   string         `json:"display_name"`
	Resource      string         `json:"resource"`
	Sheet         string         `json:"sheet"`
	FrameMappings []FrameMapping `json:"frame_mappings"`
}

// FrameMapping substitutes one sprite name for another.
type FrameMapping struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CloneLayer duplicates an existing layer under a new name, anchored relative
// to a reference layer. It has the same raw shape as the animation
// container's clone record but is parsed independently.
type CloneLayer struct {
	SourceLayer    string
	NewLayer       string
	ReferenceLayer string

	// VariantIndex is stored unsigned but carries a signed placement; see
	// InsertMode.
	VariantIndex uint32
}

// InsertMode returns the two's-complement reinterpretation of VariantIndex.
// The renderer places the clone above or below its reference layer depending
// on the sign, so it must be preserved exactly.
func (c CloneLayer) InsertMode() int32 {
	return int32(c.VariantIndex)
}

// BlendLayerOverride replaces a layer's blend mode. The value is kept raw,
// not validated against the known blend set; the decoder warns about values
// outside that set but passes them through.
type BlendLayerOverride struct {
	Name       string `json:"name"`
	BlendValue uint32 `json:"blend_value"`
}

// RGBA16 is a color with 16-bit channels, as stored in the file.
type RGBA16 struct {
	R uint16 `json:"r"`
	G uint16 `json:"g"`
	B uint16 `json:"b"`
	A uint16 `json:"a"`
}

// RGBA8 is a color with 8-bit channels, derived from an RGBA16.
type RGBA8 struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// LayerColor tints one layer.
type LayerColor struct {
	Layer  string
	RGBA16 RGBA16
}

// RGBA8 derives the 8-bit form of the tint. Each channel is clamped to 255,
// not proportionally downscaled; any 16-bit value above 255 collapses to
// pure 255. Downstream consumers depend on the clamped values, so this must
// not be changed to a scale.
func (c LayerColor) RGBA8() RGBA8 {
	return RGBA8{
		R: clamp8(c.RGBA16.R),
		G: clamp8(c.RGBA16.G),
		B: clamp8(c.RGBA16.B),
		A: clamp8(c.RGBA16.A),
	}
}

func clamp8(v uint16) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Hex formats the derived 8-bit tint as an 8-digit #RRGGBBAA string.
func (c LayerColor) Hex() string {
	v := c.RGBA8()
	return fmt.Sprintf("#%02X%02X%02X%02X", v.R, v.G, v.B, v.A)
}

// Attachment binds a timed sub-animation to a parent layer.
type Attachment struct {
	AttachTo  string
	Resource  string
	Animation string

	// RawTimeValue is the serialized timing parameter. Its meaning depends on
	// its magnitude; see TimeOffset and TempoMultiplier.
	RawTimeValue float32
}

// TimeOffset returns the literal offset added to the parent layer's clock,
// or 0 when RawTimeValue is a tempo sentinel.
func (a Attachment) TimeOffset() float32 {
	offset, _ := classifyTime(a.RawTimeValue)
	return offset
}

// TempoMultiplier returns the playback speed factor encoded by a tempo
// sentinel, or 1 when RawTimeValue is a literal offset.
func (a Attachment) TempoMultiplier() float32 {
	_, tempo := classifyTime(a.RawTimeValue)
	return tempo
}

// Loop reports whether the attachment loops. Attachments produced by this
// parser always do.
func (a Attachment) Loop() bool {
	return true
}

const (
	// tempoSentinelMax is the largest magnitude treated as a tempo sentinel.
	// The native exporter writes roughly multiplier/100 in that case, most
	// notably ~0.001 for the AEAnim teleport screens.
	tempoSentinelMax = 0.0025
	tempoScale       = 100
	tempoFloor       = 0.1
)

// classifyTime interprets the serialized attachment timing parameter.
// Magnitudes in (0, tempoSentinelMax] encode a tempo multiplier rather than
// a literal offset; the multiplier is floored at 10% speed to match the
// game. Everything else is a literal offset played at full tempo.
func classifyTime(v float32) (offset, tempo float32) {
	if a := math32.Abs(v); 0 < a && a <= tempoSentinelMax {
		return 0, math32.Max(tempoFloor, a*tempoScale)
	}
	return v, 1
}

// SheetRemap redirects one atlas-sheet identifier to another, used when a
// costume substitutes textures.
type SheetRemap struct {
	From string `json:"from"`
	To   string `json:"to"`
}
