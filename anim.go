// The msmbin package models the data stored in the game's proprietary binary
// animation container.
//
// A BinAnim holds the texture-atlas Sources and the Animations of one
// container file. Each Animation owns a list of Layers, each Layer an ordered
// list of keyframe Frames, and an Animation may carry a trailing table of
// CloneLayer directives. The leaf fields of a Frame are small tagged value
// records (DataValue, DataXY, DataString, DataRGB), each pairing an
// interpolation tag with its payload.
//
// The rev6 sub-package decodes and encodes the binary form of a BinAnim. The
// costume sub-package decodes the related costume-overlay block format.
// BinAnim values also round-trip through a JSON interchange form; see
// MarshalJSON and UnmarshalJSON.
package msmbin

// Rev is the container format revision supported by this module.
const Rev = 6

// BlendVersion is an advisory tag carried by the JSON interchange form. It is
// synthesized on encode and is not stored in the binary container.
const BlendVersion = 2

// Frame is one keyframe of a Layer.
type Frame struct {
	Time     float32    `json:"time"`
	Pos      DataXY     `json:"pos"`
	Scale    DataXY     `json:"scale"`
	Rotation DataValue  `json:"rotation"`
	Opacity  DataValue  `json:"opacity"`
	Sprite   DataString `json:"sprite"`
	RGB      DataRGB    `json:"rgb"`
}

// Layer is one animated layer of an Animation.
//
// Parent, ID and Src are small signed indices into sibling and source tables
// maintained by the consumer; the codec does not validate them.
type Layer struct {
	Name    string  `json:"name"`
	Type    int32   `json:"type"`
	Blend   Blend   `json:"blend"`
	Parent  int16   `json:"parent"`
	ID      int16   `json:"id"`
	Src     int16   `json:"src"`
	Width   uint16  `json:"width"`
	Height  uint16  `json:"height"`
	AnchorX float32 `json:"anchor_x"`
	AnchorY float32 `json:"anchor_y"`
	Unk     string  `json:"unk"`
	Frames  []Frame `json:"frames"`
}

// CloneLayer is a directive that duplicates an existing layer under a new
// name, anchored relative to a reference layer.
type CloneLayer struct {
	NewLayer       string
	SourceLayer    string
	ReferenceLayer string

	// VariantIndex is stored unsigned in the container but carries a signed
	// insert-above/insert-below placement; see InsertMode.
	VariantIndex uint32
}

// InsertMode returns the two's-complement reinterpretation of VariantIndex.
func (c CloneLayer) InsertMode() int32 {
	return int32(c.VariantIndex)
}

// Animation is one named animation of a container.
type Animation struct {
	Name       string  `json:"name"`
	Width      uint16  `json:"width"`
	Height     uint16  `json:"height"`
	LoopOffset float32 `json:"loop_offset"`
	Centered   uint32  `json:"centered"`
	Layers     []Layer `json:"layers"`

	// CloneLayers is an optional trailing table. Older exports omit it from
	// the container entirely, with no marker; the rev6 decoder detects its
	// presence heuristically and the encoder writes it only when non-empty.
	CloneLayers []CloneLayer `json:"clone_layers"`
}

// Source describes one texture-atlas resource referenced by layer Src
// indices.
type Source struct {
	Src    string `json:"src"`
	ID     uint16 `json:"id"`
	Width  uint16 `json:"width"`
	Height uint16 `json:"height"`
}

// BinAnim is the top-level content of a binary animation container.
type BinAnim struct {
	Sources []Source
	Anims   []Animation
}
