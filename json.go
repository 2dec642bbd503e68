package msmbin

import (
	"encoding/json"
	"fmt"
)

// ErrUnsupportedRev indicates a JSON document declaring a container revision
// not supported by the codec.
type ErrUnsupportedRev int

func (err ErrUnsupportedRev) Error() string {
	return fmt.Sprintf("rev %d not supported", int(err))
}

type jsonBinAnim struct {
	Rev          int         `json:"rev"`
	BlendVersion int         `json:"blend_version"`
	Sources      []Source    `json:"sources"`
	Anims        []Animation `json:"anims"`
}

// MarshalJSON encodes the container in its JSON interchange form. The
// blend_version tag is synthesized here; it has no counterpart in the binary
// container.
func (a *BinAnim) MarshalJSON() (b []byte, err error) {
	v := jsonBinAnim{
		Rev:          Rev,
		BlendVersion: BlendVersion,
		Sources:      a.Sources,
		Anims:        a.Anims,
	}
	if v.Sources == nil {
		v.Sources = []Source{}
	}
	if v.Anims == nil {
		v.Anims = []Animation{}
	}
	return json.Marshal(v)
}

// UnmarshalJSON decodes the JSON interchange form. The document must declare
// rev 6; blend_version is advisory and is not checked beyond being decodable.
func (a *BinAnim) UnmarshalJSON(b []byte) (err error) {
	var v struct {
		Rev          *int        `json:"rev"`
		BlendVersion int         `json:"blend_version"`
		Sources      []Source    `json:"sources"`
		Anims        []Animation `json:"anims"`
	}
	if err = json.Unmarshal(b, &v); err != nil {
		return err
	}
	rev := 0
	if v.Rev != nil {
		rev = *v.Rev
	}
	if rev != Rev {
		return ErrUnsupportedRev(rev)
	}
	a.Sources = v.Sources
	a.Anims = v.Anims
	return nil
}

type jsonCloneLayer struct {
	// Legacy keys preserved for older JSON consumers.
	Name     string `json:"name"`
	Resource string `json:"resource"`
	Sheet    string `json:"sheet"`

	VariantIndex   *uint32 `json:"variant_index,omitempty"`
	NewLayer       string  `json:"new_layer"`
	SourceLayer    string  `json:"source_layer"`
	ReferenceLayer string  `json:"reference_layer"`
	InsertMode     *int32  `json:"insert_mode,omitempty"`
}

// MarshalJSON encodes the clone directive with both its descriptive keys and
// the legacy aliases. insert_mode is normalized to -1 or 1.
func (c CloneLayer) MarshalJSON() (b []byte, err error) {
	mode := int32(1)
	if c.InsertMode() < 0 {
		mode = -1
	}
	variant := c.VariantIndex
	return json.Marshal(jsonCloneLayer{
		Name:           c.NewLayer,
		Resource:       c.SourceLayer,
		Sheet:          c.ReferenceLayer,
		VariantIndex:   &variant,
		NewLayer:       c.NewLayer,
		SourceLayer:    c.SourceLayer,
		ReferenceLayer: c.ReferenceLayer,
		InsertMode:     &mode,
	})
}

// UnmarshalJSON accepts either the descriptive keys or the legacy aliases,
// and either a raw variant_index or a signed insert_mode.
func (c *CloneLayer) UnmarshalJSON(b []byte) (err error) {
	var v jsonCloneLayer
	if err = json.Unmarshal(b, &v); err != nil {
		return err
	}
	c.NewLayer = v.NewLayer
	if c.NewLayer == "" {
		c.NewLayer = v.Name
	}
	c.SourceLayer = v.SourceLayer
	if c.SourceLayer == "" {
		c.SourceLayer = v.Resource
	}
	c.ReferenceLayer = v.ReferenceLayer
	if c.ReferenceLayer == "" {
		c.ReferenceLayer = v.Sheet
	}
	switch {
	case v.VariantIndex != nil:
		c.VariantIndex = *v.VariantIndex
	case v.InsertMode != nil && *v.InsertMode < 0:
		c.VariantIndex = 0xFFFFFFFF
	case v.InsertMode != nil:
		c.VariantIndex = uint32(*v.InsertMode)
	default:
		// Matches the historical JSON form, where a missing variant_index
		// implies inserting above.
		c.VariantIndex = 1
	}
	return nil
}
