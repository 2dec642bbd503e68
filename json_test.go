package msmbin

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestBinAnimJSONRoundTrip(t *testing.T) {
	want := &BinAnim{
		Sources: []Source{
			{Src: "atlas.png", ID: 3, Width: 2048, Height: 1024},
		},
		Anims: []Animation{
			{
				Name:       "celebrate",
				Width:      640,
				Height:     480,
				LoopOffset: 1.5,
				Centered:   1,
				Layers: []Layer{
					{
						Name:    "head",
						Type:    1,
						Blend:   BlendPremultAlpha,
						Parent:  -1,
						ID:      2,
						Src:     0,
						Width:   64,
						Height:  64,
						AnchorX: 0.25,
						AnchorY: 0.75,
						Frames: []Frame{
							{
								Time:     0.125,
								Pos:      DataXY{Immediate: ImmediateSet, X: 1, Y: -2},
								Scale:    DataXY{Immediate: ImmediateSet, X: 100, Y: 100},
								Rotation: DataValue{Immediate: ImmediateUnset, Value: 90},
								Opacity:  DataValue{Immediate: ImmediateNone, Value: 50},
								Sprite:   DataString{Immediate: ImmediateSet, String: "head_01"},
								RGB:      DataRGB{Immediate: ImmediateSet, Red: 1, Green: 2, Blue: 3},
							},
						},
					},
				},
				CloneLayers: []CloneLayer{
					{NewLayer: "head_copy", SourceLayer: "head", ReferenceLayer: "torso", VariantIndex: 0xFFFFFFFF},
				},
			},
		},
	}

	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %s", err)
	}

	var got BinAnim
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %s", err)
	}
	if !reflect.DeepEqual(&got, want) {
		t.Errorf("round trip differs:\ngot  %+v\nwant %+v", &got, want)
	}
}

func TestBinAnimJSONRev(t *testing.T) {
	var a BinAnim

	err := json.Unmarshal([]byte(`{"rev":5,"sources":[],"anims":[]}`), &a)
	if err == nil {
		t.Fatal("expected error for rev 5")
	}
	if !strings.Contains(err.Error(), "5") {
		t.Errorf("error %q does not name the offending rev", err)
	}

	if err := json.Unmarshal([]byte(`{"sources":[],"anims":[]}`), &a); err == nil {
		t.Error("expected error for missing rev")
	}

	// blend_version is advisory; any value is accepted.
	if err := json.Unmarshal([]byte(`{"rev":6,"blend_version":1,"sources":[],"anims":[]}`), &a); err != nil {
		t.Errorf("rev 6: %s", err)
	}
}

func TestBinAnimJSONSynthesizedFields(t *testing.T) {
	b, err := json.Marshal(&BinAnim{})
	if err != nil {
		t.Fatal(err)
	}
	var v map[string]interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatal(err)
	}
	if rev, ok := v["rev"].(float64); !ok || rev != 6 {
		t.Errorf("rev = %v, want 6", v["rev"])
	}
	if bv, ok := v["blend_version"].(float64); !ok || bv != BlendVersion {
		t.Errorf("blend_version = %v, want %d", v["blend_version"], BlendVersion)
	}
	if _, ok := v["sources"].([]interface{}); !ok {
		t.Errorf("sources = %v, want array", v["sources"])
	}
	if _, ok := v["anims"].([]interface{}); !ok {
		t.Errorf("anims = %v, want array", v["anims"])
	}
}

func TestCloneLayerJSON(t *testing.T) {
	b, err := json.Marshal(CloneLayer{
		NewLayer:       "arm_copy",
		SourceLayer:    "arm",
		ReferenceLayer: "body",
		VariantIndex:   0xFFFFFFFF,
	})
	if err != nil {
		t.Fatal(err)
	}
	var v map[string]interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatal(err)
	}
	if v["name"] != "arm_copy" || v["resource"] != "arm" || v["sheet"] != "body" {
		t.Errorf("legacy aliases wrong: %v", v)
	}
	if mode := v["insert_mode"].(float64); mode != -1 {
		t.Errorf("insert_mode = %v, want -1", mode)
	}
	if variant := v["variant_index"].(float64); variant != 0xFFFFFFFF {
		t.Errorf("variant_index = %v, want %d", variant, uint32(0xFFFFFFFF))
	}

	// insert_mode is normalized to 1 for any non-negative variant.
	b, err = json.Marshal(CloneLayer{NewLayer: "x", SourceLayer: "y", VariantIndex: 0})
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatal(err)
	}
	if mode := v["insert_mode"].(float64); mode != 1 {
		t.Errorf("insert_mode = %v, want 1", mode)
	}
}

func TestCloneLayerJSONLegacyKeys(t *testing.T) {
	var c CloneLayer
	err := json.Unmarshal([]byte(`{"name":"arm_copy","resource":"arm","sheet":"body","insert_mode":-2}`), &c)
	if err != nil {
		t.Fatal(err)
	}
	want := CloneLayer{
		NewLayer:       "arm_copy",
		SourceLayer:    "arm",
		ReferenceLayer: "body",
		VariantIndex:   0xFFFFFFFF,
	}
	if c != want {
		t.Errorf("got %+v, want %+v", c, want)
	}

	// A missing variant implies inserting above.
	c = CloneLayer{}
	if err := json.Unmarshal([]byte(`{"new_layer":"a","source_layer":"b"}`), &c); err != nil {
		t.Fatal(err)
	}
	if c.VariantIndex != 1 {
		t.Errorf("variant = %d, want 1", c.VariantIndex)
	}
}

func TestBlendString(t *testing.T) {
	if s := BlendAdditive.String(); s != "Additive" {
		t.Errorf("BlendAdditive = %q", s)
	}
	if s := Blend(99).String(); s != "Invalid" {
		t.Errorf("Blend(99) = %q", s)
	}
	if Blend(99).Valid() {
		t.Error("Blend(99) is not valid")
	}
	if !BlendScreen.Valid() {
		t.Error("BlendScreen is valid")
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
