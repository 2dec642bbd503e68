package msmbin

// Immediate is the tri-state interpolation tag paired with every keyframe
// field. The codec stores and restores the tag; how a runtime interpolates
// the paired value is not its business.
type Immediate int8

const (
	ImmediateUnset Immediate = -1
	ImmediateSet   Immediate = 0
	ImmediateNone  Immediate = 1
)

// String returns a string representation of the tag. If the tag is not
// valid, then the returned value will be "Invalid".
func (i Immediate) String() string {
	switch i {
	case ImmediateUnset:
		return "Unset"
	case ImmediateSet:
		return "Set"
	case ImmediateNone:
		return "None"
	}
	return "Invalid"
}

// Blend identifies a layer blend mode.
type Blend uint32

const (
	BlendStandard         Blend = 0 // Default alpha blend.
	BlendPremultAlpha     Blend = 1 // GL_ONE, GL_ONE_MINUS_SRC_ALPHA.
	BlendAdditive         Blend = 2
	BlendPremultAlphaAlt  Blend = 3
	BlendPremultAlphaAlt2 Blend = 4
	BlendInheritState     Blend = 5 // Leave GL state untouched.
	BlendMultiply         Blend = 6
	BlendScreen           Blend = 7
)

var blendStrings = map[Blend]string{
	BlendStandard:         "Standard",
	BlendPremultAlpha:     "PremultAlpha",
	BlendAdditive:         "Additive",
	BlendPremultAlphaAlt:  "PremultAlphaAlt",
	BlendPremultAlphaAlt2: "PremultAlphaAlt2",
	BlendInheritState:     "InheritState",
	BlendMultiply:         "Multiply",
	BlendScreen:           "Screen",
}

// Valid returns whether the value is a blend mode known by the codec.
func (b Blend) Valid() bool {
	_, ok := blendStrings[b]
	return ok
}

// String returns a string representation of the blend mode. If the mode is
// not valid, then the returned value will be "Invalid".
func (b Blend) String() string {
	s, ok := blendStrings[b]
	if !ok {
		return "Invalid"
	}
	return s
}

// DataValue is a scalar keyframe field.
type DataValue struct {
	Immediate Immediate `json:"immediate"`
	Value     float32   `json:"value"`
}

// DataXY is a two-component keyframe field.
type DataXY struct {
	Immediate Immediate `json:"immediate"`
	X         float32   `json:"x"`
	Y         float32   `json:"y"`
}

// DataRect is a rectangle keyframe field.
type DataRect struct {
	Immediate Immediate `json:"immediate"`
	X         float32   `json:"x"`
	Y         float32   `json:"y"`
	W         float32   `json:"w"`
	H         float32   `json:"h"`
}

// DataString is a string keyframe field.
type DataString struct {
	Immediate Immediate `json:"immediate"`
	String    string    `json:"string"`
}

// DataRGB is a color keyframe field.
type DataRGB struct {
	Immediate Immediate `json:"immediate"`
	Red       uint8     `json:"red"`
	Green     uint8     `json:"green"`
	Blue      uint8     `json:"blue"`
}
