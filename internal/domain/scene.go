package domain

import "strings"

// LightingDirection tells the compositor where the key light comes from.
type LightingDirection string

const (
	LightLeft   LightingDirection = "Left"
	LightRight  LightingDirection = "Right"
	LightTop    LightingDirection = "Top"
	LightBottom LightingDirection = "Bottom"
	LightFront  LightingDirection = "Front"
	LightBack   LightingDirection = "Back"
	LightNone   LightingDirection = "None"
)

// LightingCondition describes the overall quality of the light.
type LightingCondition string

const (
	ConditionNatural  LightingCondition = "Natural"
	ConditionStudio   LightingCondition = "Studio"
	ConditionHard     LightingCondition = "Hard"
	ConditionSoft     LightingCondition = "Soft"
	ConditionWarm     LightingCondition = "Warm"
	ConditionCool     LightingCondition = "Cool"
	ConditionNeon     LightingCondition = "Neon"
	ConditionSunlight LightingCondition = "Sunlight"
)

// CameraAngle enumerates the supported virtual camera positions.
type CameraAngle string

const (
	AngleEyeLevel  CameraAngle = "Eye Level"
	AngleLow       CameraAngle = "Low Angle"
	AngleHigh      CameraAngle = "High Angle"
	AngleTopDown   CameraAngle = "Top Down"
	AngleIsometric CameraAngle = "Isometric"
)

// DepthOfField enumerates focus depth presets.
type DepthOfField string

const (
	DepthShallow DepthOfField = "Shallow"
	DepthDeep    DepthOfField = "Deep"
	DepthMedium  DepthOfField = "Medium"
)

// ObjectLocation places a set-dressing object relative to the product.
type ObjectLocation string

const (
	LocationForeground ObjectLocation = "Foreground"
	LocationBackground ObjectLocation = "Background"
	LocationLeft       ObjectLocation = "Left"
	LocationRight      ObjectLocation = "Right"
	LocationCenter     ObjectLocation = "Center"
)

// Lighting describes how the scene is lit.
type Lighting struct {
	Direction  LightingDirection `json:"direction"`
	Conditions LightingCondition `json:"conditions"`
	Shadows    string            `json:"shadows"`
}

// Aesthetics captures the creative direction for the scene.
type Aesthetics struct {
	MoodAtmosphere string `json:"mood_atmosphere"`
	ColorScheme    string `json:"color_scheme"`
	Composition    string `json:"composition"`
}

// Photographic captures camera and lens choices.
type Photographic struct {
	CameraAngle     CameraAngle  `json:"camera_angle"`
	LensFocalLength string       `json:"lens_focal_length"`
	DepthOfField    DepthOfField `json:"depth_of_field"`
}

// SceneObject is a supporting prop placed around the product. Ordering is
// insertion order from the planner and feeds composition instructions.
type SceneObject struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Location    ObjectLocation `json:"location,omitempty"`
}

// StructuredPrompt is the machine-usable half of a scene description. The
// background must describe the environment around the product, never the
// product itself.
type StructuredPrompt struct {
	ShortDescription  string        `json:"short_description"`
	BackgroundSetting string        `json:"background_setting"`
	Lighting          Lighting      `json:"lighting"`
	Aesthetics        Aesthetics    `json:"aesthetics"`
	Photographic      Photographic  `json:"photographic_characteristics"`
	Objects           []SceneObject `json:"objects"`
}

// SceneSchema is the structured scene description produced by the planner and
// consumed by the generation pipeline. A fresh schema is built per request and
// discarded once the run completes.
type SceneSchema struct {
	Prompt           string           `json:"prompt"`
	StructuredPrompt StructuredPrompt `json:"structured_prompt"`
	AspectRatio      string           `json:"aspect_ratio,omitempty"`
	SyncMode         bool             `json:"sync_mode,omitempty"`
}

// Normalize repairs enum fields in place so every schema leaving the planner
// holds legal values. Language models occasionally invent values outside the
// closed sets, so repair beats rejection here.
func (s *SceneSchema) Normalize() {
	sp := &s.StructuredPrompt
	sp.Lighting.Direction = NormalizeLightingDirection(string(sp.Lighting.Direction))
	sp.Lighting.Conditions = NormalizeLightingCondition(string(sp.Lighting.Conditions))
	sp.Photographic.CameraAngle = NormalizeCameraAngle(string(sp.Photographic.CameraAngle))
	sp.Photographic.DepthOfField = NormalizeDepthOfField(string(sp.Photographic.DepthOfField))
	for i := range sp.Objects {
		sp.Objects[i].Location = NormalizeObjectLocation(string(sp.Objects[i].Location))
	}
	if strings.TrimSpace(s.Prompt) == "" {
		s.Prompt = strings.TrimSpace(sp.ShortDescription)
	}
	if strings.TrimSpace(s.Prompt) == "" {
		s.Prompt = strings.TrimSpace(sp.BackgroundSetting)
	}
}

// NormalizeLightingDirection maps free-form input onto the closed direction
// set, defaulting to None.
func NormalizeLightingDirection(v string) LightingDirection {
	switch canonical(v) {
	case "left":
		return LightLeft
	case "right":
		return LightRight
	case "top":
		return LightTop
	case "bottom":
		return LightBottom
	case "front":
		return LightFront
	case "back":
		return LightBack
	default:
		return LightNone
	}
}

// NormalizeLightingCondition maps free-form input onto the closed condition
// set, defaulting to Studio.
func NormalizeLightingCondition(v string) LightingCondition {
	switch canonical(v) {
	case "natural":
		return ConditionNatural
	case "hard":
		return ConditionHard
	case "soft":
		return ConditionSoft
	case "warm":
		return ConditionWarm
	case "cool":
		return ConditionCool
	case "neon":
		return ConditionNeon
	case "sunlight":
		return ConditionSunlight
	case "studio":
		return ConditionStudio
	default:
		return ConditionStudio
	}
}

// NormalizeCameraAngle maps free-form input onto the closed angle set,
// defaulting to Eye Level.
func NormalizeCameraAngle(v string) CameraAngle {
	switch canonical(v) {
	case "low angle", "low":
		return AngleLow
	case "high angle", "high":
		return AngleHigh
	case "top down", "topdown", "top-down":
		return AngleTopDown
	case "isometric":
		return AngleIsometric
	case "eye level", "eyelevel", "eye-level":
		return AngleEyeLevel
	default:
		return AngleEyeLevel
	}
}

// NormalizeDepthOfField defaults unknown values to Medium.
func NormalizeDepthOfField(v string) DepthOfField {
	switch canonical(v) {
	case "shallow":
		return DepthShallow
	case "deep":
		return DepthDeep
	default:
		return DepthMedium
	}
}

// NormalizeObjectLocation clears anything outside the location set. The field
// is optional, so an empty value is legal.
func NormalizeObjectLocation(v string) ObjectLocation {
	switch canonical(v) {
	case "foreground":
		return LocationForeground
	case "background":
		return LocationBackground
	case "left":
		return LocationLeft
	case "right":
		return LocationRight
	case "center", "centre":
		return LocationCenter
	default:
		return ""
	}
}

func canonical(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}
