package models

// Image effect plugin identifiers understood by the dimension transform.
const (
	EffectScale        = "image_scale"
	EffectResize       = "image_resize"
	EffectCrop         = "image_crop"
	EffectScaleAndCrop = "image_scale_and_crop"
)

// ImageEffect is one step of an image style pipeline. Width or Height of 0
// means "unset" for scale effects.
type ImageEffect struct {
	ID      string `json:"id"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Upscale bool   `json:"upscale,omitempty"`
}

// ImageStyle is a named derivative definition configured by a site admin.
type ImageStyle struct {
	Name    string        `json:"name"`
	Label   string        `json:"label"`
	Effects []ImageEffect `json:"effects"`
}
