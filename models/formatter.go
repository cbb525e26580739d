package models

// Formatter setting keys.
const (
	SettingImageStyle      = "image_style"
	SettingImageStylePopup = "image_style_popup"
	SettingImageLink       = "image_link"
)

// FormatterSettings holds the display configuration of the popup formatter.
// An empty style name means the original image.
type FormatterSettings struct {
	ImageStyle      string `json:"image_style" query:"image_style"`
	ImageStylePopup string `json:"image_style_popup" query:"image_style_popup"`
	ImageLink       string `json:"image_link,omitempty" query:"image_link"`
}

// FieldDefinition describes the field a formatter is attached to.
type FieldDefinition struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	TargetType string `json:"target_type"`
}

// FormatterDefinition is the registration record of a formatter.
type FormatterDefinition struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	FieldTypes []string `json:"field_types"`
}

// SelectOption is one entry of a select element.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SelectElement is a settings form select input.
type SelectElement struct {
	Name         string         `json:"name"`
	Title        string         `json:"title"`
	DefaultValue string         `json:"default_value"`
	EmptyOption  string         `json:"empty_option,omitempty"`
	Options      []SelectOption `json:"options"`
}

// SettingsForm is the ordered list of form elements of a formatter.
type SettingsForm struct {
	Elements []SelectElement `json:"elements"`
}

// Element returns the element named name, or nil.
func (f *SettingsForm) Element(name string) *SelectElement {
	for i := range f.Elements {
		if f.Elements[i].Name == name {
			return &f.Elements[i]
		}
	}
	return nil
}

// Remove drops the element named name, keeping the order of the rest.
func (f *SettingsForm) Remove(name string) {
	kept := f.Elements[:0]
	for _, el := range f.Elements {
		if el.Name != name {
			kept = append(kept, el)
		}
	}
	f.Elements = kept
}

// Set replaces the element with the same name or appends it.
func (f *SettingsForm) Set(el SelectElement) {
	if existing := f.Element(el.Name); existing != nil {
		*existing = el
		return
	}
	f.Elements = append(f.Elements, el)
}
