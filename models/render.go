package models

// LibraryDialogAjax is the client library intercepting use-ajax links and
// opening their response in a modal dialog.
const LibraryDialogAjax = "core/drupal.dialog.ajax"

// RenderContext carries request-scoped values needed while rendering.
type RenderContext struct {
	// SiteBaseURL is the absolute base URL of the site without trailing slash.
	SiteBaseURL string `json:"site_base_url"`
}

// Attachments lists assets the markup depends on.
type Attachments struct {
	Libraries []string `json:"library"`
}

// RenderElement is the rendered output of one field item.
type RenderElement struct {
	Delta    int         `json:"delta"`
	Markup   string      `json:"markup"`
	Attached Attachments `json:"attached"`
}

// PopupDetails is the payload of the popup route.
type PopupDetails struct {
	URLPopup string `json:"url_popup"`
}

// ViewRequest asks the formatter to render a media reference field.
type ViewRequest struct {
	Field    FieldDefinition   `json:"field"`
	Settings FormatterSettings `json:"settings"`
	Items    []MediaReference  `json:"items"`
}

// ViewResponse is the render result of a ViewRequest.
type ViewResponse struct {
	Elements []RenderElement `json:"elements"`
}
