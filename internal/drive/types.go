package drive

import "time"

// UploadInput describes a local file to upload
type UploadInput struct {
	// Path of the local source file
	Path string

	// Title of the Drive file; defaults to the base name of Path
	Title string

	// Description stored on the Drive file
	Description string
}

// FileInfo represents metadata about an uploaded Drive file
type FileInfo struct {
	// ID is the unique identifier assigned by Drive
	ID string `json:"id"`

	// Name is the title of the file
	Name string `json:"name"`

	Description string `json:"description,omitempty"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`

	// Size is the size of the file in bytes
	Size int64 `json:"size,omitempty"`

	// CreatedTime is when the file was created
	CreatedTime time.Time `json:"createdTime"`

	// WebViewLink is a link for opening the file in the Drive viewer
	WebViewLink string `json:"webViewLink,omitempty"`
}
