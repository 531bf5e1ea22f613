// internal/domain/models/media.go
package models

// Media kinds a user may keep one active file of.
const (
	MediaProfilePhoto = "profile_photo"
	MediaResume       = "resume"
	MediaShowreel     = "showreel"
)

// MediaKinds lists the valid upload kinds in display order.
var MediaKinds = []string{MediaProfilePhoto, MediaResume, MediaShowreel}

// MediaItem is the stored metadata for one uploaded asset. The file itself
// lives in Cloudinary; the backend only keeps this record.
type MediaItem struct {
	Kind         string `json:"kind"`
	ResourceType string `json:"resource_type"`
	PublicID     string `json:"public_id"`
	SecureURL    string `json:"secure_url"`
	Format       string `json:"format,omitempty"`
	Bytes        int64  `json:"bytes,omitempty"`
}

// UserMedia is the per-kind media summary for a user. Nil entries mean no
// active file of that kind.
type UserMedia struct {
	ProfilePhoto *MediaItem `json:"profile_photo"`
	Resume       *MediaItem `json:"resume"`
	Showreel     *MediaItem `json:"showreel"`
}

// ByKind returns the item for the given kind, or nil.
func (m UserMedia) ByKind(kind string) *MediaItem {
	switch kind {
	case MediaProfilePhoto:
		return m.ProfilePhoto
	case MediaResume:
		return m.Resume
	case MediaShowreel:
		return m.Showreel
	}
	return nil
}

// UploadTicket is a signed permission to upload one file directly to
// Cloudinary. The signature covers timestamp, folder, and allowed formats.
type UploadTicket struct {
	CloudName      string   `json:"cloudName"`
	APIKey         string   `json:"apiKey"`
	Timestamp      int64    `json:"timestamp"`
	Signature      string   `json:"signature"`
	Folder         string   `json:"folder"`
	ResourceType   string   `json:"resourceType"`
	AllowedFormats []string `json:"allowedFormats"`
}
