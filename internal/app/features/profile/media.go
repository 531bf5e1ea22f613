// internal/app/features/profile/media.go
package profile

import (
	"context"
	"net/http"

	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/app/system/mediaupload"
	"github.com/dancecollective/gigboard/internal/app/system/timeouts"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"go.uber.org/zap"
)

// maxUploadBytes caps the multipart form we buffer for a media upload.
const maxUploadBytes = 64 << 20

// HandleUploadMedia moves one file to Cloudinary and records it with the
// backend. Three steps: ask the backend to sign the upload, stream the file
// to Cloudinary, save the returned identifiers. The file never lands on this
// server's disk.
func (h *Handler) HandleUploadMedia(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.ErrLog.LogBadRequest(w, r, "upload: parse multipart", err,
			"The upload could not be read. Try a smaller file.", "/profile")
		return
	}
	kind := r.PostFormValue("kind")
	if !validKind(kind) {
		h.ErrLog.LogBadRequest(w, r, "upload: bad kind", nil, "Unknown media kind.", "/profile")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "upload: missing file", err, "Choose a file to upload.", "/profile")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	ticket, err := h.Media.Sign(ctx, s.Token, kind)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "upload: sign", err,
			"The upload could not be authorized. Please try again.", "/profile")
		return
	}

	res, err := h.Uploads.Upload(ctx, mediaupload.Ticket{
		CloudName:      ticket.CloudName,
		APIKey:         ticket.APIKey,
		Timestamp:      ticket.Timestamp,
		Signature:      ticket.Signature,
		Folder:         ticket.Folder,
		ResourceType:   ticket.ResourceType,
		AllowedFormats: ticket.AllowedFormats,
	}, header.Filename, file)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "upload: cloudinary", err,
			"The file could not be uploaded. Please try again.", "/profile")
		return
	}

	item := models.MediaItem{
		Kind:         kind,
		ResourceType: res.ResourceType,
		PublicID:     res.PublicID,
		SecureURL:    res.SecureURL,
		Format:       res.Format,
		Bytes:        res.Bytes,
	}
	if err := h.Media.Save(ctx, s.Token, item); err != nil {
		// The asset is already in Cloudinary; without the record the user
		// just retries and the backend replaces the orphan on next save.
		h.ErrLog.LogServerError(w, r, "upload: save record", err,
			"The file was uploaded but could not be saved to your profile. Please try again.", "/profile")
		return
	}

	h.Log.Info("media uploaded",
		zap.Int64("user_id", s.User.UserID),
		zap.String("kind", kind),
		zap.String("public_id", res.PublicID))
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// HandleDeleteMedia removes the record for one media kind.
func (h *Handler) HandleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)

	kind := r.PostFormValue("kind")
	if !validKind(kind) {
		h.ErrLog.LogBadRequest(w, r, "delete media: bad kind", nil, "Unknown media kind.", "/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Media.Delete(ctx, s.Token, kind); err != nil {
		h.ErrLog.LogServerError(w, r, "delete media", err,
			"The file could not be removed. Please try again.", "/profile")
		return
	}

	h.Log.Info("media deleted", zap.Int64("user_id", s.User.UserID), zap.String("kind", kind))
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func validKind(kind string) bool {
	for _, k := range models.MediaKinds {
		if k == kind {
			return true
		}
	}
	return false
}
