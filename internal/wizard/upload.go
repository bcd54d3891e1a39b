package wizard

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// UploadsBase is where the backend serves stored documents from.
const UploadsBase = "/uploads/"

var (
	allowedExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".pdf": true}
	allowedMIMETypes  = map[string]bool{"image/jpeg": true, "image/jpg": true, "image/png": true, "application/pdf": true}
)

// File is a document picked by the user.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// FileURL resolves a stored document reference. Absolute URLs and rooted
// paths are returned unchanged.
func FileURL(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "/"):
		return ref
	}
	return UploadsBase + strings.TrimPrefix(ref, "./")
}

func (w *Wizard) Uploading(slot Slot) bool { return w.uploading[slot] }

// Preview is the local copy of the last file uploaded into slot.
func (w *Wizard) Preview(slot Slot) string { return w.previews[slot] }

func (w *Wizard) DocumentURL(slot Slot) string {
	docs := w.draft.Documents()
	switch slot {
	case SlotAadhaarFront:
		return FileURL(docs.AadhaarFront)
	case SlotAadhaarBack:
		return FileURL(docs.AadhaarBack)
	case SlotPlayerPhoto:
		return FileURL(docs.PlayerPhoto)
	}
	return ""
}

func (w *Wizard) checkFile(slot Slot, f File) *Error {
	if !slot.Valid() {
		return validationErr("slot", "Unknown document type")
	}
	if f.Content == nil {
		return validationErr(string(slot), "Please choose a file for the "+slot.Label())
	}
	if f.Size > w.cfg.MaxUploadSize {
		return validationErr(string(slot), "File size must not exceed "+formatSize(w.cfg.MaxUploadSize))
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(f.Name))] {
		return validationErr(string(slot), "Only JPG, PNG or PDF files are allowed")
	}
	if f.ContentType != "" {
		mt, _, err := mime.ParseMediaType(f.ContentType)
		if err != nil || !allowedMIMETypes[strings.ToLower(mt)] {
			return validationErr(string(slot), "Only JPG, PNG or PDF files are allowed")
		}
	}
	return nil
}

// Upload validates f locally, keeps a preview copy and sends it to the
// backend. Size and type problems are reported before any network call.
func (w *Wizard) Upload(ctx context.Context, slot Slot, f File) (string, error) {
	if err := w.checkFile(slot, f); err != nil {
		return "", w.fail(err)
	}

	ext := strings.ToLower(filepath.Ext(f.Name))
	tmp, err := os.CreateTemp(w.cfg.PreviewDir, "preview-*"+ext)
	if err != nil {
		return "", w.fail(&Error{Kind: KindValidation, Field: string(slot), Message: "Failed to read file", Err: err})
	}
	keep := false
	defer func() {
		tmp.Close()
		if !keep {
			os.Remove(tmp.Name())
		}
	}()

	n, err := io.Copy(tmp, io.LimitReader(f.Content, w.cfg.MaxUploadSize+1))
	if err != nil {
		return "", w.fail(&Error{Kind: KindValidation, Field: string(slot), Message: "Failed to read file", Err: err})
	}
	if n > w.cfg.MaxUploadSize {
		return "", w.fail(validationErr(string(slot), "File size must not exceed "+formatSize(w.cfg.MaxUploadSize)))
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", w.fail(&Error{Kind: KindValidation, Field: string(slot), Message: "Failed to read file", Err: err})
	}

	w.uploading[slot] = true
	path, err := w.ports.Uploader.Upload(ctx, slot, filepath.Base(f.Name), tmp)
	delete(w.uploading, slot)
	if err != nil {
		w.log.WithError(err).WithField("slot", slot).Warn("document upload failed")
		return "", w.fail(networkErr(KindNetwork, err, "Failed to upload file"))
	}

	docs := w.draft.Documents()
	switch slot {
	case SlotAadhaarFront:
		docs.AadhaarFront = path
	case SlotAadhaarBack:
		docs.AadhaarBack = path
	case SlotPlayerPhoto:
		docs.PlayerPhoto = path
	}
	if err := w.draft.SetDocuments(docs); err != nil {
		return "", w.draftErr(err, "")
	}

	w.releasePreview(slot)
	w.previews[slot] = tmp.Name()
	keep = true
	w.messages = Messages{Success: "Uploaded " + slot.Label()}
	return path, nil
}

func (w *Wizard) releasePreview(slot Slot) {
	path, ok := w.previews[slot]
	if !ok {
		return
	}
	delete(w.previews, slot)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		w.log.WithError(err).WithField("slot", slot).Debug("failed to remove preview")
	}
}

func formatSize(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	if n >= 1<<10 && n%(1<<10) == 0 {
		return fmt.Sprintf("%dKB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}
