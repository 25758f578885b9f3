package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hairizuan-noorazman/std-generator/caption"
	"github.com/hairizuan-noorazman/std-generator/logger"
	"github.com/hairizuan-noorazman/std-generator/session"
	"github.com/hairizuan-noorazman/std-generator/stdgen"
	"github.com/hairizuan-noorazman/std-generator/storage"
)

const (
	// MaxSpecFileSize is the largest accepted specification file.
	MaxSpecFileSize = 1 << 20

	// MaxUploadSize is the largest accepted multipart body for images.
	MaxUploadSize = 32 << 20
)

// UploadHandler accepts specification files and spec images.
type UploadHandler struct {
	sessionManager *session.Manager
	captioner      caption.Captioner
	storage        storage.BlobStorage
	credentials    *Credentials
	logger         logger.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(
	sessionManager *session.Manager,
	captioner caption.Captioner,
	blobStorage storage.BlobStorage,
	credentials *Credentials,
	log logger.Logger,
) *UploadHandler {
	return &UploadHandler{
		sessionManager: sessionManager,
		captioner:      captioner,
		storage:        blobStorage,
		credentials:    credentials,
		logger:         log,
	}
}

// SpecFileResponse carries the decoded text of an uploaded spec file.
type SpecFileResponse struct {
	FileName string `json:"file_name"`
	SpecText string `json:"spec_text"`
}

// SpecFile decodes an uploaded .txt specification. The text is returned to
// the client, which uses it in place of the typed specification.
func (h *UploadHandler) SpecFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxSpecFileSize+4096)
	if err := r.ParseMultipartForm(MaxSpecFileSize); err != nil {
		respondError(w, http.StatusBadRequest, "file too large or invalid form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if strings.ToLower(filepath.Ext(header.Filename)) != ".txt" {
		respondError(w, http.StatusBadRequest, "invalid file type, must be .txt")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxSpecFileSize+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	if len(data) > MaxSpecFileSize {
		respondError(w, http.StatusBadRequest, "file too large")
		return
	}
	if !utf8.Valid(data) {
		respondError(w, http.StatusBadRequest, "file must be UTF-8 text")
		return
	}

	respondJSON(w, http.StatusOK, SpecFileResponse{
		FileName: filepath.Base(header.Filename),
		SpecText: string(data),
	})
}

// AddImages stages and captions uploaded images, appending their captions
// to the session.
func (h *UploadHandler) AddImages(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrRespond(w, r)
	if !ok {
		return
	}

	sess, err := h.sessionManager.Get(sessionID)
	if err != nil {
		respondDomainError(w, r, err, h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		h.logger.Error(r.Context(), "failed to parse multipart form", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusBadRequest, "file too large or invalid form data")
		return
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		respondError(w, http.StatusBadRequest, "at least one image is required")
		return
	}

	captions := make([]session.Caption, 0, len(headers))
	for i, header := range headers {
		c, err := h.stageImage(r.Context(), sess, len(sess.Captions)+i, header)
		if err != nil {
			h.discard(r.Context(), captions)
			respondDomainError(w, r, err, h.logger)
			return
		}
		captions = append(captions, c)
	}

	updated, err := h.sessionManager.AddCaptions(sessionID, captions...)
	if err != nil {
		h.discard(r.Context(), captions)
		respondDomainError(w, r, err, h.logger)
		return
	}

	h.logger.Info(r.Context(), "images captioned", map[string]interface{}{
		"session_id": sessionID.String(),
		"count":      len(captions),
	})

	respondJSON(w, http.StatusOK, newSessionResponse(updated, h.credentials))
}

// stageImage validates one upload, stores it and captions it.
func (h *UploadHandler) stageImage(ctx context.Context, sess *session.Session, index int, header *multipart.FileHeader) (session.Caption, error) {
	name := filepath.Base(header.Filename)
	mimeType, err := caption.MimeTypeFor(name)
	if err != nil {
		return session.Caption{}, err
	}

	file, err := header.Open()
	if err != nil {
		return session.Caption{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, caption.MaxImageBytes+1))
	if err != nil {
		return session.Caption{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > caption.MaxImageBytes {
		return session.Caption{}, fmt.Errorf("%w: %s is too large", caption.ErrUnsupportedImage, name)
	}

	// The content must agree with the extension.
	if detected := http.DetectContentType(data); detected != mimeType {
		return session.Caption{}, fmt.Errorf("%w: %s content is %s", caption.ErrUnsupportedImage, name, detected)
	}

	blobPath := storage.ImagePath(sess.ID, index, name)
	if err := h.storage.Upload(ctx, blobPath, bytes.NewReader(data)); err != nil {
		return session.Caption{}, fmt.Errorf("failed to stage image: %w", err)
	}

	text, err := h.captioner.Caption(ctx, name, bytes.NewReader(data), mimeType)
	if err != nil {
		h.deleteBlob(ctx, blobPath)
		return session.Caption{}, fmt.Errorf("%w: caption %s: %w", stdgen.ErrTransport, name, err)
	}

	return session.Caption{Name: name, Text: text, BlobPath: blobPath}, nil
}

// ClearImages removes all captions and their staged images.
func (h *UploadHandler) ClearImages(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrRespond(w, r)
	if !ok {
		return
	}

	removed, err := h.sessionManager.ClearCaptions(sessionID)
	if err != nil {
		respondDomainError(w, r, err, h.logger)
		return
	}
	h.discard(r.Context(), removed)

	respondSuccess(w, fmt.Sprintf("removed %d images", len(removed)))
}

func (h *UploadHandler) discard(ctx context.Context, captions []session.Caption) {
	for _, c := range captions {
		h.deleteBlob(ctx, c.BlobPath)
	}
}

func (h *UploadHandler) deleteBlob(ctx context.Context, blobPath string) {
	deleteStagedImage(ctx, h.storage, h.logger, blobPath)
}

// DeleteStagedImages returns a session expiry hook removing the session's
// staged images.
func DeleteStagedImages(blobStorage storage.BlobStorage, log logger.Logger) session.ExpireHook {
	return func(ctx context.Context, s *session.Session) {
		for _, c := range s.Captions {
			deleteStagedImage(ctx, blobStorage, log, c.BlobPath)
		}
	}
}

func deleteStagedImage(ctx context.Context, blobStorage storage.BlobStorage, log logger.Logger, blobPath string) {
	if blobPath == "" {
		return
	}
	if err := blobStorage.Delete(ctx, blobPath); err != nil && !errors.Is(err, storage.ErrFileNotFound) {
		log.Warn(ctx, "failed to delete staged image", map[string]interface{}{
			"error": err.Error(),
			"path":  blobPath,
		})
	}
}
