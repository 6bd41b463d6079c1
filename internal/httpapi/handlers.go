package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"cliptag/internal/clipstore"
	"cliptag/internal/library"
	"cliptag/internal/logging"
	"cliptag/internal/services"
)

const (
	uploadField     = "audioFiles"
	uploadDataField = "fileData"
	maxUploadFiles  = 20
	formMemory      = 32 << 20
)

var acceptedMediaTypes = map[string]struct{}{
	"audio/wav":      {},
	"audio/x-wav":    {},
	"audio/wave":     {},
	"audio/vnd.wave": {},
}

type uploadResponse struct {
	Clips []*clipstore.Clip `json:"clips"`
}

type healthResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	perFile := s.lib.MaxUploadBytes()
	if perFile > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, perFile*maxUploadFiles+formMemory)
	}
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File[uploadField]
	if len(files) == 0 {
		s.writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}
	if len(files) > maxUploadFiles {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d files per upload", maxUploadFiles))
		return
	}

	overrides, err := parseOverrides(r.MultipartForm.Value[uploadDataField])
	if err != nil {
		s.writeFailure(w, r, "upload", err)
		return
	}

	// Every part is checked before anything is stored.
	for _, fh := range files {
		if !acceptedAudio(fh) {
			s.writeError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("%s: only WAV files are accepted", fh.Filename))
			return
		}
		if perFile > 0 && fh.Size > perFile {
			s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("%s: file exceeds %d bytes", fh.Filename, perFile))
			return
		}
	}

	clips := make([]*clipstore.Clip, 0, len(files))
	for i, fh := range files {
		clip, err := s.ingestPart(r, fh, overrideAt(overrides, i))
		if err != nil {
			if errors.Is(err, library.ErrTooLarge) {
				s.writeError(w, http.StatusRequestEntityTooLarge, err.Error())
				return
			}
			s.writeFailure(w, r, "upload", err)
			return
		}
		clips = append(clips, clip)
	}

	logging.WithContext(r.Context(), s.log()).Info("upload processed", logging.Int("clips", len(clips)))
	s.writeJSON(w, http.StatusCreated, uploadResponse{Clips: clips})
}

func (s *Server) ingestPart(r *http.Request, fh *multipart.FileHeader, override library.Override) (*clipstore.Clip, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "httpapi", "open upload part", fh.Filename, err)
	}
	defer f.Close()
	return s.lib.Ingest(r.Context(), library.Upload{
		OriginalName: fh.Filename,
		Body:         f,
		Override:     override,
	})
}

func parseOverrides(values []string) ([]library.Override, error) {
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return nil, nil
	}
	var overrides []library.Override
	if err := json.Unmarshal([]byte(values[0]), &overrides); err != nil {
		return nil, services.Wrap(services.ErrValidation, "httpapi", "parse fileData", "expected a JSON array", err)
	}
	return overrides, nil
}

func overrideAt(overrides []library.Override, i int) library.Override {
	if i < len(overrides) {
		return overrides[i]
	}
	return library.Override{}
}

// acceptedAudio reports whether a part is a WAV file, by extension or by
// its declared media type.
func acceptedAudio(fh *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(fh.Filename), ".wav") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	_, ok := acceptedMediaTypes[strings.ToLower(mediaType)]
	return ok
}

func (s *Server) handleListClips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := clipstore.Filter{
		Tag:   q.Get("tag"),
		Key:   q.Get("key"),
		Query: q.Get("q"),
	}
	clips, err := s.lib.List(r.Context(), filter)
	if err != nil {
		s.writeFailure(w, r, "list clips", err)
		return
	}
	if clips == nil {
		clips = []clipstore.Clip{}
	}
	s.writeJSON(w, http.StatusOK, clips)
}

func (s *Server) handleGetClip(w http.ResponseWriter, r *http.Request) {
	clip, err := s.lib.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeFailure(w, r, "get clip", err)
		return
	}
	s.writeJSON(w, http.StatusOK, clip)
}

func (s *Server) handleUpdateClip(w http.ResponseWriter, r *http.Request) {
	var changes library.Changes
	if err := s.decodeBody(r, &changes); err != nil {
		s.writeFailure(w, r, "update clip", err)
		return
	}
	id := mux.Vars(r)["id"]
	ctx := services.WithClipID(r.Context(), id)
	clip, err := s.lib.Update(ctx, id, changes)
	if err != nil {
		s.writeFailure(w, r.WithContext(ctx), "update clip", err)
		return
	}
	s.writeJSON(w, http.StatusOK, clip)
}

func (s *Server) handleDeleteClip(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx := services.WithClipID(r.Context(), id)
	if err := s.lib.Delete(ctx, id); err != nil {
		s.writeFailure(w, r.WithContext(ctx), "delete clip", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: s.now().Sub(s.started).Seconds(),
	})
}
