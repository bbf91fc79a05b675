package server

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"submerge/internal/domain/merge"
	"submerge/internal/errors"
	"submerge/internal/pipeline"
	"submerge/internal/srt"
)

const maxUploadBytes = 64 << 20

type processRequest struct {
	Text      string          `json:"text" validate:"required"`
	Options   json.RawMessage `json:"options"`
	StartTime *srt.Timestamp  `json:"startTime"`
	EndTime   *srt.Timestamp  `json:"endTime"`
}

type processResponse struct {
	Output      string `json:"output"`
	BeforeCount int    `json:"beforeCount"`
	AfterCount  int    `json:"afterCount"`
}

type fileResult struct {
	Name        string `json:"name"`
	Content     string `json:"content"`
	BeforeCount int    `json:"beforeCount"`
	AfterCount  int    `json:"afterCount"`
}

type filesResponse struct {
	Files []fileResult `json:"files"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleProcess runs the pipeline over subtitle text posted as JSON.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		s.respondError(w, r, err)
		return
	}
	opts, err := decodeOptions(req.Options)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	tr, err := timeRange(req.StartTime, req.EndTime)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := pipeline.Run(req.Text, opts, tr, s.deps)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, processResponse{
		Output:      res.Output,
		BeforeCount: res.BeforeCount,
		AfterCount:  res.AfterCount,
	})
}

// handleProcessFiles runs the pipeline over each uploaded subtitle file.
// Form fields: files[] uploads, options as a JSON string, and an optional
// startTime/endTime pair.
func (s *Server) handleProcessFiles(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, r, errors.Wrap(err, errors.KindConfig, "invalid multipart form"))
		return
	}
	opts, err := decodeOptions(json.RawMessage(r.FormValue("options")))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	tr, err := formTimeRange(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var uploads []*multipart.FileHeader
	for _, fh := range r.MultipartForm.File["files"] {
		if fh.Filename == "" {
			continue
		}
		uploads = append(uploads, fh)
	}
	if len(uploads) == 0 {
		s.respondError(w, r, errors.Config("no subtitle files uploaded"))
		return
	}

	results := make([]fileResult, 0, len(uploads))
	for _, fh := range uploads {
		raw, err := readUpload(fh)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		res, err := pipeline.Run(raw, opts, tr, s.deps)
		if err != nil {
			s.respondError(w, r, errors.Wrapf(err, errors.KindOf(err), "process %q", fh.Filename))
			return
		}
		results = append(results, fileResult{
			Name:        fh.Filename,
			Content:     res.Output,
			BeforeCount: res.BeforeCount,
			AfterCount:  res.AfterCount,
		})
	}
	s.respond(w, http.StatusOK, filesResponse{Files: results})
}

func readUpload(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", errors.Wrapf(err, errors.KindConfig, "open upload %q", fh.Filename)
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return "", errors.Wrapf(err, errors.KindConfig, "read upload %q", fh.Filename)
	}
	return string(raw), nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, errors.KindConfig, "invalid request body")
	}
	return nil
}

// decodeOptions layers the request's option keys over the defaults, so a
// request only names the options it changes.
func decodeOptions(raw json.RawMessage) (merge.Options, error) {
	opts := merge.DefaultOptions()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &opts); err != nil {
			return merge.Options{}, errors.Wrap(err, errors.KindConfig, "invalid options")
		}
	}
	return opts, nil
}

// timeRange turns the optional pair into a range. Supplying only one end is
// a config error.
func timeRange(start, end *srt.Timestamp) (*merge.TimeRange, error) {
	if start == nil && end == nil {
		return nil, nil
	}
	if start == nil || end == nil {
		return nil, errors.Config("startTime and endTime must be provided together")
	}
	return &merge.TimeRange{Start: *start, End: *end}, nil
}

func formTimeRange(r *http.Request) (*merge.TimeRange, error) {
	var start, end *srt.Timestamp
	if v := r.FormValue("startTime"); v != "" {
		ts, err := srt.ParseTimestamp(v)
		if err != nil {
			return nil, errors.Wrap(err, errors.KindConfig, "invalid startTime")
		}
		start = &ts
	}
	if v := r.FormValue("endTime"); v != "" {
		ts, err := srt.ParseTimestamp(v)
		if err != nil {
			return nil, errors.Wrap(err, errors.KindConfig, "invalid endTime")
		}
		end = &ts
	}
	return timeRange(start, end)
}
