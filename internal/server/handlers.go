package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cellplot/cellplot/internal/chart"
	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/internal/store"
	"github.com/rs/zerolog/log"
)

// imageResponse is returned by both image endpoints.
type imageResponse struct {
	ImageURL    string `json:"image_url"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// freeAxes names the rendered axes. Left and right mirror primary and secondary for
// clients written against the older response.
type freeAxes struct {
	Primary   string  `json:"primary"`
	Secondary *string `json:"secondary"`
	Left      string  `json:"left"`
	Right     *string `json:"right"`
}

type freeResponse struct {
	imageResponse
	Axes         freeAxes          `json:"axes"`
	LabelAxisMap map[string]string `json:"label_axis_map"`
}

type segmentRequest struct {
	CellID  string `json:"cell_id"`
	Segment string `json:"segment"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleCells(w http.ResponseWriter, r *http.Request) {
	rs, err := s.records()
	if err != nil {
		writeError(w, err)
		return
	}
	cells, err := store.FetchCells(r.Context(), rs, r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cells)
}

func (s *Server) handleCycleSummaries(w http.ResponseWriter, r *http.Request) {
	rs, err := s.records()
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := store.FetchCycleSummaries(r.Context(), rs, r.URL.Query().Get("cell_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCycleTimeseries(w http.ResponseWriter, r *http.Request) {
	rs, err := s.records()
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	resp, err := store.FetchTimeseries(r.Context(), rs, q.Get("cell_id"), q.Get("cycle_index"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSegmentImage(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req segmentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, contract.BadRequestf("invalid segment request: %v", err))
		return
	}
	rs, err := s.records()
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := chart.SegmentChart(r.Context(), rs, s.composer, req.CellID, req.Segment)
	if err != nil {
		writeError(w, err)
		return
	}
	img, err := s.storeImage(res)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, img)
}

func (s *Server) handleFreeImage(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	req, err := chart.ParseRequest(body)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.composer.Render(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	img, err := s.storeImage(res)
	if err != nil {
		writeError(w, err)
		return
	}

	labels := make(map[string]string, len(res.LabelAxisMap))
	for label, side := range res.LabelAxisMap {
		labels[label] = string(side)
	}
	writeJSON(w, http.StatusOK, freeResponse{
		imageResponse: img,
		Axes: freeAxes{
			Primary:   res.Axes.Primary,
			Secondary: res.Axes.Secondary,
			Left:      res.Axes.Primary,
			Right:     res.Axes.Secondary,
		},
		LabelAxisMap: labels,
	})
}

// storeImage persists a rendered chart and builds the image part of the response.
func (s *Server) storeImage(res *chart.Result) (imageResponse, error) {
	url, err := s.images.Store(res.Image, "chart.png")
	if err != nil {
		return imageResponse{}, err
	}
	return imageResponse{
		ImageURL:    url,
		ImageBase64: base64.StdEncoding.EncodeToString(res.Image),
		MimeType:    res.MimeType,
	}, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, contract.BadRequestf("payload larger than %d bytes", tooLarge.Limit)
		}
		return nil, contract.BadRequestf("failed to read payload: %v", err)
	}
	return body, nil
}

// statusFor maps error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, contract.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, contract.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
