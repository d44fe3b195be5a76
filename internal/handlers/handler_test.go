package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/fitmotion/form-analyzer/internal/config"
	"github.com/fitmotion/form-analyzer/internal/handlers"
	"github.com/fitmotion/form-analyzer/internal/pipeline"
	"github.com/fitmotion/form-analyzer/internal/pose"
	"github.com/fitmotion/form-analyzer/internal/service"
	"github.com/fitmotion/form-analyzer/internal/store"
	"github.com/fitmotion/form-analyzer/internal/video"
)

type stubSource struct {
	frames int
	pos    int
}

func (s *stubSource) Next(_ context.Context) (*video.Frame, error) {
	if s.pos >= s.frames {
		return nil, io.EOF
	}
	frame := &video.Frame{Index: s.pos, Width: 100, Height: 100}
	s.pos++
	return frame, nil
}

func (s *stubSource) Close() error { return nil }

type stubOpener struct {
	resolveErr error
}

func (o *stubOpener) Resolve(string) error { return o.resolveErr }

func (o *stubOpener) Open(context.Context, string) (video.Source, error) {
	return &stubSource{frames: 10}, nil
}

type stubEstimator struct{}

func (stubEstimator) Detect(_ context.Context, _ *video.Frame) ([]pose.Detection, error) {
	return []pose.Detection{{
		Score: 0.9,
		Landmarks: map[string]pose.Keypoint{
			"left_shoulder":  {X: 0.5, Y: 0.2, Visibility: 1},
			"left_elbow":     {X: 0.5, Y: 0.4, Visibility: 1},
			"left_wrist":     {X: 0.7, Y: 0.4, Visibility: 1},
			"right_shoulder": {X: 0.5, Y: 0.2, Visibility: 1},
			"right_elbow":    {X: 0.5, Y: 0.4, Visibility: 1},
			"right_wrist":    {X: 0.7, Y: 0.4, Visibility: 1},
			"left_hip":       {X: 0.5, Y: 0.6, Visibility: 1},
			"left_knee":      {X: 0.5, Y: 0.8, Visibility: 1},
			"left_ankle":     {X: 0.5, Y: 1.0, Visibility: 1},
			"right_hip":      {X: 0.5, Y: 0.6, Visibility: 1},
			"right_knee":     {X: 0.5, Y: 0.8, Visibility: 1},
			"right_ankle":    {X: 0.5, Y: 1.0, Visibility: 1},
		},
	}}, nil
}

func newTestRouter(t *testing.T, opener video.Opener) chi.Router {
	t.Helper()

	cfg := config.NewDefault()
	cfg.Database.Name = filepath.Join(t.TempDir(), "handlers.db")

	db, err := store.InitDB(cfg)
	require.NoError(t, err)

	s := store.NewStore(db)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })

	adapter := pipeline.NewAdapter(stubEstimator{}, pipeline.SelectHighestConfidence)
	p := pipeline.New(opener, adapter, pipeline.NewRuleClassifier(), pipeline.NewEvaluator())

	dispatcher := service.NewDispatcher(1, 4)
	jobSrv := service.NewJobService(p, service.NewRecorder(s), dispatcher, opener, s, pipeline.Options{
		SampleEveryN: 1,
		MaxFrames:    5,
	})

	router := chi.NewRouter()
	handlers.NewServiceHandler(jobSrv).Routes(router)
	return router
}

func doRequest(router chi.Router, method, target string, body []byte) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitJob_InvalidBody(t *testing.T) {
	router := newTestRouter(t, &stubOpener{})

	rec := doRequest(router, http.MethodPost, "/api/v1/jobs", []byte(`{not json`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Message)
}

func TestSubmitJob_MissingVideoReference(t *testing.T) {
	router := newTestRouter(t, &stubOpener{})

	rec := doRequest(router, http.MethodPost, "/api/v1/jobs", []byte(`{"mode":"sync"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitJob_InvalidMode(t *testing.T) {
	router := newTestRouter(t, &stubOpener{})

	rec := doRequest(router, http.MethodPost, "/api/v1/jobs", []byte(`{"video_reference":"clip.mp4","mode":"later"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitJob_VideoNotFound(t *testing.T) {
	router := newTestRouter(t, &stubOpener{resolveErr: io.ErrUnexpectedEOF})

	rec := doRequest(router, http.MethodPost, "/api/v1/jobs", []byte(`{"video_reference":"missing.mp4","mode":"sync"}`))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitJob_SyncRoundTrip(t *testing.T) {
	router := newTestRouter(t, &stubOpener{})

	rec := doRequest(router, http.MethodPost, "/api/v1/jobs",
		[]byte(`{"job_id":"job-1","video_reference":"clip.mp4","mode":"sync"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var status handlers.JobStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, "job-1", status.JobID)
	require.Equal(t, "completed", status.Status)

	rec = doRequest(router, http.MethodGet, "/api/v1/jobs/job-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report handlers.ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, "job-1", report.JobID)
	require.Equal(t, "pushup", report.Activity)
	require.True(t, report.IsCorrect)
	require.NotEmpty(t, report.Report)
}

func TestSubmitJob_AsyncAccepted(t *testing.T) {
	router := newTestRouter(t, &stubOpener{})

	rec := doRequest(router, http.MethodPost, "/api/v1/jobs",
		[]byte(`{"job_id":"job-1","video_reference":"clip.mp4"}`))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var status handlers.JobStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, "queued", status.Status)
}

func TestGetJob_NotFound(t *testing.T) {
	router := newTestRouter(t, &stubOpener{})

	rec := doRequest(router, http.MethodGet, "/api/v1/jobs/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListJobs(t *testing.T) {
	router := newTestRouter(t, &stubOpener{})

	for _, id := range []string{"job-a", "job-b"} {
		rec := doRequest(router, http.MethodPost, "/api/v1/jobs",
			[]byte(`{"job_id":"`+id+`","video_reference":"clip.mp4","mode":"sync"}`))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(router, http.MethodGet, "/api/v1/jobs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reports []handlers.ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 2)
}

func TestListJobs_InvalidLimit(t *testing.T) {
	router := newTestRouter(t, &stubOpener{})

	rec := doRequest(router, http.MethodGet, "/api/v1/jobs?limit=zero", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &stubOpener{})

	rec := doRequest(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
