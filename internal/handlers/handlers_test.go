package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/models"
	"alfredoptarigan/resume-extractor/internal/repositories"
	"alfredoptarigan/resume-extractor/internal/services"
)

type memoryDocs struct {
	mu   sync.Mutex
	docs map[uuid.UUID]models.Document
}

func (m *memoryDocs) Create(ctx context.Context, d *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[d.ID] = *d
	return nil
}

func (m *memoryDocs) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, repositories.ErrNotFound)
	}
	return &d, nil
}

type memoryAnalyses struct {
	mu       sync.Mutex
	analyses map[uuid.UUID]models.Analysis
}

func (m *memoryAnalyses) Create(ctx context.Context, a *models.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[a.ID] = *a
	return nil
}

func (m *memoryAnalyses) FindByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.analyses[id]
	if !ok {
		return nil, fmt.Errorf("analysis %s: %w", id, repositories.ErrNotFound)
	}
	return &a, nil
}

func (m *memoryAnalyses) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to models.AnalysisStatus) (bool, error) {
	return false, nil
}

func (m *memoryAnalyses) UpdateResult(ctx context.Context, id uuid.UUID, data *models.AnalysisData) error {
	return nil
}

func (m *memoryAnalyses) UpdateError(ctx context.Context, id uuid.UUID, msg string) error {
	return nil
}

func (m *memoryAnalyses) FindPendingJobs(ctx context.Context, limit int) ([]models.Analysis, error) {
	return nil, nil
}

type recordingWorker struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (w *recordingWorker) Start(ctx context.Context) {}
func (w *recordingWorker) Stop()                     {}
func (w *recordingWorker) EnqueueJob(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ids = append(w.ids, id)
}

type testEnv struct {
	app      *fiber.App
	docs     *memoryDocs
	analyses *memoryAnalyses
	worker   *recordingWorker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zap.NewNop()
	storage, err := services.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	skills := services.NewSkillExtractor(nil, nil, 1, log)
	profiles, err := services.NewProfileExtractor(nil, skills, 1, log)
	require.NoError(t, err)
	extractor := services.NewTextExtractor(log)
	matcher := services.NewMatchCalculator(nil)
	ranking := services.NewRankingService(nil, nil, services.NewTextChunker(0, 0), 10, log)

	env := &testEnv{
		docs:     &memoryDocs{docs: map[uuid.UUID]models.Document{}},
		analyses: &memoryAnalyses{analyses: map[uuid.UUID]models.Analysis{}},
		worker:   &recordingWorker{},
	}

	profileHandler := NewProfileHandler(profiles)
	profileHandler.now = func() time.Time { return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC) }

	env.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	SetupRoutes(env.app, Handlers{
		Extract: NewExtractHandler(extractor, 1024, 3, log),
		Skill:   NewSkillHandler(skills, matcher),
		Profile: profileHandler,
		Ranking: NewRankingHandler(ranking),
		Upload:  NewUploadHandler(env.docs, storage, extractor, 1024, log),
		Analyze: NewAnalyzeHandler(env.analyses, env.docs, env.worker),
		Result:  NewResultHandler(env.analyses),
	})

	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request) (int, map[string]interface{}) {
	t.Helper()

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type formFile struct {
	field, name, content string
}

func multipartRequest(t *testing.T, path string, files ...formFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "tfidf", body["ranking"])
}

func TestExtractText(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, multipartRequest(t, "/api/v1/extract-text",
		formFile{"file", "resume.txt", "  Go and Docker  "}))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "resume.txt", body["filename"])
	assert.Equal(t, "Go and Docker", body["text"])
	assert.Equal(t, float64(13), body["text_length"])
}

func TestExtractText_Errors(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, multipartRequest(t, "/api/v1/extract-text",
		formFile{"file", "resume.rtf", "x"}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "Unsupported file type")

	status, _ = env.do(t, multipartRequest(t, "/api/v1/extract-text",
		formFile{"other", "resume.txt", "x"}))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, multipartRequest(t, "/api/v1/extract-text",
		formFile{"file", "resume.pdf", "not really a pdf"}))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestExtractMultiple(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, multipartRequest(t, "/api/v1/extract-multiple-texts",
		formFile{"files", "a.txt", "Python"},
		formFile{"files", "b.doc", "legacy"},
	))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["total_files"])
	assert.Equal(t, float64(1), body["success_count"])
	assert.Equal(t, float64(1), body["failed_count"])

	results := body["results"].(map[string]interface{})
	assert.Equal(t, "Python", results["a.txt"])
	assert.Nil(t, results["b.doc"])
}

func TestExtractMultiple_TooMany(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, multipartRequest(t, "/api/v1/extract-multiple-texts",
		formFile{"files", "a.txt", "a"},
		formFile{"files", "b.txt", "b"},
		formFile{"files", "c.txt", "c"},
		formFile{"files", "d.txt", "d"},
	))

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestExtractSkills(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/extract-skills",
		map[string]string{"text": "Docker and Kubernetes"}))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "unknown", body["type"])
	assert.Equal(t, []interface{}{"Docker", "Kubernetes"}, body["skills"])
	assert.Equal(t, float64(2), body["skill_count"])
	assert.Equal(t, "fallback", body["source"])
}

func TestExtractSkills_Validation(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/extract-skills",
		map[string]string{"type": "resume"}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "text is required", body["error"])

	status, body = env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/extract-skills",
		map[string]string{"text": "Go", "type": "cover_letter"}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "type must be one of")
}

func TestMatchSkills(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/match-skills", map[string]interface{}{
		"jd_skills":     []string{"Python", "Docker"},
		"resume_skills": []string{"python"},
	}))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(50), body["match_score"])
	assert.Equal(t, []interface{}{"Docker"}, body["missing_skills"])
}

func TestMatchSkills_Weighted(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/match-skills", map[string]interface{}{
		"jd_skills": []map[string]interface{}{
			{"skill": "Go", "weight": 3},
			{"skill": "Rust", "weight": 1},
		},
		"resume_skills": []string{"Go"},
		"weighted":      true,
	}))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(75), body["weighted_score"])

	status, _ = env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/match-skills", map[string]interface{}{
		"jd_skills":     []string{"Go"},
		"resume_skills": []string{"Go"},
		"weighted":      true,
	}))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSkillGap(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/skill-gap", map[string]interface{}{
		"jd_skills":     []string{"AWS", "GCP"},
		"resume_skills": []string{"AWS Lambda"},
	}))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{"AWS"}, body["matchedSkills"])
	assert.Equal(t, []interface{}{"GCP"}, body["missingSkills"])
	assert.Equal(t, "Fallback analysis", body["gapAnalysis"])
}

func TestEmploymentGaps(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/employment-gaps", map[string]interface{}{
		"work_history": []map[string]string{
			{"job_title": "Dev", "company": "A", "start_date": "2019-01", "end_date": "2020-01"},
			{"job_title": "Dev", "company": "B", "start_date": "2020-08", "end_date": "2022-01"},
		},
	}))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["has_gap"])
	assert.Equal(t, float64(7), body["total_gap_months"])

	details := body["gap_details"].([]interface{})
	require.Len(t, details, 1)
	assert.Equal(t, "BETWEEN_JOBS", details[0].(map[string]interface{})["type"])
}

func TestEmploymentGaps_Empty(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/employment-gaps", map[string]interface{}{}))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["has_gap"])
	assert.Equal(t, []interface{}{}, body["gap_details"])
}

func TestExtractProfileAndRequirements(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/extract-profile", map[string]string{
		"text": "Engineer, Jan 2019 - Dec 2020\nDocker",
	}))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "fallback", body["source"])
	assert.Equal(t, float64(23), body["total_experience_months"])

	status, body = env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/job-requirements", map[string]string{
		"text": "5+ years of AWS",
	}))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(5), body["min_years_experience"])
	assert.Equal(t, []interface{}{"AWS"}, body["skills"])
}

func TestRankResumes(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/rank-resumes", map[string]interface{}{
		"jd_text": "golang kubernetes",
		"resume_data": map[string]string{
			"r1": "java spring",
			"r2": "golang kubernetes",
		},
		"top_k": 1,
	}))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "tfidf", body["method"])
	assert.Equal(t, float64(2), body["total_resumes"])

	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "r2", results[0].(map[string]interface{})["resume_id"])
}

func TestRankResumes_Validation(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/rank-resumes", map[string]interface{}{
		"jd_text":     "golang",
		"resume_data": map[string]string{},
	}))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "resume_data")
}

func TestRankResumes_RequiresResumesOrBatch(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/rank-resumes", map[string]interface{}{
		"jd_text": "golang",
	}))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "resume_data is required", body["error"])
}

func TestRankResumes_BatchNeedsSemanticRanking(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/rank-resumes", map[string]interface{}{
		"jd_text":  "golang",
		"batch_id": "library",
	}))

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, body["error"], "semantic ranking is not available")
}

func TestUploadAnalyzeResultFlow(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, multipartRequest(t, "/api/v1/upload",
		formFile{"resume", "jane.txt", "Go developer, Jan 2020 - Present"},
		formFile{"job_description", "jd.txt", "Go, 3+ years"},
	))
	require.Equal(t, http.StatusCreated, status, body)

	documents := body["documents"].([]interface{})
	require.Len(t, documents, 2)
	resume := documents[0].(map[string]interface{})
	assert.Equal(t, "resume", resume["file_type"])
	assert.Equal(t, "jane.txt", resume["original_name"])
	jd := documents[1].(map[string]interface{})
	assert.Equal(t, "job_description", jd["file_type"])

	status, body = env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/analyze", map[string]string{
		"resume_document_id": jd["id"].(string),
	}))
	assert.Equal(t, http.StatusBadRequest, status, body)

	status, body = env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/analyze", map[string]string{
		"resume_document_id": resume["id"].(string),
		"job_description":    "Go, 3+ years",
	}))
	require.Equal(t, http.StatusAccepted, status, body)
	assert.Equal(t, "queued", body["status"])

	analysisID := body["id"].(string)
	require.Len(t, env.worker.ids, 1)
	assert.Equal(t, analysisID, env.worker.ids[0].String())

	status, body = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/result/"+analysisID, nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "queued", body["status"])
	assert.NotContains(t, body, "result")
}

func TestUpload_NoFiles(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, multipartRequest(t, "/api/v1/upload", formFile{"cv", "a.txt", "x"}))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAnalyze_Errors(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/analyze", map[string]string{
		"resume_document_id": "not-a-uuid",
	}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "resume_document_id must be a valid UUID", body["error"])

	status, body = env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/analyze", map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "resume_document_id is required", body["error"])

	status, _ = env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/analyze", map[string]string{
		"resume_document_id": uuid.NewString(),
	}))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, env.worker.ids)
}

func TestGetResult(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	completed := models.Analysis{
		ID:     uuid.New(),
		Status: models.StatusCompleted,
		Profile: &models.ResumeProfile{
			Skills: []string{"Go"},
			Source: models.SourceLLM,
		},
	}
	msg := "resume document not found"
	failed := models.Analysis{ID: uuid.New(), Status: models.StatusFailed, ErrorMessage: &msg}
	require.NoError(t, env.analyses.Create(ctx, &completed))
	require.NoError(t, env.analyses.Create(ctx, &failed))

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/result/"+completed.ID.String(), nil))
	assert.Equal(t, http.StatusOK, status)
	result := body["result"].(map[string]interface{})
	profile := result["profile"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Go"}, profile["skills"])

	status, body = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/result/"+failed.ID.String(), nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, msg, body["error_message"])

	status, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/result/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/result/abc", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}
