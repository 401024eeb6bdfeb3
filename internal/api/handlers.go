package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/darthvader-ux740/speakconfident/internal/ai"
	"github.com/darthvader-ux740/speakconfident/internal/analysis"
	"github.com/darthvader-ux740/speakconfident/internal/config"
	"github.com/darthvader-ux740/speakconfident/internal/media"
	"github.com/darthvader-ux740/speakconfident/internal/model"
	"github.com/darthvader-ux740/speakconfident/internal/repository"
	"github.com/darthvader-ux740/speakconfident/internal/stt"
	"github.com/darthvader-ux740/speakconfident/internal/utils"
)

// Evaluator produces the raw model response text for a speech evaluation.
type Evaluator interface {
	Evaluate(ctx context.Context, input ai.EvalInput) (string, error)
}

// Handler carries the request pipeline's dependencies. The repository may be
// nil, in which case results are returned but not persisted.
type Handler struct {
	cfg         *config.Config
	validator   *media.Validator
	transcriber stt.Provider
	evaluator   Evaluator
	repo        repository.AnalysisRepository
}

func NewHandler(cfg *config.Config, transcriber stt.Provider, evaluator Evaluator, repo repository.AnalysisRepository) *Handler {
	return &Handler{
		cfg:         cfg,
		validator:   media.NewValidator(cfg),
		transcriber: transcriber,
		evaluator:   evaluator,
		repo:        repo,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/analyses", h.analyzeSpeech)
		v1.GET("/analyses", h.listAnalyses)
		v1.GET("/analyses/:id", h.getAnalysis)
		v1.DELETE("/analyses/:id", h.deleteAnalysis)
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "speakconfident-backend",
	})
}

// analyzeSpeech runs the full pipeline: validate, transcribe, evaluate,
// repair, normalize, persist. Persistence is best-effort; a failed insert is
// logged and the in-memory result is still returned. Per the API contract
// every failure after auth is reported through the generic error envelope
// with status 500.
func (h *Handler) analyzeSpeech(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	var req media.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusInternalServerError, "audio and mimeType are required")
		return
	}

	payload, err := h.validator.Validate(req)
	if err != nil {
		log.Printf("[Analyze] Validation rejected upload from %s: %v", userID, err)
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[Analyze] Accepted %s (%s, ~%d bytes) from user %s",
		payload.FileName, payload.MimeType, payload.EstimatedBytes, userID)

	ctx := c.Request.Context()

	transcription, err := h.transcriber.Transcribe(ctx, payload)
	if err != nil {
		log.Printf("[Analyze] Transcription failed: %v", err)
		utils.Error(c, http.StatusInternalServerError, "transcription failed: "+err.Error())
		return
	}
	if transcription.Transcript == "" {
		utils.Error(c, http.StatusInternalServerError, "no speech detected in the recording")
		return
	}

	unclear := transcription.LowConfidenceWords(h.cfg.LowConfidenceThreshold, 10)

	// The evaluation prompt depends on the transcript, so the two upstream
	// calls are sequential; a transcription failure already returned above.
	raw, err := h.evaluator.Evaluate(ctx, ai.EvalInput{
		Transcript:      transcription.Transcript,
		DurationSeconds: transcription.DurationSeconds,
		WordCount:       transcription.WordCount(),
		Unclear:         unclear,
	})
	if err != nil {
		log.Printf("[Analyze] Evaluation failed: %v", err)
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	obj, err := analysis.ExtractObject(raw)
	if err != nil {
		log.Printf("[Analyze] Unparsable model response: %v", err)
		utils.Error(c, http.StatusInternalServerError, "the analysis response could not be parsed, please try again")
		return
	}

	result := analysis.Normalize(obj, analysis.Meta{
		WordCount:       transcription.WordCount(),
		DurationSeconds: transcription.DurationSeconds,
		Unclear:         unclear,
	})
	result.Transcript = transcription.Transcript

	h.persist(ctx, userID, result)

	c.JSON(http.StatusOK, result)
}

// persist is best-effort: an insert failure never invalidates the result.
func (h *Handler) persist(ctx context.Context, userID uuid.UUID, result *analysis.Result) {
	if h.repo == nil {
		return
	}

	transcript := result.Transcript
	rec := &model.SpeechAnalysis{
		ID:                uuid.New(),
		UserID:            userID,
		OverallScore:      result.OverallScore,
		Transcript:        &transcript,
		Mispronunciations: result.Mispronunciations,
		Detail:            result,
		CreatedAt:         time.Now().UTC(),
	}
	if err := h.repo.Create(ctx, rec); err != nil {
		log.Printf("[Analyze] Warning: failed to persist analysis %s: %v", rec.ID, err)
		return
	}
	log.Printf("[Analyze] Stored analysis %s for user %s (overall %d)", rec.ID, userID, rec.OverallScore)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	if h.repo == nil {
		utils.Error(c, http.StatusInternalServerError, "history storage is not configured")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	records, err := h.repo.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("[History] List failed for user %s: %v", userID, err)
		utils.Error(c, http.StatusInternalServerError, "failed to retrieve history")
		return
	}

	items := make([]gin.H, 0, len(records))
	for _, rec := range records {
		items = append(items, gin.H{
			"id":            rec.ID.String(),
			"overall_score": rec.OverallScore,
			"created_at":    rec.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) getAnalysis(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	if h.repo == nil {
		utils.Error(c, http.StatusInternalServerError, "history storage is not configured")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusNotFound, "analysis not found")
		return
	}

	rec, err := h.repo.GetByID(c.Request.Context(), userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.Error(c, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		log.Printf("[History] Get %s failed for user %s: %v", id, userID, err)
		utils.Error(c, http.StatusInternalServerError, "failed to retrieve analysis")
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *Handler) deleteAnalysis(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	if h.repo == nil {
		utils.Error(c, http.StatusInternalServerError, "history storage is not configured")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusNotFound, "analysis not found")
		return
	}

	err = h.repo.Delete(c.Request.Context(), userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.Error(c, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		log.Printf("[History] Delete %s failed for user %s: %v", id, userID, err)
		utils.Error(c, http.StatusInternalServerError, "failed to delete analysis")
		return
	}

	c.Status(http.StatusNoContent)
}

// callerID resolves the caller identity from the X-User-ID header. Missing
// or malformed identity is the one failure reported as 401.
func (h *Handler) callerID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		utils.Error(c, http.StatusUnauthorized, "caller identity is required (X-User-ID header)")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "invalid caller identity")
		return uuid.Nil, false
	}
	return userID, true
}
