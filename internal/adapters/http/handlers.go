package httpadapter

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
)

type detectRequest struct {
	Text string `json:"text"`
}

type detectResponse struct {
	Emotion       domain.EmotionLabel             `json:"emotion"`
	Confidence    float64                         `json:"confidence"`
	ModelUsed     string                          `json:"model_used"`
	ProcessedTime float64                         `json:"processed_time"`
	Details       map[domain.EmotionLabel]float64 `json:"details,omitempty"`
}

func (rt *Router) detectEmotion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	started := time.Now()
	result, err := rt.detectUC.Detect(r.Context(), clientIdentity(r), req.Text)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detectResponse{
		Emotion:       result.Emotion,
		Confidence:    result.Confidence,
		ModelUsed:     result.ModelUsed,
		ProcessedTime: roundSeconds(time.Since(started)),
		Details:       result.Details,
	})
}

type batchDetectRequest struct {
	Texts []string `json:"texts"`
}

func (rt *Router) batchDetectEmotion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req batchDetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	batch, err := rt.detectUC.DetectBatch(r.Context(), clientIdentity(r), req.Texts)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordBatchSize(batch.Count)
	}

	results := make([]detectResponse, 0, len(batch.Results))
	for _, result := range batch.Results {
		results = append(results, detectResponse{
			Emotion:    result.Emotion,
			Confidence: result.Confidence,
			ModelUsed:  result.ModelUsed,
			Details:    result.Details,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results":    results,
		"total_time": batch.TotalTime,
		"count":      batch.Count,
	})
}

type chatRequest struct {
	Messages       []domain.ChatMessage `json:"messages"`
	CurrentEmotion string               `json:"current_emotion"`
	PreferredModel string               `json:"ai_model"`
}

func (rt *Router) wellnessAssistant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	reply, err := rt.chatUC.Chat(r.Context(), req.Messages, domain.EmotionLabel(req.CurrentEmotion), req.PreferredModel)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordChatReply(reply.ModelUsed)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":         reply.Message,
		"model_used":      reply.ModelUsed,
		"emotion_context": reply.EmotionContext,
	})
}

type summarizeRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
}

func (rt *Router) summarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	summary, path, err := rt.summarizeUC.Summarize(r.Context(), req.Text, req.MaxLength)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordSummary(path)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary":         summary,
		"model_used":      path,
		"original_length": len(strings.TrimSpace(req.Text)),
		"summary_length":  len(summary),
	})
}

// supportiveMessage serves GET /message/{type}/{emotion}.
func (rt *Router) supportiveMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/message/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected /message/{type}/{emotion}"})
		return
	}
	msgType, emotion := parts[0], parts[1]

	message, err := rt.catalog.Random(msgType, domain.EmotionLabel(strings.ToLower(emotion)))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": message,
		"type":    msgType,
		"emotion": strings.ToLower(emotion),
	})
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status == http.StatusTooManyRequests {
		retryAfter := rt.detectUC.RetryAfter(clientIdentity(r))
		seconds := int(math.Ceil(retryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// clientIdentity resolves the per-client rate-limit key. The first
// X-Forwarded-For hop wins when the service sits behind a proxy.
func clientIdentity(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}
	host := r.RemoteAddr
	if idx := strings.LastIndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	return host
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*10000) / 10000
}
