package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"compass/internal/cache"
	"compass/internal/model"
	"compass/internal/repository"
)

// Transcriber converts an audio stream to text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Synthesizer converts text to an audio byte stream.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// BlobStore stores a binary blob and returns a retrievable URL.
type BlobStore interface {
	Upload(ctx context.Context, objectKey, contentType string, body []byte) (string, error)
}

// Tracker updates the conversation metrics from the latest utterance.
type Tracker interface {
	Update(ctx context.Context, utterance string, previous *model.DomainScores) (*model.TrackingData, error)
}

// Responder generates the counselor's next utterance.
type Responder interface {
	Generate(ctx context.Context, history []model.ChatTurn, focus model.FocusDirection) (string, error)
}

// TurnResult is the client-facing outcome of one processed turn.
type TurnResult struct {
	Transcription string              `json:"transcription"`
	Response      string              `json:"llm_response"`
	AudioURL      string              `json:"audio_url"`
	Tracking      *model.TrackingData `json:"tracking_data"`
}

// TurnService sequences one request through download, transcription,
// tracking, response generation, synthesis, storage and persistence.
type TurnService struct {
	downloader  *http.Client
	transcriber Transcriber
	tracker     Tracker
	responder   Responder
	synthesizer Synthesizer
	blobs       BlobStore
	messageRepo repository.MessageRepo
	metricsRepo repository.MetricsRepo
	lock        cache.ConversationLock
}

// NewTurnService creates a new turn orchestrator
func NewTurnService(
	transcriber Transcriber,
	tracker Tracker,
	responder Responder,
	synthesizer Synthesizer,
	blobs BlobStore,
	messageRepo repository.MessageRepo,
	metricsRepo repository.MetricsRepo,
	lock cache.ConversationLock,
) *TurnService {
	return &TurnService{
		downloader:  &http.Client{Timeout: 30 * time.Second},
		transcriber: transcriber,
		tracker:     tracker,
		responder:   responder,
		synthesizer: synthesizer,
		blobs:       blobs,
		messageRepo: messageRepo,
		metricsRepo: metricsRepo,
		lock:        lock,
	}
}

// Process runs one full turn. The conversation-metrics upsert happens
// only after every prior step and both prior writes have succeeded; temp
// audio files are removed on every exit path.
func (s *TurnService) Process(ctx context.Context, audioURL, userID, conversationID string) (*TurnResult, error) {
	ok, err := s.lock.Acquire(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("acquire conversation lock: %w", err)
	}
	if !ok {
		return nil, ErrConversationBusy
	}
	// Release must run even when the request context was cancelled mid-turn.
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), conversationID); err != nil {
			log.Printf("release conversation lock %s: %v", conversationID, err)
		}
	}()

	// Step 1: fetch the caller-supplied audio
	audioPath, err := s.downloadAudio(ctx, audioURL)
	if err != nil {
		return nil, err
	}
	defer os.Remove(audioPath)

	// Step 2: transcribe
	transcription, err := s.transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	log.Printf("transcribed %s: %d chars", conversationID, len(transcription))

	// Step 3: load history and current aggregate (absent => zero baseline)
	history, previous, err := s.loadConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", conversationID, err)
	}

	// Step 4: update well-being metrics
	tracking, err := s.tracker.Update(ctx, transcription, previous)
	if err != nil {
		return nil, err
	}

	// Step 5: generate the counselor's reply
	response, err := s.responder.Generate(ctx, history, tracking.CompassDirection)
	if err != nil {
		return nil, err
	}

	// Step 6: synthesize and store the reply audio
	audio, err := s.synthesizer.Synthesize(ctx, response)
	if err != nil {
		return nil, fmt.Errorf("synthesize response: %w", err)
	}
	objectKey := "tts_" + uuid.NewString() + ".mp3"
	responseURL, err := s.blobs.Upload(ctx, objectKey, "audio/mpeg", audio)
	if err != nil {
		return nil, fmt.Errorf("store response audio: %w", err)
	}

	// Step 7: persist the turn; the aggregate upsert goes last so a failed
	// turn never advances the conversation metrics
	msg := &model.Message{
		MessageID:      uuid.NewString(),
		ConversationID: conversationID,
		UserID:         userID,
		InputText:      transcription,
		ResponseText:   response,
		AudioURL:       responseURL,
		Timestamp:      time.Now(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: create message: %v", ErrPersistenceFailed, err)
	}
	if err := s.metricsRepo.CreateMessageMetrics(ctx, &model.MessageMetrics{
		MessageID: msg.MessageID,
		Scores:    tracking.ScoresUserInput,
	}); err != nil {
		return nil, fmt.Errorf("%w: create message metrics: %v", ErrPersistenceFailed, err)
	}
	if err := s.metricsRepo.UpsertConversationMetrics(ctx, &model.ConversationMetrics{
		ConversationID: conversationID,
		Scores:         tracking.UpdatedOverallScores,
	}); err != nil {
		return nil, fmt.Errorf("%w: upsert conversation metrics: %v", ErrPersistenceFailed, err)
	}

	return &TurnResult{
		Transcription: transcription,
		Response:      response,
		AudioURL:      responseURL,
		Tracking:      tracking,
	}, nil
}

// downloadAudio fetches the audio into a temp file and returns its path.
// The URL is caller input, so transport failures map to ErrDownloadFailed.
func (s *TurnService) downloadAudio(ctx context.Context, audioURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	resp, err := s.downloader.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}

	path := filepath.Join(os.TempDir(), "audio_"+uuid.NewString()+".mp3")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp audio file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp audio file: %w", err)
	}
	return path, nil
}

func (s *TurnService) transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open temp audio file: %w", err)
	}
	defer f.Close()

	text, err := s.transcriber.Transcribe(ctx, filepath.Base(audioPath), f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty transcript", ErrTranscriptionFailed)
	}
	return text, nil
}

// loadConversation returns the rendered turn history and the current
// aggregate metrics, nil when the conversation has none yet.
func (s *TurnService) loadConversation(ctx context.Context, conversationID string) ([]model.ChatTurn, *model.DomainScores, error) {
	messages, err := s.messageRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}
	history := make([]model.ChatTurn, 0, len(messages)*2)
	for _, msg := range messages {
		history = append(history,
			model.ChatTurn{Speaker: "User", Text: msg.InputText},
			model.ChatTurn{Speaker: "Counselor", Text: msg.ResponseText},
		)
	}

	metrics, err := s.metricsRepo.GetConversationMetrics(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}
	if metrics == nil {
		return history, nil, nil
	}
	return history, &metrics.Scores, nil
}
