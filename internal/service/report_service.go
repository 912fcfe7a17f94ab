package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode"

	"compass/internal/config"
	"compass/internal/llm"
	"compass/internal/model"
	"compass/internal/repository"
)

// ReportService assembles the offline counseling report: five scored
// analytical passes over the full transcript plus free-text
// recommendations, combined into a risk classification.
type ReportService struct {
	config      *config.AIConfig
	llm         ChatClient
	messageRepo repository.MessageRepo
	reportRepo  repository.ReportRepo
}

// NewReportService creates a new report service
func NewReportService(cfg *config.AIConfig, client ChatClient, messageRepo repository.MessageRepo, reportRepo repository.ReportRepo) *ReportService {
	return &ReportService{
		config:      cfg,
		llm:         client,
		messageRepo: messageRepo,
		reportRepo:  reportRepo,
	}
}

// sectionPrompts holds the analytical instruction per scored section.
// Each pass must answer with a single digit 1-5 on the first line.
var sectionPrompts = map[string]string{
	model.SectionEmotional: `Analyze the emotional tone of the user in the conversation. In the first line of the response provide the overall score between 1-5, just the number and nothing else, then elaborate on:
- Emotional sentiment (positive/negative/neutral)
- Stress levels (low/medium/high)
- Mood patterns (e.g., anxious, frustrated)`,
	model.SectionSocial: `Evaluate the user's social and peer relationships from the conversation. In the first line provide the overall score between 1-5, just the number and nothing else, then elaborate on:
- Peer relationships (good/limited/poor)
- Support system (available/limited/lacking)
- Social anxiety levels (low/medium/high)`,
	model.SectionCoping: `Analyze the user's coping mechanisms based on the conversation. In the first line provide the overall score between 1-5, just the number and nothing else, then elaborate on:
- Effectiveness of current strategies (low/medium/high)
- Mentioned healthy/unhealthy strategies`,
	model.SectionEnvironmental: `Assess external factors impacting the user's mental state. In the first line provide the overall score between 1-5, just the number and nothing else, then elaborate on:
- Living conditions, financial stress, or community environment impacts`,
	model.SectionAcademic: `Analyze the user's academic state from the conversation. In the first line provide the overall score between 1-5, just the number and nothing else, then elaborate on:
- Stress levels (low/medium/high)
- Productivity (low/medium/high)
- Key academic challenges (e.g., time management, exam pressure)`,
}

const recommendationsPrompt = `Based on the conversation, provide recommendations for the counselor:
- Counseling urgency (low/medium/high)
- Suggested resources or workshops
- Follow-up plan (e.g., frequency, duration)`

// Build runs the analytical passes over the transcript and assembles the
// report. The passes are independent and run concurrently; a section
// whose leading score cannot be parsed defaults to 0 instead of failing
// the whole report.
func (s *ReportService) Build(ctx context.Context, transcript string, subject model.Subject) (*model.Report, error) {
	report := &model.Report{
		Subject:           subject,
		GeneratedAt:       time.Now(),
		Observations:      make(map[string]model.ReportSection, len(model.ScoredSections)),
		AIConfidenceNotes: "This report is AI-generated and may miss nuanced details.",
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, section := range model.ScoredSections {
		wg.Add(1)
		go func(section string) {
			defer wg.Done()
			result := s.runSection(ctx, section, transcript)
			mu.Lock()
			report.Observations[section] = result
			mu.Unlock()
		}(section)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		recs := s.runPass(ctx, recommendationsPrompt, transcript)
		mu.Lock()
		report.Recommendations = recs
		mu.Unlock()
	}()
	wg.Wait()

	total := 0
	for _, section := range model.ScoredSections {
		total += report.Observations[section].Score
	}
	report.TotalScore = total
	report.RiskLevel = model.RiskLevel(total)
	return report, nil
}

// BuildForConversation renders the stored history of a conversation into
// a transcript, builds the report and persists it.
func (s *ReportService) BuildForConversation(ctx context.Context, conversationID string, subject model.Subject) (*model.Report, error) {
	messages, err := s.messageRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", conversationID, err)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("conversation %s has no messages", conversationID)
	}

	var sb strings.Builder
	for _, msg := range messages {
		fmt.Fprintf(&sb, "User: %s\n\nCounselor: %s\n\n", msg.InputText, msg.ResponseText)
	}

	report, err := s.Build(ctx, sb.String(), subject)
	if err != nil {
		return nil, err
	}
	report.ConversationID = conversationID

	if err := s.reportRepo.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("%w: save report: %v", ErrPersistenceFailed, err)
	}
	return report, nil
}

// GetReport retrieves a previously built report, nil when absent.
func (s *ReportService) GetReport(ctx context.Context, conversationID string) (*model.Report, error) {
	return s.reportRepo.GetReport(ctx, conversationID)
}

func (s *ReportService) runSection(ctx context.Context, section, transcript string) model.ReportSection {
	output := s.runPass(ctx, sectionPrompts[section], transcript)
	score, analysis, err := parseLeadingScore(output)
	if err != nil {
		log.Printf("report section %s: %v", section, err)
		return model.ReportSection{Score: 0, Analysis: output}
	}
	return model.ReportSection{Score: score, Analysis: analysis}
}

func (s *ReportService) runPass(ctx context.Context, prompt, transcript string) string {
	if !s.config.IsEnabled() {
		return s.mockPass(prompt)
	}
	output, err := s.llm.Chat(ctx, s.config.Models.Report, 1.0, []llm.Message{
		{Role: "system", Content: "You are an assistant trained to analyze counseling conversations."},
		{Role: "user", Content: prompt + "\n\nConversation:\n" + transcript},
	})
	if err != nil {
		log.Printf("report pass failed: %v", err)
		return ""
	}
	return strings.TrimSpace(output)
}

// parseLeadingScore extracts the section's leading digit. The first
// character must be a digit 0-5; anything else is ErrScoreParse.
func parseLeadingScore(output string) (int, string, error) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return 0, "", fmt.Errorf("%w: empty section output", ErrScoreParse)
	}
	first := rune(trimmed[0])
	if !unicode.IsDigit(first) {
		return 0, "", fmt.Errorf("%w: leading character %q is not a digit", ErrScoreParse, first)
	}
	score := int(first - '0')
	if score > 5 {
		return 0, "", fmt.Errorf("%w: leading score %d out of range", ErrScoreParse, score)
	}
	analysis := strings.TrimSpace(trimmed[1:])
	return score, analysis, nil
}

func (s *ReportService) mockPass(prompt string) string {
	if prompt == recommendationsPrompt {
		return "Counseling urgency: low. Configure GROQ_API_KEY for real recommendations."
	}
	return "2\nMock analysis - configure GROQ_API_KEY for real insights."
}
