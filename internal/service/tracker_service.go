package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"compass/internal/config"
	"compass/internal/llm"
	"compass/internal/model"
)

// ChatClient is the text-generation collaborator shared by the tracker,
// responder and report services.
type ChatClient interface {
	Chat(ctx context.Context, model string, temperature float64, messages []llm.Message) (string, error)
	ChatJSON(ctx context.Context, model string, temperature float64, messages []llm.Message) (string, error)
}

// TrackerService owns the conversation metrics: it scores each utterance
// against the seven life domains, merges the result into the running
// aggregate and picks the focus for the next question.
type TrackerService struct {
	config *config.AIConfig
	llm    ChatClient
}

// NewTrackerService creates a new tracker service
func NewTrackerService(cfg *config.AIConfig, client ChatClient) *TrackerService {
	return &TrackerService{config: cfg, llm: client}
}

// Update scores the latest utterance, merges it into the previous
// aggregate (zero baseline when absent) and derives the compass
// direction. A no-signal utterance leaves the aggregate unchanged.
func (s *TrackerService) Update(ctx context.Context, utterance string, previous *model.DomainScores) (*model.TrackingData, error) {
	prev := model.DomainScores{}
	if previous != nil {
		prev = *previous
	}

	var turn model.DomainScores
	if strings.TrimSpace(utterance) != "" {
		var err error
		turn, err = s.scoreUtterance(ctx, utterance)
		if err != nil {
			return nil, err
		}
	}

	updated := model.Merge(prev, turn)
	focus := s.buildFocus(ctx, updated)

	return &model.TrackingData{
		ScoresUserInput:      turn,
		UpdatedOverallScores: updated,
		CompassDirection:     focus,
	}, nil
}

// scoreUtterance asks the model for the seven per-domain depth scores and
// validates the result against the exact schema.
func (s *TrackerService) scoreUtterance(ctx context.Context, utterance string) (model.DomainScores, error) {
	if !s.config.IsEnabled() {
		return s.mockScore(utterance), nil
	}

	response, err := s.llm.ChatJSON(ctx, s.config.Models.Tracker, 0.2, []llm.Message{
		{Role: "system", Content: "You are an expert counseling analyst. Respond only with the requested JSON."},
		{Role: "user", Content: buildScoringPrompt(utterance)},
	})
	if err != nil {
		return model.DomainScores{}, fmt.Errorf("%w: %v", ErrMalformedTrackerOutput, err)
	}
	return decodeScores(response)
}

// decodeScores enforces the tracker output schema: exactly the seven
// domain keys, each in [0,5].
func decodeScores(raw string) (model.DomainScores, error) {
	var m map[string]float64
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return model.DomainScores{}, fmt.Errorf("%w: %v", ErrMalformedTrackerOutput, err)
	}
	if len(m) != len(model.Domains) {
		return model.DomainScores{}, fmt.Errorf("%w: got %d keys, want %d", ErrMalformedTrackerOutput, len(m), len(model.Domains))
	}

	var scores model.DomainScores
	for _, d := range model.Domains {
		v, ok := m[string(d)]
		if !ok {
			return model.DomainScores{}, fmt.Errorf("%w: missing domain %s", ErrMalformedTrackerOutput, d)
		}
		scores.Set(d, v)
	}
	if err := scores.Validate(); err != nil {
		return model.DomainScores{}, fmt.Errorf("%w: %v", ErrMalformedTrackerOutput, err)
	}
	return scores, nil
}

// buildFocus selects the two least-covered domains (ties broken by the
// fixed domain order) and phrases guidance for them.
func (s *TrackerService) buildFocus(ctx context.Context, updated model.DomainScores) model.FocusDirection {
	areas := updated.LowestDomains(2)
	focusArea := humanize(areas[0]) + " and " + humanize(areas[1])

	focus := model.FocusDirection{
		FocusArea:            focusArea,
		SuggestedApproach:    fmt.Sprintf("Gently steer the conversation toward %s, building on what the user just shared.", focusArea),
		NextQuestionGuidance: fmt.Sprintf("Ask one open, caring question that invites the user to talk about their %s or %s.", humanize(areas[0]), humanize(areas[1])),
	}

	if !s.config.IsEnabled() {
		return focus
	}

	response, err := s.llm.ChatJSON(ctx, s.config.Models.Tracker, 0.7, []llm.Message{
		{Role: "system", Content: "You are an expert counseling analyst. Respond only with the requested JSON."},
		{Role: "user", Content: buildGuidancePrompt(areas)},
	})
	if err != nil {
		// Deterministic template already in place
		return focus
	}

	var phrased struct {
		SuggestedApproach    string `json:"suggested_approach"`
		NextQuestionGuidance string `json:"next_question_guidance"`
	}
	if err := json.Unmarshal([]byte(response), &phrased); err != nil {
		return focus
	}
	if phrased.SuggestedApproach != "" {
		focus.SuggestedApproach = phrased.SuggestedApproach
	}
	if phrased.NextQuestionGuidance != "" {
		focus.NextQuestionGuidance = phrased.NextQuestionGuidance
	}
	return focus
}

func humanize(d model.Domain) string {
	return strings.ReplaceAll(string(d), "_", " ")
}

func buildScoringPrompt(utterance string) string {
	return fmt.Sprintf(`Analyze whether the latest user input discusses each of these life domains:
1. emotional_state (feelings, mood, emotional awareness)
2. social_interaction (peer relationships, social support, communication)
3. academic_strengths (learning ability, academic performance, educational goals)
4. family_dynamics (family relationships, support system, home environment)
5. self_reflection (self-awareness, personal growth, identity understanding)
6. coping_strategies (stress management, problem-solving, resilience)
7. physical_wellbeing (health habits, exercise, sleep, nutrition)

Coverage depth guidelines:
- 0: Not mentioned at all
- 1: Briefly mentioned
- 2: Somewhat discussed
- 3: Moderately explored
- 4: Well discussed
- 5: Deeply explored with specific details

Latest user input:
%s

Return ONLY valid JSON with exactly these seven keys and numeric values:
{
  "emotional_state": 0,
  "social_interaction": 0,
  "academic_strengths": 0,
  "family_dynamics": 0,
  "self_reflection": 0,
  "coping_strategies": 0,
  "physical_wellbeing": 0
}

A domain not mentioned at all must score exactly 0. Provide only final numbers, no calculations or reasoning.`, utterance)
}

func buildGuidancePrompt(areas []model.Domain) string {
	a, b := humanize(areas[0]), humanize(areas[1])
	return fmt.Sprintf(`The counseling conversation should next explore these two under-covered areas: %s and %s.

Return ONLY valid JSON:
{
  "suggested_approach": "how to steer toward both areas naturally and with emotional sensitivity",
  "next_question_guidance": "guidance for one open question referencing both areas"
}

Remember to:
- Maintain conversation naturalness and smooth topic transitions
- Be sensitive to the user's emotional state
- Avoid redundant questions
- Never mention numeric scores`, a, b)
}

// Domain keyword heuristics used when no API key is configured.
var domainKeywords = map[model.Domain][]string{
	model.DomainEmotionalState:    {"feel", "feeling", "sad", "happy", "angry", "anxious", "mood", "stressed", "worried", "upset", "scared", "overwhelmed"},
	model.DomainSocialInteraction: {"friend", "friends", "peer", "social", "classmates", "lonely", "hang out"},
	model.DomainAcademicStrengths: {"school", "exam", "study", "grades", "class", "homework", "college", "learning"},
	model.DomainFamilyDynamics:    {"family", "mother", "father", "mom", "dad", "parents", "sibling", "brother", "sister"},
	model.DomainSelfReflection:    {"myself", "identity", "realize", "realized", "growth", "who i am"},
	model.DomainCopingStrategies:  {"cope", "coping", "manage", "handle", "relax", "meditate", "breathing"},
	model.DomainPhysicalWellbeing: {"sleep", "eat", "eating", "exercise", "health", "tired", "energy", "nutrition"},
}

// mockScore scores by keyword density: one hit is a brief mention, each
// additional hit deepens the band, capped at 5.
func (s *TrackerService) mockScore(utterance string) model.DomainScores {
	lower := strings.ToLower(utterance)
	var scores model.DomainScores
	for _, d := range model.Domains {
		hits := 0
		for _, kw := range domainKeywords[d] {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		v := float64(2*hits - 1)
		if v > model.ScoreMax {
			v = model.ScoreMax
		}
		scores.Set(d, v)
	}
	return scores
}
