package model

import "fmt"

// Domain is one of the seven fixed well-being categories tracked per
// utterance and per conversation.
type Domain string

const (
	DomainEmotionalState    Domain = "emotional_state"
	DomainSocialInteraction Domain = "social_interaction"
	DomainAcademicStrengths Domain = "academic_strengths"
	DomainFamilyDynamics    Domain = "family_dynamics"
	DomainSelfReflection    Domain = "self_reflection"
	DomainCopingStrategies  Domain = "coping_strategies"
	DomainPhysicalWellbeing Domain = "physical_wellbeing"
)

// Domains is the fixed ordering over the seven domains. Focus-area tie
// breaking depends on this order, so it must never change.
var Domains = []Domain{
	DomainEmotionalState,
	DomainSocialInteraction,
	DomainAcademicStrengths,
	DomainFamilyDynamics,
	DomainSelfReflection,
	DomainCopingStrategies,
	DomainPhysicalWellbeing,
}

// ScoreMax is the upper bound of every domain channel.
const ScoreMax = 5.0

// DomainScores holds one bounded score per domain. All seven channels are
// always present; a domain not discussed scores 0, it is never omitted.
type DomainScores struct {
	EmotionalState    float64 `json:"emotional_state" bson:"emotionalState"`
	SocialInteraction float64 `json:"social_interaction" bson:"socialInteractions"`
	AcademicStrengths float64 `json:"academic_strengths" bson:"academicStrengths"`
	FamilyDynamics    float64 `json:"family_dynamics" bson:"familyDynamics"`
	SelfReflection    float64 `json:"self_reflection" bson:"selfReflection"`
	CopingStrategies  float64 `json:"coping_strategies" bson:"copingStrategies"`
	PhysicalWellbeing float64 `json:"physical_wellbeing" bson:"physicalWellBeing"`
}

// Get returns the score for a domain.
func (s DomainScores) Get(d Domain) float64 {
	switch d {
	case DomainEmotionalState:
		return s.EmotionalState
	case DomainSocialInteraction:
		return s.SocialInteraction
	case DomainAcademicStrengths:
		return s.AcademicStrengths
	case DomainFamilyDynamics:
		return s.FamilyDynamics
	case DomainSelfReflection:
		return s.SelfReflection
	case DomainCopingStrategies:
		return s.CopingStrategies
	case DomainPhysicalWellbeing:
		return s.PhysicalWellbeing
	}
	return 0
}

// Set assigns the score for a domain.
func (s *DomainScores) Set(d Domain, v float64) {
	switch d {
	case DomainEmotionalState:
		s.EmotionalState = v
	case DomainSocialInteraction:
		s.SocialInteraction = v
	case DomainAcademicStrengths:
		s.AcademicStrengths = v
	case DomainFamilyDynamics:
		s.FamilyDynamics = v
	case DomainSelfReflection:
		s.SelfReflection = v
	case DomainCopingStrategies:
		s.CopingStrategies = v
	case DomainPhysicalWellbeing:
		s.PhysicalWellbeing = v
	}
}

// Validate checks every channel lies in [0, ScoreMax].
func (s DomainScores) Validate() error {
	for _, d := range Domains {
		v := s.Get(d)
		if v < 0 || v > ScoreMax {
			return fmt.Errorf("domain %s score %v out of range [0,%v]", d, v, ScoreMax)
		}
	}
	return nil
}

// Clamp forces every channel into [0, ScoreMax].
func (s *DomainScores) Clamp() {
	for _, d := range Domains {
		v := s.Get(d)
		if v < 0 {
			s.Set(d, 0)
		} else if v > ScoreMax {
			s.Set(d, ScoreMax)
		}
	}
}

// IsZero reports whether every channel is 0.
func (s DomainScores) IsZero() bool {
	for _, d := range Domains {
		if s.Get(d) != 0 {
			return false
		}
	}
	return true
}

// Merge returns the running maximum of the aggregate and a new turn's
// scores. A domain revisited with greater depth raises the aggregate; a
// domain not mentioned this turn (score 0) never decays it. Merging an
// all-zero turn is a no-op, which keeps no-signal updates idempotent.
func Merge(prev, turn DomainScores) DomainScores {
	out := prev
	for _, d := range Domains {
		if v := turn.Get(d); v > out.Get(d) {
			out.Set(d, v)
		}
	}
	out.Clamp()
	return out
}

// LowestDomains returns the n domains with the lowest aggregate coverage,
// ties broken by the fixed Domains ordering.
func (s DomainScores) LowestDomains(n int) []Domain {
	picked := make([]Domain, 0, n)
	used := make(map[Domain]bool, n)
	for len(picked) < n && len(picked) < len(Domains) {
		var best Domain
		bestScore := ScoreMax + 1
		for _, d := range Domains {
			if used[d] {
				continue
			}
			if v := s.Get(d); v < bestScore {
				best = d
				bestScore = v
			}
		}
		used[best] = true
		picked = append(picked, best)
	}
	return picked
}

// FocusDirection is the tracker's recommendation for where the next
// question should steer. FocusArea names exactly two domains.
type FocusDirection struct {
	FocusArea            string `json:"focus_area"`
	SuggestedApproach    string `json:"suggested_approach"`
	NextQuestionGuidance string `json:"next_question_guidance"`
}

// TrackingData is the per-turn tracker output returned to the caller.
type TrackingData struct {
	ScoresUserInput      DomainScores   `json:"scores_user_input"`
	UpdatedOverallScores DomainScores   `json:"updated_overall_scores"`
	CompassDirection     FocusDirection `json:"compass_direction"`
}
