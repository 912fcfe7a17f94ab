package model

import "time"

// Report section names. The five scored passes are order-insensitive;
// recommendations is unscored.
const (
	SectionEmotional     = "emotional_state"
	SectionSocial        = "social_state"
	SectionCoping        = "coping_mechanisms"
	SectionEnvironmental = "environmental_factors"
	SectionAcademic      = "academic_state"
)

// ScoredSections lists the five scored report sections.
var ScoredSections = []string{
	SectionEmotional,
	SectionSocial,
	SectionCoping,
	SectionEnvironmental,
	SectionAcademic,
}

// Risk tier labels derived from the summed section scores.
const (
	RiskLow     = "Low Risk (Minimal Intervention Required)"
	RiskMonitor = "Monitor and possibly refer to a counselor"
	RiskHigh    = "High Risk (Recommend immediate intervention and support)"
)

// RiskLevel maps a total score (0..25) to its tier.
func RiskLevel(total int) string {
	switch {
	case total <= 5:
		return RiskLow
	case total <= 10:
		return RiskMonitor
	default:
		return RiskHigh
	}
}

// Subject identifies who the report is about.
type Subject struct {
	Name       string `json:"name" bson:"name"`
	RollNumber string `json:"roll_number" bson:"rollNumber"`
}

// ReportSection holds one analytical pass: a leading severity score
// (0 when the pass output was unparseable) and its free-text elaboration.
type ReportSection struct {
	Score    int    `json:"score" bson:"score"`
	Analysis string `json:"analysis" bson:"analysis"`
}

// Report is the one-shot counseling report assembled from a full
// conversation transcript. Never merged across runs.
type Report struct {
	ID                string                   `json:"id" bson:"_id,omitempty"`
	ConversationID    string                   `json:"conversationId,omitempty" bson:"conversationId,omitempty"`
	Subject           Subject                  `json:"client_info" bson:"clientInfo"`
	GeneratedAt       time.Time                `json:"date_of_interaction" bson:"generatedAt"`
	Observations      map[string]ReportSection `json:"observations" bson:"observations"`
	TotalScore        int                      `json:"total_score" bson:"totalScore"`
	RiskLevel         string                   `json:"risk_level" bson:"riskLevel"`
	Recommendations   string                   `json:"recommendations" bson:"recommendations"`
	AIConfidenceNotes string                   `json:"ai_confidence_notes" bson:"aiConfidenceNotes"`
}
