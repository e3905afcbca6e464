package models

// ProficiencyLevel grades how capable a unit is at its declared task.
type ProficiencyLevel string

const (
	// ProficiencyNovice indicates minimal proficiency.
	ProficiencyNovice ProficiencyLevel = "NOVICE"
	// ProficiencyCompetent indicates working proficiency.
	ProficiencyCompetent ProficiencyLevel = "COMPETENT"
	// ProficiencyExpert indicates full proficiency.
	ProficiencyExpert ProficiencyLevel = "EXPERT"
)

// Valid returns true if the level is a known value.
func (p ProficiencyLevel) Valid() bool {
	switch p {
	case ProficiencyNovice, ProficiencyCompetent, ProficiencyExpert:
		return true
	default:
		return false
	}
}

// CapabilityDescriptor describes what a registered unit can do.
// It is declared once at registration time and immutable thereafter.
type CapabilityDescriptor struct {
	// CapabilityID is the unique identifier of the capability,
	// conventionally the unit's taxonomy identifier.
	CapabilityID string `json:"capability_id"`
	// Name is the human-readable capability name.
	Name string `json:"name"`
	// Proficiency is the declared proficiency level.
	Proficiency ProficiencyLevel `json:"proficiency_level"`
	// ConfidenceScore is the unit's self-assessed confidence in [0,1].
	ConfidenceScore float64 `json:"confidence_score"`
	// Domain is the business domain the unit operates in.
	Domain string `json:"domain"`
	// ProtocolsSupported lists the interaction protocols the unit speaks.
	ProtocolsSupported []string `json:"protocols_supported,omitempty"`
	// RequiresHumanApproval indicates the unit's output needs review
	// before downstream use.
	RequiresHumanApproval bool `json:"requires_human_approval"`
	// EstimatedDurationSeconds is the expected execution time.
	EstimatedDurationSeconds float64 `json:"estimated_duration_seconds"`
}

// SupportsProtocol returns true if the descriptor lists the protocol.
func (d CapabilityDescriptor) SupportsProtocol(protocol string) bool {
	for _, p := range d.ProtocolsSupported {
		if p == protocol {
			return true
		}
	}
	return false
}
