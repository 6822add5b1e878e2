package resolver

import "strings"

// Intent classifies what a question is asking for. It steers both the
// retrieval query and which volatile fields matter in the answer.
type Intent string

const (
	IntentGeneral        Intent = "general"
	IntentFees           Intent = "fees"
	IntentRequirements   Intent = "requirements"
	IntentSchedule       Intent = "schedule"
	IntentRecommendation Intent = "recommendation"
)

var intentKeywords = map[Intent][]string{
	IntentFees: {
		"fee", "fees", "cost", "price", "pricing", "how much", "funding", "subsidy", "subsidies",
	},
	IntentRequirements: {
		"requirement", "requirements", "prerequisite", "prerequisites", "eligible", "eligibility",
		"qualify", "admission", "entry",
	},
	IntentSchedule: {
		"intake", "when", "start date", "schedule", "commence", "commencement", "duration",
		"how long", "registration",
	},
	IntentRecommendation: {
		"recommend", "suggest", "which course", "what course", "suitable", "best course",
		"should i take", "looking for",
	},
}

// DetectIntent classifies a question by keyword. The first matching
// intent in priority order wins; fees and requirements outrank the
// broader recommendation phrasing.
func DetectIntent(query string) Intent {
	q := strings.ToLower(query)
	for _, intent := range []Intent{IntentFees, IntentRequirements, IntentSchedule, IntentRecommendation} {
		for _, kw := range intentKeywords[intent] {
			if strings.Contains(q, kw) {
				return intent
			}
		}
	}
	return IntentGeneral
}

// EnrichQuery expands a question with domain terms before embedding.
// Fee and schedule questions carry little semantic overlap with course
// descriptions, so the course subject words need reinforcing.
func EnrichQuery(query string, intent Intent) string {
	switch intent {
	case IntentFees:
		return query + " course fee tuition"
	case IntentRequirements:
		return query + " entry requirements admission criteria"
	case IntentSchedule:
		return query + " course intake schedule duration"
	default:
		return query
	}
}
