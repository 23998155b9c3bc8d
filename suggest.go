package lawdoc

import "regexp"

// Fallback suggestions used when no topic pattern matches the question.
const (
	DefaultAlternativeSuggestion = "Could you rephrase your question to be more specific about what you want to know?"
	DefaultSituationSuggestion   = "Specify the particular situation you're asking about."
	DefaultTopicSuggestion       = "Try focusing your question on specific legal rights or procedures."
)

var (
	policeTerms = regexp.MustCompile(`(?i)\b(police|cop|officer)s?\b`)
	idTerms     = regexp.MustCompile(`(?i)\b(id|identification)\b`)
	rightsTerms = regexp.MustCompile(`(?i)\b(rights|legal)\b`)
	arrestTerms = regexp.MustCompile(`(?i)\b(arrest|stop|detain)\b`)
)

// suggestionRule maps a topic pattern to its suggestion text.
type suggestionRule struct {
	pattern *regexp.Regexp
	text    string
}

var alternativeRules = []suggestionRule{
	{idTerms, "What are the rules for police officers regarding identification requests in my state?"},
	{rightsTerms, "What are the rules for police officers about citizen interactions in my state?"},
	{arrestTerms, "What are the rules for police officers about detaining individuals in my state?"},
}

var situationRules = []suggestionRule{
	{idTerms, "Specify if you're asking about a particular situation, like during a traffic stop, routine patrol, or at a public event."},
	{rightsTerms, "Specify if you're asking about a particular situation, like during a specific circumstance or location."},
	{arrestTerms, "Specify if you're asking about a particular situation, like during a traffic violation, suspicious activity, or emergency situation."},
}

var topicRules = []suggestionRule{
	{idTerms, "Consider asking about specific police procedures or citizen rights during identification checks."},
	{rightsTerms, "Try asking about your specific rights in this situation."},
	{arrestTerms, "You might want to ask about the legal requirements for police stops or detentions."},
}

// Suggestions returns three ways to improve a question that retrieved no
// relevant documentation: an alternative phrasing, a prompt to name the
// situation, and a narrower topic.
func Suggestions(question string) []string {
	alternative := DefaultAlternativeSuggestion
	if policeTerms.MatchString(question) {
		alternative = firstMatch(question, alternativeRules, DefaultAlternativeSuggestion)
	}
	return []string{
		alternative,
		firstMatch(question, situationRules, DefaultSituationSuggestion),
		firstMatch(question, topicRules, DefaultTopicSuggestion),
	}
}

func firstMatch(question string, rules []suggestionRule, fallback string) string {
	for _, r := range rules {
		if r.pattern.MatchString(question) {
			return r.text
		}
	}
	return fallback
}
