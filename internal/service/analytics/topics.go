package analytics

import "strings"

// topicTaxonomy is the fixed keyword taxonomy for classifying visitor
// messages. A message may match any number of categories; matching is
// case-insensitive substring.
var topicTaxonomy = []struct {
	name     string
	keywords []string
}{
	{"experience", []string{"capco", "consulting", "work", "job", "career", "employer"}},
	{"ai", []string{"ai", "machine learning", "llm", "gpt", "claude", "agent", "rag"}},
	{"cloud", []string{"aws", "docker", "kubernetes", "cloud", "devops", "terraform"}},
	{"projects", []string{"project", "portfolio", "built", "building", "app", "side hustle"}},
	{"education", []string{"school", "university", "degree", "study", "certification"}},
	{"personal", []string{"toronto", "hobby", "hobbies", "travel", "fun", "outside of work"}},
	{"contact", []string{"contact", "email", "linkedin", "resume", "hire", "hiring", "reach"}},
}

// TagMessage returns the topic categories a visitor message falls into, in
// taxonomy order. Zero or more tags per message.
func TagMessage(text string) []string {
	lower := strings.ToLower(text)

	var tags []string
	for _, topic := range topicTaxonomy {
		for _, kw := range topic.keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, topic.name)
				break
			}
		}
	}
	return tags
}
