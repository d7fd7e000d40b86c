package compliance

import "sort"

// QuestionMappings returns, for every question id referenced by reqs, the ids
// of the requirements it feeds, in requirement order.
func QuestionMappings(reqs []Requirement) map[string][]string {
	out := make(map[string][]string)
	for _, r := range reqs {
		for _, qid := range r.RelatedQuestions {
			ids := out[qid]
			if len(ids) > 0 && ids[len(ids)-1] == r.ID {
				continue
			}
			out[qid] = append(ids, r.ID)
		}
	}
	return out
}

// ByCategory groups requirements by category, keeping their order inside each group.
func ByCategory(reqs []Requirement) map[Category][]Requirement {
	out := make(map[Category][]Requirement)
	for _, r := range reqs {
		out[r.Category] = append(out[r.Category], r)
	}
	return out
}

// MappedQuestionIDs returns every question id referenced by reqs, sorted.
func MappedQuestionIDs(reqs []Requirement) []string {
	m := QuestionMappings(reqs)
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
