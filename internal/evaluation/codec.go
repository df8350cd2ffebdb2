package evaluation

import "encoding/json"

// The storage and transport layers treat an answer as one opaque string.
// Single-value types (single choice, true/false, short answer) are stored as
// the bare string; everything else is a JSON array. Decoding is deliberately
// lenient: empty input, a JSON null or a parse failure all decode to the
// type's empty value so that garbage grades as incomplete instead of crashing
// the grader.

func EncodeText(s string) string {
	return s
}

func EncodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func EncodeMatches(matches []Match) string {
	if matches == nil {
		matches = []Match{}
	}
	b, err := json.Marshal(matches)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func EncodeDragMatches(matches []DragMatch) string {
	if matches == nil {
		matches = []DragMatch{}
	}
	b, err := json.Marshal(matches)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func DecodeList(s string) []string {
	if s == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil
	}
	return items
}

func DecodeMatches(s string) []Match {
	if s == "" {
		return nil
	}
	var matches []Match
	if err := json.Unmarshal([]byte(s), &matches); err != nil {
		return nil
	}
	return matches
}

func DecodeDragMatches(s string) []DragMatch {
	if s == "" {
		return nil
	}
	var matches []DragMatch
	if err := json.Unmarshal([]byte(s), &matches); err != nil {
		return nil
	}
	return matches
}
