package text

// English function words dropped during query parsing.
var englishStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "be": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "to": {}, "of": {}, "and": {}, "or": {},
	"in": {}, "that": {}, "this": {}, "these": {}, "those": {},
	"have": {}, "has": {}, "had": {}, "it": {}, "its": {}, "for": {},
	"not": {}, "on": {}, "with": {}, "as": {}, "you": {}, "your": {},
	"do": {}, "does": {}, "at": {}, "but": {}, "by": {}, "from": {},
	"what": {}, "which": {}, "who": {}, "how": {}, "when": {}, "where": {},
	"why": {}, "can": {}, "will": {}, "about": {}, "into": {}, "there": {},
}

// Thai function words dropped during query parsing. Matching is done on
// the exact folded form; the list covers the high-frequency particles
// that carry no search intent.
var thaiStopWords = map[string]struct{}{
	"ที่": {}, "และ": {}, "ของ": {}, "ใน": {}, "ให้": {}, "ได้": {},
	"ไป": {}, "มา": {}, "เป็น": {}, "คือ": {}, "มี": {}, "ว่า": {},
	"จะ": {}, "ก็": {}, "แล้ว": {}, "กับ": {}, "แต่": {}, "หรือ": {},
	"จาก": {}, "ถึง": {}, "โดย": {}, "อยู่": {}, "อย่าง": {}, "นี้": {},
	"นั้น": {}, "ๆ": {}, "ครับ": {}, "ค่ะ": {}, "คะ": {}, "ไหม": {},
	"อะไร": {}, "ทำไม": {}, "อย่างไร": {}, "ที่ไหน": {}, "เมื่อไหร่": {},
}

// IsStopWord reports whether a folded token is an English or Thai
// function word. Callers may layer additional words on top via
// WithExtra.
func IsStopWord(token string) bool {
	if _, ok := englishStopWords[token]; ok {
		return true
	}
	_, ok := thaiStopWords[token]
	return ok
}

// StopWordSet is a stop-word predicate extended with caller-supplied words.
type StopWordSet struct {
	extra map[string]struct{}
}

// WithExtra builds a StopWordSet layering extra words (folded before
// lookup) over the built-in English and Thai sets.
func WithExtra(words []string) StopWordSet {
	extra := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w = Fold(w); w != "" {
			extra[w] = struct{}{}
		}
	}
	return StopWordSet{extra: extra}
}

// Contains reports whether token is a stop word in this set.
func (s StopWordSet) Contains(token string) bool {
	if IsStopWord(token) {
		return true
	}
	_, ok := s.extra[token]
	return ok
}
