package textkit

// StopWords is a fixed, small set of generic English and navigation
// terms (and their stemmed forms) dropped from relevance scoring.
// Kept intentionally short: this is keyword-granularity filtering, not
// a general-purpose NLP stop list.
var StopWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "or": true, "but": true, "nor": true,
	"of": true, "to": true, "in": true, "on": true, "at": true,
	"for": true, "with": true, "by": true, "from": true, "as": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "it": true, "its": true, "this": true,
	"that": true, "these": true, "those": true, "you": true, "your": true,
	"we": true, "our": true, "us": true, "i": true, "he": true, "she": true,
	"they": true, "them": true, "his": true, "her": true, "their": true,

	"click": true, "page": true, "here": true, "more": true,
	"learn": true, "read": true, "view": true, "see": true,
	"home": true, "about": true, "contact": true, "login": true,
	"sign": true, "up": true, "privacy": true, "policy": true,
	"terms": true, "cookie": true, "cookies": true, "menu": true,
	"nav": true, "navigation": true, "footer": true, "header": true,
	"search": true, "skip": true, "content": true, "back": true,
	"next": true, "previous": true, "all": true, "rights": true,
	"reserved": true, "copyright": true,
}

// IsStopWord reports whether the (already lower-cased) token is a
// stop word, by its raw form or its stemmed form.
func IsStopWord(token string) bool {
	if StopWords[token] {
		return true
	}
	return StopWords[Stem(token)]
}
