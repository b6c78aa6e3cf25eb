package audio

// completeWords is a closed set of common English words that legitimately
// end an utterance without punctuation. A transcript whose final token is
// outside this set (and carries no terminal punctuation) is flagged as
// suspected truncated. The set errs toward flagging: a false positive only
// sets an advisory flag on the transcript.
var completeWords = map[string]bool{
	"a": true, "about": true, "above": true, "after": true, "again": true,
	"against": true, "all": true, "also": true, "always": true, "an": true,
	"and": true, "answer": true, "answers": true, "any": true, "are": true,
	"as": true, "ask": true, "at": true, "available": true, "back": true,
	"be": true, "because": true, "been": true, "before": true, "begin": true,
	"below": true, "between": true, "both": true, "but": true, "by": true,
	"can": true, "cannot": true, "click": true, "code": true, "column": true,
	"complete": true, "correct": true, "could": true, "count": true,
	"data": true, "day": true, "did": true, "do": true, "does": true,
	"done": true, "down": true, "download": true, "each": true, "else": true,
	"email": true, "end": true, "endpoint": true, "every": true, "field": true,
	"fields": true, "file": true, "files": true, "filter": true, "find": true,
	"finish": true, "finished": true, "first": true, "follow": true,
	"following": true, "for": true, "form": true, "format": true, "found": true,
	"from": true, "get": true, "given": true, "go": true, "good": true,
	"had": true, "has": true, "have": true, "he": true, "header": true,
	"headers": true, "her": true, "here": true, "him": true, "his": true,
	"how": true, "if": true, "in": true, "include": true, "included": true,
	"instructions": true, "into": true, "is": true, "it": true, "its": true,
	"json": true, "just": true, "key": true, "last": true, "left": true,
	"less": true, "like": true, "link": true, "list": true, "listed": true,
	"luck": true, "make": true, "many": true, "may": true, "me": true,
	"mentioned": true, "method": true, "more": true, "most": true, "much": true,
	"must": true, "my": true, "name": true, "need": true, "needed": true,
	"next": true, "no": true, "not": true, "now": true, "number": true,
	"numbers": true, "of": true, "off": true, "on": true, "once": true,
	"one": true, "only": true, "or": true, "order": true, "other": true,
	"our": true, "out": true, "over": true, "page": true, "parameter": true,
	"parameters": true, "payload": true, "per": true, "please": true,
	"post": true, "provided": true, "question": true, "read": true,
	"ready": true, "request": true, "required": true, "response": true,
	"result": true, "results": true, "right": true, "row": true, "rows": true,
	"same": true, "scrape": true, "second": true, "secret": true, "see": true,
	"send": true, "sent": true, "she": true, "should": true, "shown": true,
	"so": true, "solve": true, "some": true, "start": true, "step": true,
	"steps": true, "submit": true, "submitted": true, "sum": true, "table": true,
	"task": true, "text": true, "than": true, "that": true, "the": true,
	"their": true, "them": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "those": true, "three": true, "through": true,
	"time": true, "to": true, "together": true, "too": true, "total": true,
	"two": true, "under": true, "until": true, "up": true, "url": true,
	"us": true, "use": true, "used": true, "using": true, "value": true,
	"values": true, "very": true, "was": true, "way": true, "we": true,
	"webpage": true, "website": true, "well": true, "were": true, "what": true,
	"when": true, "where": true, "which": true, "while": true, "who": true,
	"will": true, "with": true, "within": true, "word": true, "words": true,
	"would": true, "yes": true, "yet": true, "you": true, "your": true,
	"zero": true,
}
