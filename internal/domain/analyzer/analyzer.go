// Package analyzer extracts entities, metrics and qualifiers from a
// (spelling corrected) question using keyword and pattern matching.
package analyzer

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/okian/clubstats/internal/domain/model"
)

var (
	teamOrdinalRe = regexp.MustCompile(`\b([1-8])(?:st|nd|rd|th)\s+(?:team|xi|x1|eleven)\b`)
	teamWordRe    = regexp.MustCompile(`\b(first|second|third|fourth|fifth|sixth|seventh|eighth)\s+(?:team|xi|eleven)\b`)
	teamShortRe   = regexp.MustCompile(`\b(?:the\s+)?([1-8])s\b`)
	seasonRe      = regexp.MustCompile(`\b(?:the\s+)?((?:19|20)\d{2})\s*[/-]\s*(\d{2}|(?:19|20)\d{2})(?:\s+season)?\b`)
	thisSeasonRe  = regexp.MustCompile(`\b(?:this|current)\s+season\b`)
	lastSeasonRe  = regexp.MustCompile(`\b(?:last|previous)\s+season\b`)
	sinceYearRe   = regexp.MustCompile(`\bsince\s+((?:19|20)\d{2})\b`)
	inYearRe      = regexp.MustCompile(`\b(?:in|during)\s+((?:19|20)\d{2})\b`)
	homeRe        = regexp.MustCompile(`\b(?:at\s+home|home\s+(?:games|matches|fixtures)|home)\b`)
	awayRe        = regexp.MustCompile(`\b(?:away\s+from\s+home|away\s+(?:games|matches|fixtures)|away)\b`)
	oppositionRe  = regexp.MustCompile(`\b(?:against|playing)\s+`)
	firstPersonRe = regexp.MustCompile(`\b(?:i|i've|i'm|my|me|myself)\b`)
	leaderRe      = regexp.MustCompile(`\b(?:most|top|highest|leading|best)\b`)
	leaderAskRe   = regexp.MustCompile(`\b(?:who|which\s+player|top\s+scorer|leading\s+scorer)\b`)
	compareRe     = regexp.MustCompile(`\b(?:compare|versus|vs|v|than)\b|\bmore\b.*\bor\b`)
)

type phrase struct {
	text string
	key  string
}

// Analyzer turns question text into a model.QuestionAnalysis. It holds only
// read-only tables and is safe for concurrent use.
type Analyzer struct {
	phrases []phrase // longest first
	verbs   []phrase // longest first
}

// New creates an Analyzer over the metric catalog.
func New() *Analyzer {
	a := &Analyzer{}
	for _, m := range model.Metrics() {
		for _, p := range m.Phrases {
			a.phrases = append(a.phrases, phrase{text: p, key: m.Key})
		}
	}
	for text, key := range verbPhrases {
		a.verbs = append(a.verbs, phrase{text: text, key: key})
	}
	byLength := func(x, y phrase) int {
		if c := cmp.Compare(len(y.text), len(x.text)); c != 0 {
			return c
		}
		return strings.Compare(x.text, y.text)
	}
	slices.SortStableFunc(a.phrases, byLength)
	slices.SortFunc(a.verbs, byLength)
	return a
}

type span struct{ start, end int }

type claims []span

func (c claims) overlaps(start, end int) bool {
	for _, s := range c {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

type hit struct {
	pos int
	key string
}

// Analyze extracts the structured intent of text. knownPlayers are matched
// case-insensitively in addition to capitalised names.
func (a *Analyzer) Analyze(text string, knownPlayers []string) model.QuestionAnalysis {
	lower := asciiLower(text)
	var (
		taken claims
		q     model.Qualifiers
	)

	q.Team, taken = extractTeam(lower, taken)
	q.Season, taken = extractSeason(lower, taken)
	q.Timeframe, taken = extractTimeframe(lower, text, taken)
	q.Location, taken = extractLocation(lower, taken)
	q.Opposition, taken = extractOpposition(lower, text, taken)
	q.FirstPerson = firstPersonRe.MatchString(lower)

	var entities []hit
	entities, taken = a.knownEntities(lower, text, knownPlayers, entities, taken)

	var metrics []string
	metrics, taken = a.extractMetrics(lower, taken)

	entities = append(entities, capitalisedRuns(text, taken)...)
	slices.SortStableFunc(entities, func(x, y hit) int { return cmp.Compare(x.pos, y.pos) })

	names := make([]string, 0, len(entities))
	for _, e := range entities {
		if !slices.Contains(names, e.key) {
			names = append(names, e.key)
		}
	}

	analysis := model.QuestionAnalysis{
		Entities:   names,
		Metrics:    metrics,
		Qualifiers: q,
	}
	analysis.Intent = intentOf(lower, analysis)
	return analysis
}

func intentOf(lower string, a model.QuestionAnalysis) model.Intent {
	switch {
	case len(a.Entities) >= 2 || (len(a.Entities) == 1 && a.Qualifiers.FirstPerson && compareRe.MatchString(lower)):
		return model.IntentComparison
	case len(a.Entities) == 0 && !a.Qualifiers.FirstPerson && leaderRe.MatchString(lower) && leaderAskRe.MatchString(lower):
		return model.IntentLeaderboard
	case len(a.Entities) == 0 && !a.Qualifiers.FirstPerson && (a.Qualifiers.Team != "" || teamOnlyMetric(a.Metrics)):
		return model.IntentTeamMetric
	}
	return model.IntentPlayerMetric
}

func teamOnlyMetric(keys []string) bool {
	if len(keys) == 0 {
		return false
	}
	m, ok := model.LookupMetric(keys[0])
	return ok && m.Kind == model.KindTeamResult
}

func extractTeam(lower string, taken claims) (string, claims) {
	if m := teamOrdinalRe.FindStringSubmatchIndex(lower); m != nil {
		n, _ := strconv.Atoi(lower[m[2]:m[3]])
		return Ordinal(n), append(taken, span{m[0], m[1]})
	}
	if m := teamWordRe.FindStringSubmatchIndex(lower); m != nil {
		return ordinalWords[lower[m[2]:m[3]]], append(taken, span{m[0], m[1]})
	}
	if m := teamShortRe.FindStringSubmatchIndex(lower); m != nil {
		n, _ := strconv.Atoi(lower[m[2]:m[3]])
		return Ordinal(n), append(taken, span{m[0], m[1]})
	}
	return "", taken
}

func extractSeason(lower string, taken claims) (string, claims) {
	m := seasonRe.FindStringSubmatchIndex(lower)
	if m == nil {
		return "", taken
	}
	start := lower[m[2]:m[3]]
	end := lower[m[4]:m[5]]
	if len(end) == 4 {
		end = end[2:]
	}
	return start + "/" + end, append(taken, span{m[0], m[1]})
}

func extractTimeframe(lower, text string, taken claims) (*model.Timeframe, claims) {
	if m := thisSeasonRe.FindStringIndex(lower); m != nil && !taken.overlaps(m[0], m[1]) {
		return &model.Timeframe{Kind: model.TimeframeThisSeason, Text: text[m[0]:m[1]]}, append(taken, span{m[0], m[1]})
	}
	if m := lastSeasonRe.FindStringIndex(lower); m != nil && !taken.overlaps(m[0], m[1]) {
		return &model.Timeframe{Kind: model.TimeframeLastSeason, Text: text[m[0]:m[1]]}, append(taken, span{m[0], m[1]})
	}
	if m := sinceYearRe.FindStringSubmatchIndex(lower); m != nil && !taken.overlaps(m[0], m[1]) {
		y, _ := strconv.Atoi(lower[m[2]:m[3]])
		return &model.Timeframe{Kind: model.TimeframeSince, Year: y, Text: text[m[0]:m[1]]}, append(taken, span{m[0], m[1]})
	}
	if m := inYearRe.FindStringSubmatchIndex(lower); m != nil && !taken.overlaps(m[0], m[1]) {
		y, _ := strconv.Atoi(lower[m[2]:m[3]])
		return &model.Timeframe{Kind: model.TimeframeYear, Year: y, Text: text[m[0]:m[1]]}, append(taken, span{m[0], m[1]})
	}
	return nil, taken
}

func extractLocation(lower string, taken claims) (model.Location, claims) {
	// "away from home" must win over "home".
	if m := awayRe.FindStringIndex(lower); m != nil {
		return model.LocationAway, append(taken, span{m[0], m[1]})
	}
	if m := homeRe.FindStringIndex(lower); m != nil {
		return model.LocationHome, append(taken, span{m[0], m[1]})
	}
	return "", taken
}

// extractOpposition reads the words after "against"/"playing" up to a stop
// word or punctuation.
func extractOpposition(lower, text string, taken claims) (string, claims) {
	m := oppositionRe.FindStringIndex(lower)
	if m == nil {
		return "", taken
	}
	end := m[1]
	var words []string
	for _, w := range wordSpans(text[m[1]:]) {
		word := text[m[1]+w.start : m[1]+w.end]
		core := strings.TrimRightFunc(word, unicode.IsPunct)
		if _, stop := oppositionStops[asciiLower(core)]; stop || core == "" || taken.overlaps(m[1]+w.start, m[1]+w.end) {
			break
		}
		if len(words) > 0 && m[1]+w.start > end+1 {
			break
		}
		if len(words) == 0 && asciiLower(core) == "the" {
			end = m[1] + w.end
			continue
		}
		words = append(words, core)
		end = m[1] + w.start + len(core)
		if core != word {
			break
		}
	}
	if len(words) == 0 {
		return "", taken
	}
	return strings.Join(words, " "), append(taken, span{m[0], end})
}

func (a *Analyzer) knownEntities(lower, text string, known []string, out []hit, taken claims) ([]hit, claims) {
	sorted := slices.Clone(known)
	slices.SortStableFunc(sorted, func(x, y string) int { return cmp.Compare(len(y), len(x)) })
	for _, name := range sorted {
		needle := asciiLower(strings.TrimSpace(name))
		if needle == "" {
			continue
		}
		for _, idx := range indexWords(lower, needle) {
			if taken.overlaps(idx, idx+len(needle)) {
				continue
			}
			out = append(out, hit{pos: idx, key: text[idx : idx+len(needle)]})
			taken = append(taken, span{idx, idx + len(needle)})
		}
	}
	return out, taken
}

func (a *Analyzer) extractMetrics(lower string, taken claims) ([]string, claims) {
	var nouns []hit
	for _, p := range a.phrases {
		for _, idx := range indexWords(lower, p.text) {
			if taken.overlaps(idx, idx+len(p.text)) {
				continue
			}
			nouns = append(nouns, hit{pos: idx, key: p.key})
			taken = append(taken, span{idx, idx + len(p.text)})
		}
	}
	var verbs []hit
	for _, p := range a.verbs {
		for _, idx := range indexWords(lower, p.text) {
			if taken.overlaps(idx, idx+len(p.text)) {
				continue
			}
			verbs = append(verbs, hit{pos: idx, key: p.text})
			taken = append(taken, span{idx, idx + len(p.text)})
		}
	}
	byPos := func(x, y hit) int { return cmp.Compare(x.pos, y.pos) }
	slices.SortStableFunc(nouns, byPos)
	slices.SortStableFunc(verbs, byPos)

	var keys []string
	addKey := func(k string) {
		if k != "" && !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	for _, n := range nouns {
		key := n.key
		for _, v := range verbs {
			if refined, ok := refinements[key][v.key]; ok {
				key = refined
				break
			}
		}
		addKey(key)
	}
	if len(keys) == 0 {
		for _, v := range verbs {
			addKey(verbPhrases[v.key])
		}
	}
	return keys, taken
}

// capitalisedRuns finds runs of capitalised words outside claimed spans.
func capitalisedRuns(text string, taken claims) []hit {
	var (
		out   []hit
		run   []string
		start = -1
		last  = -1
	)
	flush := func() {
		if len(run) > 0 {
			out = append(out, hit{pos: start, key: strings.Join(run, " ")})
		}
		run, start = nil, -1
	}
	for _, w := range wordSpans(text) {
		word := text[w.start:w.end]
		core := strings.TrimLeftFunc(word, unicode.IsPunct)
		lead := len(word) - len(core)
		core = strings.TrimRightFunc(core, unicode.IsPunct)
		core = strings.TrimSuffix(strings.TrimSuffix(core, "'s"), "’s")
		endsClause := len(strings.TrimRightFunc(word, unicode.IsPunct)) != len(word) && !strings.HasSuffix(word, "'")

		if !isName(core) || taken.overlaps(w.start, w.end) || lead > 0 {
			flush()
			continue
		}
		if len(run) > 0 && w.start > last+1 {
			flush()
		}
		if start < 0 {
			start = w.start
		}
		run = append(run, core)
		last = w.end
		if endsClause {
			flush()
		}
	}
	flush()
	return out
}

func isName(word string) bool {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 || !unicode.IsUpper(r) {
		return false
	}
	if _, stop := stopWords[asciiLower(word)]; stop {
		return false
	}
	for _, r := range word {
		if unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// wordSpans returns the byte offsets of whitespace separated words.
func wordSpans(s string) []span {
	var out []span
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, span{start, len(s)})
	}
	return out
}

// indexWords returns every offset of needle in s that sits on word boundaries.
func indexWords(s, needle string) []int {
	var out []int
	for from := 0; from <= len(s)-len(needle); {
		i := strings.Index(s[from:], needle)
		if i < 0 {
			break
		}
		i += from
		end := i + len(needle)
		if boundaryBefore(s, i) && boundaryAfter(s, end) {
			out = append(out, i)
		}
		from = i + 1
	}
	return out
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// asciiLower lower-cases ASCII letters only, keeping byte offsets aligned
// with the input.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
