// Package spelling corrects misspelled words in a question against a
// dictionary of entity names and football statistics vocabulary.
package spelling

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/okian/clubstats/internal/domain/model"
	"github.com/okian/clubstats/internal/domain/similarity"
	"github.com/okian/clubstats/pkg/logger"
	"github.com/okian/clubstats/pkg/metrics"
)

const (
	defaultThreshold       = 0.7
	defaultCommonThreshold = 0.95
	minTokenLength         = 3
	defaultRetryInterval   = 30 * time.Second
)

// CorpusSource returns the entity names of one type. An unavailable corpus
// is an empty one.
type CorpusSource interface {
	Corpus(ctx context.Context, t model.EntityType) []string
}

// Result is a corrected question. Text is the input string itself when
// Corrections is empty.
type Result struct {
	Text        string
	Corrections []model.Correction
}

// Changed reports whether any token was replaced.
func (r Result) Changed() bool { return len(r.Corrections) > 0 }

type dictionary struct {
	words   map[string]struct{}
	ordered []string // sorted, for deterministic tie breaking
	// entityWords counts words that came from the corpus. Zero means the
	// dictionary is running on static terms only.
	entityWords int
	built       time.Time
}

// Corrector replaces unknown tokens with their closest dictionary word.
// It is safe for concurrent use.
type Corrector struct {
	source          CorpusSource
	threshold       float64
	commonThreshold float64
	common          map[string]struct{}
	extra           []string
	retryInterval   time.Duration
	now             func() time.Time
	log             logger.Logger

	loadMu sync.Mutex
	mu     sync.RWMutex
	dict   *dictionary
}

// New creates a Corrector. The dictionary is loaded on first use.
func New(source CorpusSource, opts ...Option) *Corrector {
	c := &Corrector{
		source:          source,
		threshold:       defaultThreshold,
		commonThreshold: defaultCommonThreshold,
		common:          toSet(append(slices.Clone(questionWords), commonVerbs...)),
		retryInterval:   defaultRetryInterval,
		now:             time.Now,
		log:             logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reload rebuilds the dictionary from the current corpus.
func (c *Corrector) Reload(ctx context.Context) {
	d := c.build(ctx)
	c.mu.Lock()
	c.dict = d
	c.mu.Unlock()
}

// loaded returns the dictionary, loading it once. A dictionary built
// without any corpus words is served until the retry interval passes and
// then rebuilt.
func (c *Corrector) loaded(ctx context.Context) *dictionary {
	c.mu.RLock()
	d := c.dict
	c.mu.RUnlock()
	if c.usable(d) {
		return d
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	c.mu.RLock()
	d = c.dict
	c.mu.RUnlock()
	if c.usable(d) {
		return d
	}
	c.Reload(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dict
}

func (c *Corrector) usable(d *dictionary) bool {
	if d == nil {
		return false
	}
	return d.entityWords > 0 || c.now().Sub(d.built) < c.retryInterval
}

func (c *Corrector) build(ctx context.Context) *dictionary {
	d := &dictionary{words: make(map[string]struct{}, 512), built: c.now()}
	add := func(w string) {
		if w == "" {
			return
		}
		if _, ok := d.words[w]; !ok {
			d.words[w] = struct{}{}
			d.ordered = append(d.ordered, w)
		}
	}
	for _, list := range [][]string{domainTerms, questionWords, commonVerbs, functionWords, c.extra} {
		for _, w := range list {
			add(strings.ToLower(w))
		}
	}
	for w := range c.common {
		add(w)
	}

	static := len(d.words)
	if c.source != nil {
		for _, t := range model.EntityTypes() {
			for _, name := range c.source.Corpus(ctx, t) {
				lower := strings.ToLower(strings.TrimSpace(name))
				add(lower)
				for _, part := range strings.Fields(similarity.Normalize(name)) {
					if len([]rune(part)) >= minTokenLength {
						add(part)
					}
				}
			}
		}
	}
	d.entityWords = len(d.words) - static
	slices.Sort(d.ordered)

	if d.entityWords == 0 {
		c.log.Warn(ctx, "spelling dictionary degraded to static terms", logger.Int("words", len(d.words)))
	} else {
		c.log.Debug(ctx, "spelling dictionary loaded",
			logger.Int("words", len(d.words)), logger.Int("entity_words", d.entityWords))
	}
	return d
}

// Correct replaces tokens that are not in the dictionary with the most
// similar dictionary word when the similarity clears the threshold.
func (c *Corrector) Correct(ctx context.Context, question string) Result {
	d := c.loaded(ctx)

	var (
		b           strings.Builder
		corrections []model.Correction
		last        int
	)
	for _, span := range tokenSpans(question) {
		tok := question[span[0]:span[1]]
		lead, core, trail := peel(tok)
		if !c.eligible(core, d) {
			continue
		}
		best, score := c.closest(strings.ToLower(core), d)
		if best == "" {
			continue
		}
		replacement := matchCase(core, best)
		corrections = append(corrections, model.Correction{Original: core, Corrected: replacement, Confidence: score})
		b.WriteString(question[last:span[0]])
		b.WriteString(lead)
		b.WriteString(replacement)
		b.WriteString(trail)
		last = span[1]
	}

	metrics.RecordSpellingCorrections(len(corrections))
	if len(corrections) == 0 {
		return Result{Text: question}
	}
	b.WriteString(question[last:])
	c.log.Debug(ctx, "question corrected", logger.Int("corrections", len(corrections)))
	return Result{Text: b.String(), Corrections: corrections}
}

func (c *Corrector) eligible(core string, d *dictionary) bool {
	if len([]rune(core)) < minTokenLength {
		return false
	}
	for _, r := range core {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	_, known := d.words[strings.ToLower(core)]
	return !known
}

// closest returns the most similar dictionary word if it clears the
// threshold that applies to it. Scores count an adjacent transposition as
// one edit, so "gaols" is one edit from "goals".
func (c *Corrector) closest(word string, d *dictionary) (string, float64) {
	floor := min(c.threshold, c.commonThreshold)
	n := len([]rune(word))
	var (
		best      string
		bestScore float64
	)
	for _, cand := range d.ordered {
		m := len([]rune(cand))
		// The distance is at least the length difference.
		if 1-float64(abs(n-m))/float64(max(n, m)) < floor {
			continue
		}
		if score := similarity.EditSimilarity(word, cand); score > bestScore {
			best, bestScore = cand, score
		}
	}
	if best == "" {
		return "", 0
	}
	need := c.threshold
	if _, ok := c.common[best]; ok {
		need = c.commonThreshold
	}
	if bestScore < need {
		return "", 0
	}
	return best, bestScore
}

// tokenSpans returns the byte offsets of whitespace separated tokens.
func tokenSpans(s string) [][2]int {
	var spans [][2]int
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, [2]int{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, [2]int{start, len(s)})
	}
	return spans
}

// peel splits leading and trailing punctuation off a token.
func peel(tok string) (lead, core, trail string) {
	isEdge := func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) }
	core = strings.TrimLeftFunc(tok, isEdge)
	lead = tok[:len(tok)-len(core)]
	trimmed := strings.TrimRightFunc(core, isEdge)
	trail = core[len(trimmed):]
	return lead, trimmed, trail
}

// matchCase applies the capitalisation of orig to the lower-case word.
func matchCase(orig, word string) string {
	runes := []rune(orig)
	switch {
	case len(runes) > 1 && strings.ToUpper(orig) == orig:
		return strings.ToUpper(word)
	case unicode.IsUpper(runes[0]):
		parts := strings.Split(word, " ")
		for i, p := range parts {
			if p == "" {
				continue
			}
			pr := []rune(p)
			pr[0] = unicode.ToUpper(pr[0])
			parts[i] = string(pr)
		}
		return strings.Join(parts, " ")
	}
	return word
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
