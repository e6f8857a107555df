package resolver_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/clubstats/internal/domain/model"
	"github.com/okian/clubstats/internal/domain/resolver"
	. "github.com/smartystreets/goconvey/convey"
)

var players = []string{"Luke Bangs", "Luke Banks", "Oliver Smith", "Olly Smythe", "Sam Jones", "Samuel Jones"}

type countingProvider struct {
	calls atomic.Int32
	names map[model.EntityType][]string
	err   error
}

func (p *countingProvider) ListEntities(_ context.Context, t model.EntityType) ([]string, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.names[t], nil
}

func TestResolveExact(t *testing.T) {
	Convey("Given a player corpus", t, func() {
		ctx := context.Background()
		r := resolver.New(resolver.StaticProvider{model.EntityPlayer: players})

		Convey("When every corpus name is resolved as written", func() {
			Convey("Then it is an exact match with no fuzzy results or suggestions", func() {
				for _, name := range players {
					res := r.Resolve(ctx, name, model.EntityPlayer)
					So(res.ExactMatch, ShouldEqual, name)
					So(res.FuzzyMatches, ShouldBeEmpty)
					So(res.Suggestions, ShouldBeEmpty)
				}
			})
		})

		Convey("When the input differs only in case, spacing and punctuation", func() {
			res := r.Resolve(ctx, "  luke   BANGS. ", model.EntityPlayer)

			Convey("Then the normalized form matches exactly", func() {
				So(res.ExactMatch, ShouldEqual, "Luke Bangs")
				So(res.FuzzyMatches, ShouldBeEmpty)
			})
		})
	})
}

func TestResolveFuzzy(t *testing.T) {
	Convey("Given a player corpus", t, func() {
		ctx := context.Background()
		r := resolver.New(resolver.StaticProvider{model.EntityPlayer: players})

		Convey("When resolving a misspelled name", func() {
			res := r.Resolve(ctx, "Luke Bnags", model.EntityPlayer)

			Convey("Then the closest candidates come first, capped at three", func() {
				So(res.ExactMatch, ShouldBeEmpty)
				So(len(res.FuzzyMatches), ShouldBeGreaterThan, 0)
				So(len(res.FuzzyMatches), ShouldBeLessThanOrEqualTo, 3)
				So(res.FuzzyMatches[0].Candidate, ShouldEqual, "Luke Bangs")
				So(res.FuzzyMatches[0].EntityType, ShouldEqual, model.EntityPlayer)
				for i := 1; i < len(res.FuzzyMatches); i++ {
					So(res.FuzzyMatches[i-1].Confidence, ShouldBeGreaterThanOrEqualTo, res.FuzzyMatches[i].Confidence)
				}
				for _, m := range res.FuzzyMatches {
					So(m.Confidence, ShouldBeGreaterThanOrEqualTo, 0.6)
					So(m.Confidence, ShouldBeLessThanOrEqualTo, 1)
				}
			})
		})

		Convey("When resolving a partial name", func() {
			res := r.Resolve(ctx, "Sam", model.EntityPlayer)

			Convey("Then prefix suggestions are offered", func() {
				So(res.ExactMatch, ShouldBeEmpty)
				So(res.Suggestions, ShouldResemble, []string{"Sam Jones", "Samuel Jones"})
			})
		})

		Convey("When resolving an unrelated name", func() {
			res := r.Resolve(ctx, "Zebedee Quartermaine", model.EntityPlayer)

			Convey("Then nothing is found", func() {
				So(res.Found(), ShouldBeFalse)
				So(res.Suggestions, ShouldBeEmpty)
				So(res.AllEntities, ShouldResemble, players)
			})
		})

		Convey("When using the conveniences", func() {
			best, ok := r.BestMatch(ctx, "Oliver Smth", model.EntityPlayer)
			So(ok, ShouldBeTrue)
			So(best, ShouldEqual, "Oliver Smith")
			So(r.EntityExists(ctx, "sam jones", model.EntityPlayer), ShouldBeTrue)
			So(r.EntityExists(ctx, "Sam Jonez", model.EntityPlayer), ShouldBeFalse)
			_, ok = r.BestMatch(ctx, "", model.EntityPlayer)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestCorpusCaching(t *testing.T) {
	Convey("Given a provider behind a cache with a controllable clock", t, func() {
		ctx := context.Background()
		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		var mu sync.Mutex
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		advance := func(d time.Duration) {
			mu.Lock()
			now = now.Add(d)
			mu.Unlock()
		}
		p := &countingProvider{names: map[model.EntityType][]string{
			model.EntityPlayer: {"Luke Bangs", "Luke Bangs", " ", "Sam Jones"},
		}}
		r := resolver.New(p, resolver.WithCache(resolver.NewMemoryCache(resolver.WithClock(clock))))

		Convey("When the corpus is read repeatedly within the TTL", func() {
			first := r.Corpus(ctx, model.EntityPlayer)
			r.Corpus(ctx, model.EntityPlayer)
			r.Resolve(ctx, "Sam Jones", model.EntityPlayer)

			Convey("Then the provider is called once and duplicates are dropped", func() {
				So(p.calls.Load(), ShouldEqual, 1)
				So(first, ShouldResemble, []string{"Luke Bangs", "Sam Jones"})
			})

			Convey("Then the entry is refetched after five minutes", func() {
				advance(5 * time.Minute)
				r.Corpus(ctx, model.EntityPlayer)
				So(p.calls.Load(), ShouldEqual, 2)
			})

			Convey("Then explicit invalidation forces a refetch", func() {
				r.ClearCacheForType(ctx, model.EntityPlayer)
				r.Corpus(ctx, model.EntityPlayer)
				So(p.calls.Load(), ShouldEqual, 2)
				r.ClearCache(ctx)
				r.Corpus(ctx, model.EntityPlayer)
				So(p.calls.Load(), ShouldEqual, 3)
			})
		})
	})
}

func TestCorpusUnavailable(t *testing.T) {
	Convey("Given a provider that fails", t, func() {
		ctx := context.Background()
		p := &countingProvider{err: errors.New("connection refused")}
		r := resolver.New(p)

		Convey("When resolving", func() {
			res := r.Resolve(ctx, "Luke Bangs", model.EntityPlayer)

			Convey("Then the corpus is treated as empty and the failure is not cached", func() {
				So(res.Found(), ShouldBeFalse)
				So(res.AllEntities, ShouldBeEmpty)
				r.Resolve(ctx, "Luke Bangs", model.EntityPlayer)
				So(p.calls.Load(), ShouldEqual, 2)
			})
		})

		Convey("When no provider is configured", func() {
			res := resolver.New(nil).Resolve(ctx, "Luke Bangs", model.EntityPlayer)
			So(res.Found(), ShouldBeFalse)
		})
	})
}

func TestSharedFetchIgnoresCallerCancellation(t *testing.T) {
	Convey("Given a provider that honours its context", t, func() {
		p := resolver.ProviderFunc(func(ctx context.Context, _ model.EntityType) ([]string, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return players, nil
		})
		r := resolver.New(p)

		Convey("When the first caller's context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			names := r.Corpus(ctx, model.EntityPlayer)

			Convey("Then the shared fetch still loads and caches the corpus", func() {
				So(names, ShouldResemble, players)
				So(r.Corpus(context.Background(), model.EntityPlayer), ShouldResemble, players)
			})
		})
	})
}

func TestMemoryCache(t *testing.T) {
	Convey("Given a memory cache", t, func() {
		ctx := context.Background()
		c := resolver.NewMemoryCache(resolver.WithTTL(time.Minute))
		names := []string{"a", "b"}
		c.Set(ctx, model.EntityTeam, names)
		names[0] = "mutated"

		Convey("Then stored values are copies", func() {
			got, ok := c.Get(ctx, model.EntityTeam)
			So(ok, ShouldBeTrue)
			So(got, ShouldResemble, []string{"a", "b"})
			So(c.Len(), ShouldEqual, 1)
		})

		Convey("Then unknown types miss", func() {
			_, ok := c.Get(ctx, model.EntityLeague)
			So(ok, ShouldBeFalse)
		})
	})
}
