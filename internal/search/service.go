package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/just-aly/tryfit-backend/pkg/errors"
	"github.com/just-aly/tryfit-backend/pkg/logger"
	redispkg "github.com/just-aly/tryfit-backend/pkg/redis"
)

const corpusCacheScope = "search:corpus"

// Service matches free-text queries against the active catalog.
type Service interface {
	Search(ctx context.Context, query string) (*MatchResult, error)
}

type corpusSource interface {
	SearchCorpus(ctx context.Context) ([]CorpusEntry, error)
}

type cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(scope, id string) string
}

type service struct {
	source    corpusSource
	cache     cache
	logg      *logger.Logger
	corpusTTL time.Duration
}

// NewService constructs the search service. The cache is optional; a nil
// cache re-reads the corpus from the catalog on every query.
func NewService(source corpusSource, cacheClient cache, logg *logger.Logger, corpusTTL time.Duration) (Service, error) {
	if source == nil {
		return nil, fmt.Errorf("corpus source required")
	}
	return &service{
		source:    source,
		cache:     cacheClient,
		logg:      logg,
		corpusTTL: corpusTTL,
	}, nil
}

func (s *service) Search(ctx context.Context, query string) (*MatchResult, error) {
	corpus, err := s.corpus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading search corpus")
	}
	result := Match(query, corpus)
	return &result, nil
}

func (s *service) corpus(ctx context.Context) ([]CorpusEntry, error) {
	key := ""
	if s.cache != nil {
		key = s.cache.CacheKey(corpusCacheScope, "active")
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			var entries []CorpusEntry
			if unmarshalErr := json.Unmarshal([]byte(cached), &entries); unmarshalErr == nil {
				return entries, nil
			}
		} else if !errors.Is(err, redispkg.Nil) && s.logg != nil {
			s.logg.Warn(ctx, "search corpus cache read failed")
		}
	}

	entries, err := s.source.SearchCorpus(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		payload, err := json.Marshal(entries)
		if err == nil {
			if setErr := s.cache.Set(ctx, key, string(payload), s.corpusTTL); setErr != nil && s.logg != nil {
				s.logg.Warn(ctx, "search corpus cache write failed")
			}
		}
	}
	return entries, nil
}
