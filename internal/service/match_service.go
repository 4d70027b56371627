package service

import (
	"context"
	"sort"
	"strings"

	"github.com/ahmetclq/web-final-projesi/internal/model"
	"github.com/ahmetclq/web-final-projesi/internal/repository"
)

const defaultMatchLimit = 10

type MatchService interface {
	FindMatches(ctx context.Context, subject *model.Item, limit int) ([]model.Item, error)
	RecommendedForUser(ctx context.Context, uid string) ([]model.Item, error)
}

type matchService struct {
	itemRepo repository.ItemRepository
}

func NewMatchService(itemRepo repository.ItemRepository) MatchService {
	return &matchService{itemRepo: itemRepo}
}

// FindMatches scans all active items and returns those compatible with the
// subject, newest first, at most limit entries. The subject owner's own
// listings are never returned.
func (s *matchService) FindMatches(ctx context.Context, subject *model.Item, limit int) ([]model.Item, error) {
	if limit <= 0 {
		limit = defaultMatchLimit
	}
	candidates, err := s.itemRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]model.Item, 0, limit)
	for i := range candidates {
		candidate := &candidates[i]
		if candidate.OwnerUID == subject.OwnerUID {
			continue
		}
		if !isMatch(subject, candidate) {
			continue
		}
		matches = append(matches, *candidate)
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

// RecommendedForUser runs the matcher once per active listing the user owns
// and merges the results, de-duplicated by item id and ordered newest first.
func (s *matchService) RecommendedForUser(ctx context.Context, uid string) ([]model.Item, error) {
	own, err := s.itemRepo.ListActiveByOwner(ctx, uid)
	if err != nil {
		return nil, err
	}

	merged := make([]model.Item, 0)
	seen := make(map[uint64]struct{})
	for i := range own {
		matches, err := s.FindMatches(ctx, &own[i], 20)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
			merged = append(merged, m)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged, nil
}

// isMatch checks the three compatibility rules. The wanted-name rule is a
// plain substring test, a deliberately weak heuristic kept for compatibility
// with existing listings; short common words over-match.
func isMatch(subject, candidate *model.Item) bool {
	// Rule 1: one side's wanted item appears in the other side's title.
	// A single direction is enough.
	subjectWants := containsIgnoreCase(candidate.Title, subject.WantedName)
	candidateWants := containsIgnoreCase(subject.Title, candidate.WantedName)
	if !subjectWants && !candidateWants {
		return false
	}

	// Rule 2: closed-interval overlap of the estimated value ranges.
	if subject.MinValue > candidate.MaxValue || subject.MaxValue < candidate.MinValue {
		return false
	}

	// Rule 3: same city, exact match.
	return subject.City == candidate.City
}

func containsIgnoreCase(source, value string) bool {
	if source == "" || value == "" {
		return false
	}
	return strings.Contains(strings.ToLower(source), strings.ToLower(value))
}
