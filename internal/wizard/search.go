package wizard

import (
	"context"
	"strings"
	"unicode/utf8"

	"anpl-sports-backend/internal/eligibility"
)

// MinSearchLength is the shortest query sent to the partner directory.
const MinSearchLength = 3

// SearchPartners looks up candidate partners. Each call supersedes the
// previous one: the older request is cancelled and, should it still return,
// its results are discarded with ErrStaleSearch. Queries shorter than
// MinSearchLength clear the results without a network call. Safe for
// concurrent use.
func (w *Wizard) SearchPartners(ctx context.Context, query string) ([]eligibility.Profile, error) {
	q := strings.TrimSpace(query)

	w.searchMu.Lock()
	w.searchSeq++
	seq := w.searchSeq
	if w.searchCancel != nil {
		w.searchCancel()
		w.searchCancel = nil
	}
	if utf8.RuneCountInString(q) < MinSearchLength {
		w.results = nil
		w.searchMu.Unlock()
		return nil, nil
	}
	sctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w.searchCancel = cancel
	w.searchMu.Unlock()

	found, err := w.ports.Directory.Search(sctx, q)

	w.searchMu.Lock()
	defer w.searchMu.Unlock()
	if seq != w.searchSeq {
		return nil, ErrStaleSearch
	}
	w.searchCancel = nil
	if err != nil {
		w.log.WithError(err).Warn("partner search failed")
		return nil, networkErr(KindNetwork, err, "Failed to search players")
	}

	self := w.session.Profile.ID
	results := make([]eligibility.Profile, 0, len(found))
	for _, p := range found {
		if self != "" && p.ID == self {
			continue
		}
		results = append(results, p)
	}
	w.results = results
	return append([]eligibility.Profile(nil), results...), nil
}

// SearchResults returns the results of the newest completed search.
func (w *Wizard) SearchResults() []eligibility.Profile {
	w.searchMu.Lock()
	defer w.searchMu.Unlock()
	return append([]eligibility.Profile(nil), w.results...)
}
