package pappers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/pappers-sync/internal/model"
)

// SearchByText queries the suggestions endpoint and merges the name, SIREN
// and SIRET result sets into a deduplicated candidate list. Exact SIREN or
// SIRET matches sort first. Any failure degrades to an empty list; search
// must never abort the caller's flow.
func (c *httpClient) SearchByText(ctx context.Context, query string) []model.CompanyCandidate {
	params := url.Values{
		"q":        {query},
		"longueur": {fmt.Sprint(c.suggestionLen)},
		"cibles":   {"nom_entreprise,siren,siret"},
	}

	body, err := c.get(ctx, c.suggestionsURL+"?"+params.Encode(), "suggestions")
	if err != nil {
		zap.L().Warn("pappers: suggestion search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}

	var raw rawSuggestions
	if err := json.Unmarshal(body, &raw); err != nil {
		zap.L().Warn("pappers: malformed suggestion payload",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}

	merged := make([]rawCompany, 0, len(raw.ByName)+len(raw.BySiren)+len(raw.BySiret))
	merged = append(merged, raw.ByName...)
	merged = append(merged, raw.BySiren...)
	merged = append(merged, raw.BySiret...)

	candidates := dedupe(merged)

	// Exact identifier matches rank above name matches.
	sort.SliceStable(candidates, func(i, j int) bool {
		return exactMatch(candidates[i], query) && !exactMatch(candidates[j], query)
	})

	return candidates
}

// dedupe keeps the first occurrence per SIREN (falling back to the siège
// SIRET) and drops entries with neither key.
func dedupe(companies []rawCompany) []model.CompanyCandidate {
	seen := make(map[string]struct{}, len(companies))
	out := make([]model.CompanyCandidate, 0, len(companies))

	for _, rc := range companies {
		cand := rc.toCandidate()
		key := cand.DedupeKey()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cand)
	}

	return out
}

func exactMatch(c model.CompanyCandidate, query string) bool {
	q := model.NormalizeSiren(query)
	return q != "" && (c.Siren == q || c.Siret == q)
}
