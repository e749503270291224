package pappers

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"go.uber.org/zap"

	"github.com/sells-group/pappers-sync/internal/model"
)

// FetchDetail fetches the full profile of the establishment identified by
// siret. A fetch or decode failure is logged and reported as (nil, nil):
// detail lookups degrade, they do not abort the UI flow. An incomplete
// payload instead surfaces as a DataIncompleteError so the workflow fails
// fast instead of creating half-empty accounts.
func (c *httpClient) FetchDetail(ctx context.Context, siret string, includeScoring bool) (*model.CompanyDetail, error) {
	params := url.Values{"siret": {model.NormalizeSiren(siret)}}
	if includeScoring {
		params.Set("champs_supplementaires", "scoring_financier")
	}

	body, err := c.get(ctx, c.entrepriseURL(params), "detail")
	if err != nil {
		zap.L().Warn("pappers: detail fetch failed",
			zap.String("siret", siret),
			zap.Error(err),
		)
		return nil, nil
	}

	var raw rawCompany
	if err := json.Unmarshal(body, &raw); err != nil {
		zap.L().Warn("pappers: malformed detail payload",
			zap.String("siret", siret),
			zap.Error(err),
		)
		return nil, nil
	}

	detail, err := raw.toDetail()
	if err != nil {
		var incomplete *model.DataIncompleteError
		if errors.As(err, &incomplete) {
			return nil, err
		}
		zap.L().Warn("pappers: detail parse failed",
			zap.String("siret", siret),
			zap.Error(err),
		)
		return nil, nil
	}

	return detail, nil
}

// FetchEstablishments lists the open establishments for a SIREN. Closed
// establishments are filtered out before returning.
func (c *httpClient) FetchEstablishments(ctx context.Context, siren string) ([]model.Establishment, error) {
	params := url.Values{"siren": {model.NormalizeSiren(siren)}}

	body, err := c.get(ctx, c.entrepriseURL(params), "establishments")
	if err != nil {
		return nil, err
	}

	var raw rawCompany
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	out := make([]model.Establishment, 0, len(raw.Establishments))
	for _, re := range raw.Establishments {
		if re.Closed {
			continue
		}
		out = append(out, re.toModel())
	}
	return out, nil
}
