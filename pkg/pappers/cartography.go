package pappers

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pappers-sync/internal/model"
)

// FetchCartography fetches the ownership/directorship graph for a SIREN,
// including directed and cited companies. Failures propagate: the create
// workflow treats a missing cartography as fatal to that step.
func (c *httpClient) FetchCartography(ctx context.Context, siren string) (*model.CartographySnapshot, error) {
	params := url.Values{
		"siren":                        {model.NormalizeSiren(siren)},
		"inclure_entreprises_dirigees": {"true"},
		"inclure_entreprises_citees":   {"true"},
		"api_token":                    {c.apiToken},
	}

	body, err := c.get(ctx, c.baseURL+"/entreprise/cartographie?"+params.Encode(), "cartography")
	if err != nil {
		return nil, err
	}

	var raw rawCartography
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, eris.Wrap(err, "pappers: parse cartography")
	}

	return raw.toSnapshot(), nil
}
