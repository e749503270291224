package pappers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pappers-sync/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-token",
		WithBaseURL(srv.URL),
		WithSuggestionsURL(srv.URL+"/suggestions"),
	)
}

func TestSearchByTextMergesAndDedupes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/suggestions", r.URL.Path)
		assert.Equal(t, "Exemple", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("longueur"))
		assert.Equal(t, "nom_entreprise,siren,siret", r.URL.Query().Get("cibles"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"resultats_nom_entreprise": [
				{"nom_entreprise": "Exemple SA", "siren": "123456789", "libelle_code_naf": "Conseil", "siege": {"siret": "12345678900010", "code_postal": "75001"}},
				{"nom_entreprise": "Autre SARL", "siren": "987654321", "siege": {"siret": "98765432100014", "code_postal": "69001"}}
			],
			"resultats_siren": [
				{"nom_entreprise": "Exemple SA", "siren": "123456789", "siege": {"siret": "12345678900010"}}
			],
			"resultats_siret": [
				{"nom_entreprise": "Sans Siren", "siege": {"siret": "11122233300011"}}
			]
		}`))
	})

	candidates := client.SearchByText(context.Background(), "Exemple")
	require.Len(t, candidates, 3)

	// First occurrence wins for the duplicated SIREN.
	assert.Equal(t, "123456789", candidates[0].Siren)
	assert.Equal(t, "12345678900010", candidates[0].Siret)
	assert.Equal(t, "75001", candidates[0].PostalCode)
	assert.Equal(t, "Conseil", candidates[0].ActivityLabel)
	assert.Equal(t, "987654321", candidates[1].Siren)
	// SIREN-less entry deduped on its siège SIRET.
	assert.Equal(t, "11122233300011", candidates[2].Siret)
}

func TestSearchByTextExactMatchFirst(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"resultats_nom_entreprise": [
				{"nom_entreprise": "Nom Match", "siren": "111111111", "siege": {"siret": "11111111100011"}}
			],
			"resultats_siren": [
				{"nom_entreprise": "Siren Match", "siren": "987654321", "siege": {"siret": "98765432100014"}}
			]
		}`))
	})

	candidates := client.SearchByText(context.Background(), "987654321")
	require.Len(t, candidates, 2)
	assert.Equal(t, "Siren Match", candidates[0].Name)
}

func TestSearchByTextDegradesOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			candidates := client.SearchByText(context.Background(), "Exemple")
			assert.Empty(t, candidates)
		})
	}
}

const detailPayload = `{
	"nom_entreprise": "Exemple SA",
	"siren": "123456789",
	"siren_formate": "123 456 789",
	"forme_juridique": "SAS",
	"code_naf": "62.01Z",
	"libelle_code_naf": "Programmation informatique",
	"capital": 50000,
	"date_creation": "2010-04-01",
	"effectif": "20 à 49 salariés",
	"effectif_max": 49,
	"numero_tva_intracommunautaire": "FR00123456789",
	"numero_rcs": "123 456 789 R.C.S. Paris",
	"date_immatriculation_rcs": "2010-04-02",
	"conventions_collectives": [{"nom": "Syntec", "idcc": 1486}],
	"siege": {
		"siret": "12345678900010",
		"siret_formate": "123 456 789 00010",
		"siege": true,
		"adresse_ligne_1": "1 rue de la Paix",
		"ville": "Paris",
		"code_postal": "75002",
		"pays": "France"
	},
	"etablissements": [
		{"siret": "12345678900010", "siege": true, "ville": "Paris"},
		{"siret": "12345678900028", "siege": false, "ville": "Lyon"},
		{"siret": "12345678900036", "siege": false, "ville": "Nantes", "etablissement_cesse": true}
	],
	"finances": [
		{"annee": 2024, "chiffre_affaires": 1500000, "resultat": 120000},
		{"annee": 2023, "chiffre_affaires": 1200000}
	],
	"scoring_financier": {"note": "B", "score": 14}
}`

func TestFetchDetail(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entreprise", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("api_token"))
		gotQuery = r.URL.Query().Get("champs_supplementaires")
		w.Write([]byte(detailPayload))
	})

	detail, err := client.FetchDetail(context.Background(), "12345678900010", false)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Empty(t, gotQuery)

	assert.Equal(t, "Exemple SA", detail.Name)
	assert.Equal(t, "123 456 789", detail.FormattedSiren)
	assert.Equal(t, "SAS", detail.LegalForm)
	require.NotNil(t, detail.Capital)
	assert.InDelta(t, 50000, *detail.Capital, 0.001)
	assert.Equal(t, []string{"Syntec"}, detail.CollectiveAgreements)
	assert.True(t, detail.Headquarters.IsHeadquarters)
	assert.Equal(t, "12345678900010", detail.Headquarters.Siret)
	assert.Len(t, detail.Establishments, 3)
	assert.Len(t, detail.OpenEstablishments(), 2)

	require.Len(t, detail.Finances, 2)
	assert.Equal(t, 2024, detail.Finances[0].Year)
	require.NotNil(t, detail.Finances[0].Revenue)
	assert.InDelta(t, 1500000, *detail.Finances[0].Revenue, 0.001)
	assert.Nil(t, detail.Finances[1].NetResult)

	require.NotNil(t, detail.Scoring)
	assert.Equal(t, "B", detail.Scoring.Note)
	assert.InDelta(t, 14, detail.Scoring.Score, 0.001)
}

func TestFetchDetailWithScoring(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "scoring_financier", r.URL.Query().Get("champs_supplementaires"))
		w.Write([]byte(detailPayload))
	})

	detail, err := client.FetchDetail(context.Background(), "12345678900010", true)
	require.NoError(t, err)
	require.NotNil(t, detail)
}

func TestFetchDetailSoftFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	detail, err := client.FetchDetail(context.Background(), "12345678900010", false)
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestFetchDetailIncompletePayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nom_entreprise": "Sans Siege", "siren": "123456789"}`))
	})

	detail, err := client.FetchDetail(context.Background(), "12345678900010", false)
	require.Error(t, err)
	assert.Nil(t, detail)

	var incomplete *model.DataIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "siege.siret", incomplete.Field)
}

func TestFetchEstablishmentsFiltersClosed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "123456789", r.URL.Query().Get("siren"))
		w.Write([]byte(detailPayload))
	})

	establishments, err := client.FetchEstablishments(context.Background(), "123 456 789")
	require.NoError(t, err)
	require.Len(t, establishments, 2)
	assert.Equal(t, "12345678900010", establishments[0].Siret)
	assert.Equal(t, "12345678900028", establishments[1].Siret)
}

func TestFetchCartography(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entreprise/cartographie", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "123456789", q.Get("siren"))
		assert.Equal(t, "true", q.Get("inclure_entreprises_dirigees"))
		assert.Equal(t, "true", q.Get("inclure_entreprises_citees"))

		w.Write([]byte(`{
			"centralNode": {"id": "n0", "name": "Exemple SA", "siren": "123456789"},
			"entreprises": [
				{"id": "n1", "name": "Filiale SARL"},
				{"id": "n2", "name": "Holding SC"}
			],
			"liens_entreprises_entreprises": [["n0", "n1"], ["n2", "n0"], ["n0", "n9"]]
		}`))
	})

	snap, err := client.FetchCartography(context.Background(), "123 456 789")
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, "n0", snap.CentralNode.ID)
	assert.Len(t, snap.Nodes, 2)
	assert.Len(t, snap.Edges, 3)
	assert.Len(t, snap.ValidEdges(), 2)
}

func TestFetchCartographyPropagatesFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	snap, err := client.FetchCartography(context.Background(), "123456789")
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.Contains(t, err.Error(), "status 401")
}
