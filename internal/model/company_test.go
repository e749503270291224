package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeKey(t *testing.T) {
	withSiren := CompanyCandidate{Siren: "123456789", Siret: "12345678900010"}
	assert.Equal(t, "123456789", withSiren.DedupeKey())

	siretOnly := CompanyCandidate{Siret: "12345678900010"}
	assert.Equal(t, "12345678900010", siretOnly.DedupeKey())
}

func TestCandidateLabel(t *testing.T) {
	c := CompanyCandidate{Name: "Exemple SA", PostalCode: "75001", ActivityLabel: "Conseil"}
	assert.Equal(t, "Exemple SA (75001) Conseil", c.Label())

	bare := CompanyCandidate{Name: "Exemple SA"}
	assert.Equal(t, "Exemple SA", bare.Label())
}

func TestEstablishmentAddress(t *testing.T) {
	e := Establishment{
		AddressLine1: "1 rue de la Paix",
		City:         "Paris",
		PostalCode:   "75002",
		Country:      "France",
	}
	assert.Equal(t, "1 rue de la Paix, Paris, 75002, France", e.Address())

	partial := Establishment{City: "Lyon", Country: "France"}
	assert.Equal(t, "Lyon, France", partial.Address())
}

func TestOpenEstablishments(t *testing.T) {
	d := CompanyDetail{Establishments: []Establishment{
		{Siret: "12345678900010"},
		{Siret: "12345678900028", Closed: true},
		{Siret: "12345678900036"},
	}}
	open := d.OpenEstablishments()
	assert.Len(t, open, 2)
	assert.Equal(t, "12345678900010", open[0].Siret)
	assert.Equal(t, "12345678900036", open[1].Siret)
}

func TestSirenSiretHelpers(t *testing.T) {
	assert.Equal(t, "123456789", NormalizeSiren("123 456 789"))
	assert.Equal(t, "123456789", SirenFromSiret("12345678900010"))
	assert.Equal(t, "123456789", SirenFromSiret("123 456 789 00010"))
	assert.Equal(t, "12345", SirenFromSiret("12345"))

	assert.True(t, ValidSiren("123456789"))
	assert.True(t, ValidSiren("123 456 789"))
	assert.False(t, ValidSiren("12345678"))
	assert.False(t, ValidSiren("12345678a"))

	assert.True(t, ValidSiret("12345678900010"))
	assert.False(t, ValidSiret("123456789"))
}

func TestValidEdges(t *testing.T) {
	s := CartographySnapshot{
		CentralNode: CartographyEntity{ID: "c"},
		Nodes: []CartographyEntity{
			{ID: "a"}, {ID: "b"},
		},
		Edges: []CartographyEdge{
			{SourceID: "c", TargetID: "a"},
			{SourceID: "a", TargetID: "b"},
			{SourceID: "c", TargetID: "ghost"},
			{SourceID: "ghost", TargetID: "a"},
		},
	}
	edges := s.ValidEdges()
	assert.Len(t, edges, 2)
	assert.Equal(t, CartographyEdge{SourceID: "c", TargetID: "a"}, edges[0])
	assert.Equal(t, CartographyEdge{SourceID: "a", TargetID: "b"}, edges[1])
}
