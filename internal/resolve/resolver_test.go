package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pappers-sync/internal/crm"
	"github.com/sells-group/pappers-sync/internal/model"
)

// fakeStore implements crm.AccountDataStore for resolver tests.
type fakeStore struct {
	existing    crm.Existing
	existingErr error

	exists    map[string]bool
	existsErr error

	parentID  string
	parentErr error
}

func (f *fakeStore) ExistingAccount(_ context.Context, _, _ string) (crm.Existing, error) {
	return f.existing, f.existingErr
}

func (f *fakeStore) AccountsExistBySiret(_ context.Context, _ []string) (map[string]bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeStore) ParentAccountBySiret(_ context.Context, _ string) (string, error) {
	return f.parentID, f.parentErr
}

func (f *fakeStore) CreateAccount(_ context.Context, _ crm.AccountFields, _ []model.FinancialYear, _ crm.AdditionalFields) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeStore) UpdateFinancialHistory(_ context.Context, _ string, _ []model.FinancialYear) error {
	return errors.New("not implemented")
}

func (f *fakeStore) AttachCartography(_ context.Context, _ string, _ *model.CartographySnapshot) error {
	return errors.New("not implemented")
}

func TestFindExistingAccount(t *testing.T) {
	r := New(&fakeStore{existing: crm.Existing{Exists: true, AccountID: "001xx", AccountName: "Exemple SA"}})

	existing, err := r.FindExistingAccount(context.Background(), "Exemple SA", "123456789")
	require.NoError(t, err)
	assert.True(t, existing.Exists)
	assert.Equal(t, "001xx", existing.AccountID)
}

func TestMatchCandidate(t *testing.T) {
	tests := []struct {
		name      string
		store     *fakeStore
		candidate string
		siren     string
		want      bool
	}{
		{
			name:      "siren hit is authoritative",
			store:     &fakeStore{existing: crm.Existing{Exists: true, AccountID: "001xx", AccountName: "Autre Nom"}},
			candidate: "Exemple SA",
			siren:     "123456789",
			want:      true,
		},
		{
			name:      "name-only hit needs folded equality",
			store:     &fakeStore{existing: crm.Existing{Exists: true, AccountID: "001xx", AccountName: "Société Générale d'Exemple"}},
			candidate: "SOCIETE GENERALE D EXEMPLE",
			siren:     "",
			want:      true,
		},
		{
			name:      "name-only mismatch rejected",
			store:     &fakeStore{existing: crm.Existing{Exists: true, AccountID: "001xx", AccountName: "Autre Compagnie"}},
			candidate: "Exemple SA",
			siren:     "",
			want:      false,
		},
		{
			name:      "no hit",
			store:     &fakeStore{},
			candidate: "Exemple SA",
			siren:     "123456789",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing, err := New(tt.store).MatchCandidate(context.Background(), tt.candidate, tt.siren)
			require.NoError(t, err)
			assert.Equal(t, tt.want, existing.Exists)
		})
	}
}

func TestResolveParentForSecondary(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		r := New(&fakeStore{parentID: "001hq"})
		id, err := r.ResolveParentForSecondary(context.Background(), "12345678900010")
		require.NoError(t, err)
		assert.Equal(t, "001hq", id)
	})

	t.Run("missing parent is a not-found error", func(t *testing.T) {
		r := New(&fakeStore{})
		_, err := r.ResolveParentForSecondary(context.Background(), "12345678900010")
		require.Error(t, err)

		var nf *model.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "12345678900010", nf.Key)
	})
}

func TestAnnotateCandidates(t *testing.T) {
	t.Run("marks existing", func(t *testing.T) {
		r := New(&fakeStore{exists: map[string]bool{"12345678900010": true}})
		in := []model.CompanyCandidate{
			{Name: "Exemple SA", Siren: "123456789", Siret: "12345678900010"},
			{Name: "Autre SARL", Siren: "987654321", Siret: "98765432100014"},
		}

		out := r.AnnotateCandidates(context.Background(), in)
		require.Len(t, out, 2)
		assert.True(t, out[0].ExistsInCRM)
		assert.False(t, out[1].ExistsInCRM)
	})

	t.Run("degrades on store failure", func(t *testing.T) {
		r := New(&fakeStore{existsErr: errors.New("timeout")})
		in := []model.CompanyCandidate{{Name: "Exemple SA", Siret: "12345678900010"}}

		out := r.AnnotateCandidates(context.Background(), in)
		require.Len(t, out, 1)
		assert.False(t, out[0].ExistsInCRM)
	})
}

func TestAnnotateEstablishments(t *testing.T) {
	r := New(&fakeStore{exists: map[string]bool{"12345678900028": true}})
	in := []model.Establishment{
		{Siret: "12345678900010", IsHeadquarters: true},
		{Siret: "12345678900028"},
	}

	out := r.AnnotateEstablishments(context.Background(), in)
	require.Len(t, out, 2)
	assert.False(t, out[0].ExistsInCRM)
	assert.True(t, out[1].ExistsInCRM)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Société Générale", "societe generale"},
		{"L'Atelier du Café", "l atelier du cafe"},
		{"  EXEMPLE   SA  ", "exemple sa"},
		{"Boulangerie-Pâtisserie N°1", "boulangerie patisserie n 1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestSameCompanyName(t *testing.T) {
	assert.True(t, SameCompanyName("Société Générale", "SOCIETE GENERALE"))
	assert.True(t, SameCompanyName("Crédit Lyonnais d'Exemple", "credit lyonnais d exemple"))
	assert.False(t, SameCompanyName("Exemple SA", "Autre SA"))
	assert.False(t, SameCompanyName("", ""))
}
