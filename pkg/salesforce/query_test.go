package salesforce

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient implements Client for testing.
type mockClient struct {
	queryFn            func(ctx context.Context, soql string, out any) error
	insertOneFn        func(ctx context.Context, sObjectName string, record map[string]any) (string, error)
	insertCollectionFn func(ctx context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error)
	updateOneFn        func(ctx context.Context, sObjectName string, id string, fields map[string]any) error
	deleteCollectionFn func(ctx context.Context, sObjectName string, ids []string) ([]CollectionResult, error)
}

func (m *mockClient) Query(ctx context.Context, soql string, out any) error {
	if m.queryFn != nil {
		return m.queryFn(ctx, soql, out)
	}
	return nil
}

func (m *mockClient) InsertOne(ctx context.Context, sObjectName string, record map[string]any) (string, error) {
	if m.insertOneFn != nil {
		return m.insertOneFn(ctx, sObjectName, record)
	}
	return "001000000000001", nil
}

func (m *mockClient) InsertCollection(ctx context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error) {
	if m.insertCollectionFn != nil {
		return m.insertCollectionFn(ctx, sObjectName, records)
	}
	results := make([]CollectionResult, len(records))
	for i := range records {
		results[i] = CollectionResult{ID: "001" + string(rune('A'+i)), Success: true}
	}
	return results, nil
}

func (m *mockClient) UpdateOne(ctx context.Context, sObjectName string, id string, fields map[string]any) error {
	if m.updateOneFn != nil {
		return m.updateOneFn(ctx, sObjectName, id, fields)
	}
	return nil
}

func (m *mockClient) DeleteCollection(ctx context.Context, sObjectName string, ids []string) ([]CollectionResult, error) {
	if m.deleteCollectionFn != nil {
		return m.deleteCollectionFn(ctx, sObjectName, ids)
	}
	results := make([]CollectionResult, len(ids))
	for i, id := range ids {
		results[i] = CollectionResult{ID: id, Success: true}
	}
	return results, nil
}

func TestFindAccountBySiret(t *testing.T) {
	t.Run("returns account when found", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, soql string, out any) error {
				assert.Contains(t, soql, "SIRET__c = '12345678900010'")
				assert.Contains(t, soql, "LIMIT 1")

				accounts := out.(*[]Account)
				*accounts = []Account{
					{ID: "001xx", Name: "Exemple SA", Siret: "12345678900010"},
				}
				return nil
			},
		}

		acct, err := FindAccountBySiret(context.Background(), mock, "12345678900010")
		require.NoError(t, err)
		require.NotNil(t, acct)
		assert.Equal(t, "001xx", acct.ID)
		assert.Equal(t, "Exemple SA", acct.Name)
	})

	t.Run("returns nil when not found", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, _ string, out any) error {
				accounts := out.(*[]Account)
				*accounts = []Account{}
				return nil
			},
		}

		acct, err := FindAccountBySiret(context.Background(), mock, "00000000000000")
		require.NoError(t, err)
		assert.Nil(t, acct)
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, _ string, _ any) error {
				return errors.New("connection refused")
			},
		}

		acct, err := FindAccountBySiret(context.Background(), mock, "12345678900010")
		assert.Error(t, err)
		assert.Nil(t, acct)
		assert.Contains(t, err.Error(), "find account by siret")
	})
}

func TestFindAccountsBySiret(t *testing.T) {
	t.Run("builds IN clause", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, soql string, out any) error {
				assert.Contains(t, soql, "SIRET__c IN ('12345678900010', '12345678900028')")

				accounts := out.(*[]Account)
				*accounts = []Account{{ID: "001xx", Siret: "12345678900010"}}
				return nil
			},
		}

		accounts, err := FindAccountsBySiret(context.Background(), mock, []string{"12345678900010", "12345678900028"})
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "12345678900010", accounts[0].Siret)
	})

	t.Run("empty input issues no query", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, _ string, _ any) error {
				t.Fatal("query should not be called")
				return nil
			},
		}

		accounts, err := FindAccountsBySiret(context.Background(), mock, nil)
		require.NoError(t, err)
		assert.Empty(t, accounts)
	})
}

func TestFindAccountByNameOrSiren(t *testing.T) {
	t.Run("matches on either key", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, soql string, out any) error {
				assert.Contains(t, soql, "SIREN__c = '123456789'")
				assert.Contains(t, soql, "Name = 'Exemple SA'")

				accounts := out.(*[]Account)
				*accounts = []Account{{ID: "001xx", Name: "Exemple SA", Siren: "123456789"}}
				return nil
			},
		}

		acct, err := FindAccountByNameOrSiren(context.Background(), mock, "Exemple SA", "123456789")
		require.NoError(t, err)
		require.NotNil(t, acct)
		assert.Equal(t, "001xx", acct.ID)
	})

	t.Run("escapes quoted names", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, soql string, out any) error {
				assert.Contains(t, soql, `Name = 'L\'Atelier'`)
				accounts := out.(*[]Account)
				*accounts = []Account{}
				return nil
			},
		}

		acct, err := FindAccountByNameOrSiren(context.Background(), mock, "L'Atelier", "111111111")
		require.NoError(t, err)
		assert.Nil(t, acct)
	})
}

func TestFinancialStatementIDs(t *testing.T) {
	mock := &mockClient{
		queryFn: func(_ context.Context, soql string, out any) error {
			assert.Contains(t, soql, "FROM FinancialStatement__c")
			assert.Contains(t, soql, "Account__c = '001xx'")

			rows := out.(*[]struct {
				ID string `json:"Id" salesforce:"Id"`
			})
			*rows = []struct {
				ID string `json:"Id" salesforce:"Id"`
			}{{ID: "a01A"}, {ID: "a01B"}}
			return nil
		},
	}

	ids, err := FinancialStatementIDs(context.Background(), mock, "001xx")
	require.NoError(t, err)
	assert.Equal(t, []string{"a01A", "a01B"}, ids)
}

func TestEscapeSoql(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"12345678900010", "12345678900010"},
		{"O'Reilly", "O\\'Reilly"},
		{"it's a test's case", "it\\'s a test\\'s case"},
		{"no-quotes", "no-quotes"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, escapeSoql(tt.input))
		})
	}
}

func TestSOQLContainsAllAccountFields(t *testing.T) {
	mock := &mockClient{
		queryFn: func(_ context.Context, soql string, out any) error {
			for _, field := range accountFields {
				assert.Contains(t, soql, field, "SOQL should contain field: %s", field)
			}
			accounts := out.(*[]Account)
			*accounts = []Account{}
			return nil
		},
	}

	_, _ = FindAccountBySiret(context.Background(), mock, "12345678900010")
}
