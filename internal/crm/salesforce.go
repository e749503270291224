package crm

import (
	"context"
	"fmt"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/pappers-sync/internal/model"
	"github.com/sells-group/pappers-sync/pkg/salesforce"
)

// siretChunkSize bounds the IN clause of one existence query.
const siretChunkSize = 100

// existenceConcurrency bounds parallel existence queries per call.
const existenceConcurrency = 4

// SalesforceStore implements AccountDataStore against a Salesforce org.
type SalesforceStore struct {
	client salesforce.Client
}

// NewSalesforceStore wraps a Salesforce client as an AccountDataStore.
func NewSalesforceStore(client salesforce.Client) *SalesforceStore {
	return &SalesforceStore{client: client}
}

var _ AccountDataStore = (*SalesforceStore)(nil)

func (s *SalesforceStore) ExistingAccount(ctx context.Context, name, siren string) (Existing, error) {
	acct, err := salesforce.FindAccountByNameOrSiren(ctx, s.client, name, model.NormalizeSiren(siren))
	if err != nil {
		return Existing{}, eris.Wrap(err, "crm: existing account lookup")
	}
	if acct == nil {
		return Existing{}, nil
	}
	return Existing{Exists: true, AccountID: acct.ID, AccountName: acct.Name}, nil
}

func (s *SalesforceStore) AccountsExistBySiret(ctx context.Context, sirets []string) (map[string]bool, error) {
	normalized := make([]string, 0, len(sirets))
	for _, siret := range sirets {
		if n := model.NormalizeSiren(siret); n != "" {
			normalized = append(normalized, n)
		}
	}

	exists := make(map[string]bool, len(normalized))
	for _, siret := range normalized {
		exists[siret] = false
	}
	if len(normalized) == 0 {
		return exists, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(existenceConcurrency)

	for start := 0; start < len(normalized); start += siretChunkSize {
		end := min(start+siretChunkSize, len(normalized))
		chunk := normalized[start:end]

		g.Go(func() error {
			accounts, err := salesforce.FindAccountsBySiret(gctx, s.client, chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, acct := range accounts {
				exists[acct.Siret] = true
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "crm: siret existence check")
	}
	return exists, nil
}

func (s *SalesforceStore) ParentAccountBySiret(ctx context.Context, siret string) (string, error) {
	acct, err := salesforce.FindAccountBySiret(ctx, s.client, model.NormalizeSiren(siret))
	if err != nil {
		return "", eris.Wrap(err, "crm: parent account lookup")
	}
	if acct == nil {
		return "", nil
	}
	return acct.ID, nil
}

func (s *SalesforceStore) CreateAccount(ctx context.Context, acc AccountFields, history []model.FinancialYear, extra AdditionalFields) (string, error) {
	id, err := s.client.InsertOne(ctx, "Account", accountRecord(acc, extra))
	if err != nil {
		return "", &model.PersistenceError{Op: "create account", Err: err}
	}

	zap.L().Info("crm: account created",
		zap.String("account_id", id),
		zap.String("siret", acc.Siret),
		zap.Bool("headquarters", acc.IsHeadquarters),
	)

	if err := s.insertHistory(ctx, id, history); err != nil {
		// No rollback: the account stands, the caller decides what to
		// surface.
		return id, err
	}
	return id, nil
}

func (s *SalesforceStore) UpdateFinancialHistory(ctx context.Context, accountID string, history []model.FinancialYear) error {
	ids, err := salesforce.FinancialStatementIDs(ctx, s.client, accountID)
	if err != nil {
		return &model.PersistenceError{Op: "list financial statements", Err: err}
	}

	if len(ids) > 0 {
		results, err := s.client.DeleteCollection(ctx, "FinancialStatement__c", ids)
		if err != nil {
			return &model.PersistenceError{Op: "delete financial statements", Err: err}
		}
		if err := collectionErr("delete financial statements", results); err != nil {
			return err
		}
	}

	return s.insertHistory(ctx, accountID, history)
}

func (s *SalesforceStore) AttachCartography(ctx context.Context, accountID string, snap *model.CartographySnapshot) error {
	nodes := make([]map[string]any, 0, len(snap.Nodes)+1)
	nodes = append(nodes, nodeRecord(accountID, snap.CentralNode, true))
	for _, n := range snap.Nodes {
		nodes = append(nodes, nodeRecord(accountID, n, false))
	}

	results, err := s.client.InsertCollection(ctx, "Cartographie__c", nodes)
	if err != nil {
		return &model.PersistenceError{Op: "attach cartography nodes", Err: err}
	}
	if err := collectionErr("attach cartography nodes", results); err != nil {
		return err
	}

	edges := snap.ValidEdges()
	if len(edges) == 0 {
		return nil
	}
	records := make([]map[string]any, len(edges))
	for i, e := range edges {
		records[i] = edgeRecord(accountID, e)
	}

	results, err = s.client.InsertCollection(ctx, "CartographyLink__c", records)
	if err != nil {
		return &model.PersistenceError{Op: "attach cartography links", Err: err}
	}
	return collectionErr("attach cartography links", results)
}

func (s *SalesforceStore) insertHistory(ctx context.Context, accountID string, history []model.FinancialYear) error {
	if len(history) == 0 {
		return nil
	}

	records := make([]map[string]any, len(history))
	for i, fy := range history {
		records[i] = statementRecord(accountID, fy)
	}

	results, err := s.client.InsertCollection(ctx, "FinancialStatement__c", records)
	if err != nil {
		return &model.PersistenceError{Op: "insert financial statements", Err: err}
	}
	return collectionErr("insert financial statements", results)
}

// collectionErr folds per-record collection failures into one PersistenceError.
func collectionErr(op string, results []salesforce.CollectionResult) error {
	var failed int
	for _, r := range results {
		if !r.Success {
			failed++
			zap.L().Warn("crm: record rejected",
				zap.String("op", op),
				zap.Strings("errors", r.Errors),
			)
		}
	}
	if failed == 0 {
		return nil
	}
	return &model.PersistenceError{
		Op:  op,
		Err: eris.New(fmt.Sprintf("%d of %d records rejected", failed, len(results))),
	}
}
