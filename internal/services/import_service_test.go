package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pennywise/internal/classifier"
	apperrors "pennywise/internal/errors"
	"pennywise/internal/testutil"
)

// echoBackend labels every merchant "dining" unless told to fail.
type echoBackend struct {
	err error
}

func (e *echoBackend) ClassifyBatch(_ context.Context, merchants []string, _ []string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	labels := make([]string, len(merchants))
	for i := range labels {
		labels[i] = "dining"
	}
	out, _ := json.Marshal(labels)
	return string(out), nil
}

const creditStatement = `Statement Date: 12/05/2024
Account Number: XXXX XXXX XXXX 4321

11/15 AMAZON.COM PURCHASE 45.67
11/20 PAYMENT THANK YOU 200.00
12/01 STARBUCKS CARD 9876 6.50
`

func setupImport(t *testing.T, backend classifier.TextClassifier) (ImportServicer, LedgerServicer, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	ledger := NewLedgerService(db)
	cls := classifier.NewService(db, backend, 50)
	return NewImportService(ledger, cls), ledger, func() { testutil.TeardownTestDB(t, db) }
}

func TestImportStatement(t *testing.T) {
	t.Run("full_pipeline", func(t *testing.T) {
		svc, ledger, teardown := setupImport(t, &echoBackend{})
		defer teardown()

		outcome, err := svc.ImportStatement(context.Background(), ImportRequest{
			Text:       creditStatement,
			Dialect:    "credit",
			Bank:       strptr("chase"),
			CardType:   strptr("credit"),
			SourceFile: strptr("chase_dec.txt"),
		})
		testutil.AssertNoError(t, err)

		if outcome.ParsedCount != 3 || outcome.SavedCount != 3 {
			t.Errorf("parsed=%d saved=%d, want 3/3", outcome.ParsedCount, outcome.SavedCount)
		}
		if outcome.AccountLast4 == nil || *outcome.AccountLast4 != "4321" {
			t.Errorf("account last4 = %v, want 4321", outcome.AccountLast4)
		}

		rows, err := ledger.Load()
		testutil.AssertNoError(t, err)
		if len(rows) != 3 {
			t.Fatalf("ledger holds %d rows, want 3", len(rows))
		}
		for _, row := range rows {
			if row.Category != "dining" {
				t.Errorf("row %q category = %q, want dining", row.Description, row.Category)
			}
			if row.Bank == nil || *row.Bank != "chase" {
				t.Errorf("row %q missing bank stamp", row.Description)
			}
		}
	})

	t.Run("descriptions_sanitized_before_save", func(t *testing.T) {
		svc, ledger, teardown := setupImport(t, &echoBackend{})
		defer teardown()

		_, err := svc.ImportStatement(context.Background(), ImportRequest{
			Text:    creditStatement,
			Dialect: "credit",
		})
		testutil.AssertNoError(t, err)

		rows, err := ledger.Load()
		testutil.AssertNoError(t, err)

		var found bool
		for _, row := range rows {
			if row.Description == "STARBUCKS [CARD]" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected sanitized STARBUCKS row, got %+v", rows)
		}
	})

	t.Run("classifier_failure_defaults_not_blocks", func(t *testing.T) {
		svc, ledger, teardown := setupImport(t, &echoBackend{err: errors.New("quota exceeded")})
		defer teardown()

		outcome, err := svc.ImportStatement(context.Background(), ImportRequest{
			Text:    creditStatement,
			Dialect: "credit",
		})
		testutil.AssertNoError(t, err)
		if outcome.SavedCount != 3 {
			t.Errorf("saved=%d, want 3", outcome.SavedCount)
		}

		rows, err := ledger.Load()
		testutil.AssertNoError(t, err)
		for _, row := range rows {
			if row.Category != "other" {
				t.Errorf("row %q category = %q, want other", row.Description, row.Category)
			}
		}
	})

	t.Run("reimport_same_file_short_circuits", func(t *testing.T) {
		svc, _, teardown := setupImport(t, &echoBackend{})
		defer teardown()

		req := ImportRequest{Text: creditStatement, Dialect: "credit", SourceFile: strptr("stmt.txt")}

		_, err := svc.ImportStatement(context.Background(), req)
		testutil.AssertNoError(t, err)

		outcome, err := svc.ImportStatement(context.Background(), req)
		testutil.AssertNoError(t, err)
		if !outcome.AlreadyImported {
			t.Error("second import should report already_imported")
		}
		if outcome.SavedCount != 0 || outcome.ParsedCount != 0 {
			t.Errorf("short-circuit should skip parsing, got %+v", outcome)
		}
	})

	t.Run("unknown_dialect_rejected", func(t *testing.T) {
		svc, _, teardown := setupImport(t, &echoBackend{})
		defer teardown()

		_, err := svc.ImportStatement(context.Background(), ImportRequest{
			Text:    creditStatement,
			Dialect: "savings",
		})
		testutil.AssertAppError(t, err, apperrors.ErrUnknownDialect.Code)
	})

	t.Run("sectioned_text_ignores_dialect", func(t *testing.T) {
		svc, _, teardown := setupImport(t, &echoBackend{})
		defer teardown()

		text := `June 1, 2024 through June 30, 2024

*start*transactiondetail
06/03 COFFEE SHOP -4.50 995.50
*end*transactiondetail
`
		outcome, err := svc.ImportStatement(context.Background(), ImportRequest{
			Text:    text,
			Dialect: "whatever",
		})
		testutil.AssertNoError(t, err)
		if outcome.SavedCount != 1 {
			t.Errorf("saved=%d, want 1", outcome.SavedCount)
		}
	})

	t.Run("empty_text_rejected", func(t *testing.T) {
		svc, _, teardown := setupImport(t, &echoBackend{})
		defer teardown()

		_, err := svc.ImportStatement(context.Background(), ImportRequest{Text: "  \n ", Dialect: "credit"})
		testutil.AssertAppError(t, err, apperrors.ErrEmptyStatement.Code)
	})

	t.Run("unparseable_text_rejected", func(t *testing.T) {
		svc, _, teardown := setupImport(t, &echoBackend{})
		defer teardown()

		_, err := svc.ImportStatement(context.Background(), ImportRequest{
			Text:    "this statement has no transaction lines at all",
			Dialect: "credit",
		})
		testutil.AssertAppError(t, err, apperrors.ErrEmptyStatement.Code)
	})
}
