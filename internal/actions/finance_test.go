package actions

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjun/majordomo/internal/store"
)

func testRegistry(t *testing.T, build func(st *store.Store) []Action) (*Registry, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewRegistry(build(st)...), st
}

func TestFinanceLoanLifecycle(t *testing.T) {
	r, _ := testRegistry(t, Finance)
	ctx := context.Background()

	res := r.Invoke(ctx, "add_loan", `{"person":"Priya","amount":500,"direction":"they_owe","note":"lunch money"}`)
	require.True(t, res.Success, res.Error)
	assert.Contains(t, res.Message, "Priya owes you")
	loanID, _ := res.Data["loan_id"].(string)
	require.NotEmpty(t, loanID)

	res = r.Invoke(ctx, "list_loans", `{"direction":"they_owe"}`)
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "Priya")
	assert.Contains(t, res.Message, "lunch money")

	res = r.Invoke(ctx, "update_loan", `{"loan_id":"`+loanID+`","new_amount":250}`)
	require.True(t, res.Success)

	res = r.Invoke(ctx, "get_loan_summary", `{}`)
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "owe you 250.00")

	res = r.Invoke(ctx, "settle_loan", `{"loan_id":"`+loanID+`"}`)
	require.True(t, res.Success)

	res = r.Invoke(ctx, "list_loans", `{}`)
	require.True(t, res.Success)
	assert.Equal(t, "No outstanding loans.", res.Message)
}

func TestFinanceRejectsBadDirection(t *testing.T) {
	r, _ := testRegistry(t, Finance)

	res := r.Invoke(context.Background(), "add_loan", `{"person":"Priya","amount":10,"direction":"sideways"}`)
	assert.False(t, res.Success)
}

func TestFinanceDeleteLoan(t *testing.T) {
	r, _ := testRegistry(t, Finance)
	ctx := context.Background()

	res := r.Invoke(ctx, "add_loan", `{"person":"Dev","amount":40,"direction":"i_owe"}`)
	require.True(t, res.Success)
	loanID := res.Data["loan_id"].(string)

	res = r.Invoke(ctx, "delete_loan", `{"loan_id":"`+loanID+`"}`)
	require.True(t, res.Success)

	res = r.Invoke(ctx, "delete_loan", `{"loan_id":"`+loanID+`"}`)
	assert.False(t, res.Success)
}
