package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arjun/majordomo/internal/store"
)

// Finance returns the loan-tracking action set. Direction semantics
// ("i_owe" vs "they_owe") are decided by the reasoning service; the
// store rejects anything else.
func Finance(st *store.Store) []Action {
	return []Action{
		NewAction("add_loan",
			"Record a new loan or debt.",
			Object(map[string]any{
				"person":    map[string]any{"type": "string", "description": "Who the loan involves"},
				"amount":    map[string]any{"type": "number", "description": "Loan amount"},
				"direction": map[string]any{"type": "string", "enum": []string{"i_owe", "they_owe"}, "description": "i_owe: the user owes this person; they_owe: this person owes the user"},
				"note":      map[string]any{"type": "string", "description": "Optional note"},
			}, "person", "amount", "direction"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Person    string  `json:"person"`
					Amount    float64 `json:"amount"`
					Direction string  `json:"direction"`
					Note      string  `json:"note"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				loan, err := st.AddLoan(args.Person, args.Amount, args.Direction, args.Note)
				if err != nil {
					return Errorf("failed to record loan: %v", err)
				}
				who := fmt.Sprintf("You owe %s", loan.Person)
				if loan.Direction == "they_owe" {
					who = fmt.Sprintf("%s owes you", loan.Person)
				}
				return OKData(fmt.Sprintf("✓ Recorded: %s %.2f", who, loan.Amount),
					map[string]any{"loan_id": loan.ID})
			}),

		NewAction("list_loans",
			"List outstanding loans, optionally filtered by direction.",
			Object(map[string]any{
				"direction": map[string]any{"type": "string", "enum": []string{"all", "i_owe", "they_owe"}},
			}),
			func(ctx context.Context, input string) Result {
				var args struct {
					Direction string `json:"direction"`
				}
				_ = json.Unmarshal([]byte(input), &args)
				loans, err := st.ListLoans(args.Direction)
				if err != nil {
					return Errorf("failed to list loans: %v", err)
				}
				if len(loans) == 0 {
					return OK("No outstanding loans.")
				}
				var b strings.Builder
				for _, l := range loans {
					who := fmt.Sprintf("you owe %s", l.Person)
					if l.Direction == "they_owe" {
						who = fmt.Sprintf("%s owes you", l.Person)
					}
					fmt.Fprintf(&b, "- [%s] %s %.2f", l.ID, who, l.Amount)
					if l.Note != "" {
						fmt.Fprintf(&b, " (%s)", l.Note)
					}
					b.WriteString("\n")
				}
				return OKData(strings.TrimRight(b.String(), "\n"),
					map[string]any{"count": len(loans)})
			}),

		NewAction("settle_loan",
			"Mark a loan as settled (paid back).",
			Object(map[string]any{
				"loan_id": map[string]any{"type": "string"},
			}, "loan_id"),
			func(ctx context.Context, input string) Result {
				var args struct {
					LoanID string `json:"loan_id"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				if err := st.SettleLoan(args.LoanID); err != nil {
					return Errorf("%v", err)
				}
				return OK("✓ Loan %s settled.", args.LoanID)
			}),

		NewAction("update_loan",
			"Change the outstanding amount of a loan.",
			Object(map[string]any{
				"loan_id":    map[string]any{"type": "string"},
				"new_amount": map[string]any{"type": "number"},
			}, "loan_id", "new_amount"),
			func(ctx context.Context, input string) Result {
				var args struct {
					LoanID    string  `json:"loan_id"`
					NewAmount float64 `json:"new_amount"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				if err := st.UpdateLoan(args.LoanID, args.NewAmount); err != nil {
					return Errorf("%v", err)
				}
				return OK("✓ Loan %s updated to %.2f.", args.LoanID, args.NewAmount)
			}),

		NewAction("delete_loan",
			"Delete a loan record entirely.",
			Object(map[string]any{
				"loan_id": map[string]any{"type": "string"},
			}, "loan_id"),
			func(ctx context.Context, input string) Result {
				var args struct {
					LoanID string `json:"loan_id"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				if err := st.DeleteLoan(args.LoanID); err != nil {
					return Errorf("%v", err)
				}
				return OK("✓ Loan %s deleted.", args.LoanID)
			}),

		NewAction("get_loan_summary",
			"Summarize outstanding loans in both directions.",
			Object(map[string]any{}),
			func(ctx context.Context, input string) Result {
				iOwe, theyOwe, count, err := st.LoanSummary()
				if err != nil {
					return Errorf("failed to summarize loans: %v", err)
				}
				return OKData(
					fmt.Sprintf("%d open loans. You owe %.2f in total; others owe you %.2f.", count, iOwe, theyOwe),
					map[string]any{"i_owe_total": iOwe, "they_owe_total": theyOwe, "count": count})
			}),
	}
}
