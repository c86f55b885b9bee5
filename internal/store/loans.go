package store

import (
	"fmt"
	"time"
)

func (s *Store) AddLoan(person string, amount float64, direction, note string) (*Loan, error) {
	if direction != "i_owe" && direction != "they_owe" {
		return nil, fmt.Errorf("invalid loan direction %q", direction)
	}
	loan := &Loan{
		ID:        newID(),
		Person:    person,
		Amount:    amount,
		Direction: direction,
		Note:      note,
		CreatedAt: time.Now(),
	}
	_, err := s.DB.Exec(
		`INSERT INTO loans (id, person, amount, direction, note, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		loan.ID, loan.Person, loan.Amount, loan.Direction, loan.Note, loan.CreatedAt)
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// ListLoans returns unsettled loans, optionally filtered by direction
// ("i_owe", "they_owe" or "all").
func (s *Store) ListLoans(direction string) ([]Loan, error) {
	query := `SELECT id, person, amount, direction, note, settled, created_at FROM loans WHERE settled = 0`
	args := []any{}
	if direction != "" && direction != "all" {
		query += ` AND direction = ?`
		args = append(args, direction)
	}
	query += ` ORDER BY created_at`

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []Loan
	for rows.Next() {
		var l Loan
		if err := rows.Scan(&l.ID, &l.Person, &l.Amount, &l.Direction, &l.Note, &l.Settled, &l.CreatedAt); err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func (s *Store) SettleLoan(id string) error {
	res, err := s.DB.Exec(`UPDATE loans SET settled = 1 WHERE id = ? AND settled = 0`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("loan %s not found or already settled", id)
	}
	return nil
}

func (s *Store) DeleteLoan(id string) error {
	res, err := s.DB.Exec(`DELETE FROM loans WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("loan %s not found", id)
	}
	return nil
}

func (s *Store) UpdateLoan(id string, newAmount float64) error {
	res, err := s.DB.Exec(`UPDATE loans SET amount = ? WHERE id = ? AND settled = 0`, newAmount, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("loan %s not found or already settled", id)
	}
	return nil
}

// LoanSummary totals outstanding amounts in each direction.
func (s *Store) LoanSummary() (iOwe, theyOwe float64, count int, err error) {
	rows, err := s.DB.Query(`SELECT amount, direction FROM loans WHERE settled = 0`)
	if err != nil {
		return 0, 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var amount float64
		var direction string
		if err := rows.Scan(&amount, &direction); err != nil {
			return 0, 0, 0, err
		}
		count++
		if direction == "i_owe" {
			iOwe += amount
		} else {
			theyOwe += amount
		}
	}
	return iOwe, theyOwe, count, rows.Err()
}
