package sqlite

const (
	selectBudgets = `SELECT category, amount FROM budgets ORDER BY category`

	selectTransactions = `SELECT position, type, date, amount, category, description
FROM transactions ORDER BY position`

	deleteBudgets      = `DELETE FROM budgets`
	deleteTransactions = `DELETE FROM transactions`

	insertBudget = `INSERT INTO budgets (category, amount) VALUES (?, ?)`

	insertTransaction = `INSERT INTO transactions (position, type, date, amount, category, description)
VALUES (?, ?, ?, ?, ?, ?)`
)
