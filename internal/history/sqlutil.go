package history

import (
	"database/sql"
	"fmt"
)

// checkRowsErr reports errors from row iteration that rows.Next() hides.
// Call it after every rows.Next() loop.
func checkRowsErr(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}
	return nil
}
