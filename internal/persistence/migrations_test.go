package persistence

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

// Ticket deletion removes the whole trail in one statement: the
// satellite tables must all cascade from tickets(id).
func TestTicketSatellitesCascadeOnDelete(t *testing.T) {
	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "0001_init.sql"))
	require.NoError(t, err)

	satellites := []string{
		"assignments",
		"ticket_history",
		"ticket_comments",
		"ratings",
		"notifications",
	}
	for _, table := range satellites {
		pattern := regexp.MustCompile(
			`(?s)CREATE TABLE IF NOT EXISTS ` + table + ` \(.*?ticket_id\s+UUID[^,]*REFERENCES tickets\(id\) ON DELETE CASCADE`,
		)
		require.Regexp(t, pattern, string(schema), "table %s must cascade from tickets", table)
	}
}
