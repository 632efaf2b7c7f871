package main

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"tailor/internal/repository/postgres"
)

// The changes column carries summarizer prose (often empty), which is not
// valid JSON. pgx sends Go strings to JSONB columns verbatim, so the column
// must be TEXT or commit inserts fail at the database.
func TestSchemaCommitProseColumnsAreText(t *testing.T) {
	tables := postgres.NewTableNames("test_")
	stmts := schemaStatements(tables, "test_")

	var commitsDDL string
	for _, stmt := range stmts {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS "+tables.Commits+" ") {
			commitsDDL = stmt
			break
		}
	}
	if commitsDDL == "" {
		t.Fatalf("no CREATE TABLE statement for %s", tables.Commits)
	}

	columnType := func(name string) string {
		re := regexp.MustCompile(name + `\s+(\w+)`)
		m := re.FindStringSubmatch(commitsDDL)
		if m == nil {
			t.Fatalf("column %q not found in commits DDL", name)
		}
		return m[1]
	}

	if got := columnType("changes"); got != "TEXT" {
		t.Errorf("changes column type = %s, want TEXT", got)
	}
	if got := columnType("message"); got != "TEXT" {
		t.Errorf("message column type = %s, want TEXT", got)
	}
	if got := columnType("content"); got != "JSONB" {
		t.Errorf("content column type = %s, want JSONB", got)
	}

	// Typical changes values that a JSONB column would reject.
	for _, prose := range []string{"", "Changed sections: skills, summary"} {
		if json.Valid([]byte(prose)) {
			t.Errorf("expected %q to be invalid JSON, test premise is stale", prose)
		}
	}
}

func TestSchemaStatementsCoverAllTables(t *testing.T) {
	tables := postgres.NewTableNames("test_")
	stmts := schemaStatements(tables, "test_")
	joined := strings.Join(stmts, "\n")

	for _, table := range []string{
		tables.Users,
		tables.Projects,
		tables.Branches,
		tables.Versions,
		tables.Commits,
		tables.Collaborators,
	} {
		if !strings.Contains(joined, "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Errorf("missing CREATE TABLE for %s", table)
		}
	}

	if !strings.Contains(joined, "idx_test_commits_branch_history") {
		t.Error("missing history pagination index")
	}
}
