package sqldb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSchema = `CREATE TABLE IF NOT EXISTS kv (k TEXT PRIMARY KEY, v TEXT);`

func TestOpenAndMigrateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.db")
	config := Struct{File: path}

	db, err := config.OpenAndMigrate(testSchema)
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec(`INSERT INTO kv (k, v) VALUES ('a', 'b')`)
	if err != nil {
		t.Fatal(err)
	}
	require.NoError(t, db.Close())

	// applying the schema twice must be harmless
	db, err = config.OpenAndMigrate(testSchema)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var v string
	err = db.QueryRow(`SELECT v FROM kv WHERE k = 'a'`).Scan(&v)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "b", v)
}

func TestOpenDBRequiresTarget(t *testing.T) {
	_, err := Struct{}.OpenDB()
	require.Error(t, err)
}

func TestOpenFileHeldConnDoesNotBlock(t *testing.T) {
	db, err := Struct{File: filepath.Join(t.TempDir(), "test.db")}.OpenAndMigrate(`
		CREATE TABLE IF NOT EXISTS parent (id INTEGER PRIMARY KEY);
		CREATE TABLE IF NOT EXISTS child (id INTEGER PRIMARY KEY, parent_id INTEGER NOT NULL REFERENCES parent(id));
	`)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()

	held, err := db.Conn(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer held.Close()
	_, err = held.ExecContext(ctx, `INSERT INTO parent (id) VALUES (1)`)
	if err != nil {
		t.Fatal(err)
	}

	// the pool hands out another connection while `held` is checked out
	var count int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM parent`).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 1, count)

	// foreign keys apply to every connection, not just the first one
	_, err = db.ExecContext(ctx, `INSERT INTO child (id, parent_id) VALUES (1, 42)`)
	require.ErrorContains(t, err, "FOREIGN KEY constraint failed")
}

func TestOpenFileMemoryForeignKeys(t *testing.T) {
	db, err := Struct{File: ":memory:"}.OpenAndMigrate(`
		CREATE TABLE parent (id INTEGER PRIMARY KEY);
		CREATE TABLE child (id INTEGER PRIMARY KEY, parent_id INTEGER NOT NULL REFERENCES parent(id));
	`)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	_, err = db.Exec(`INSERT INTO child (id, parent_id) VALUES (1, 42)`)
	require.ErrorContains(t, err, "FOREIGN KEY constraint failed")
}
