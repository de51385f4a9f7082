package sqldb

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct is the database section of a config file. When Url is set the
// database is a remote libsql instance, otherwise File is opened as a local
// sqlite database.
type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

func (config Struct) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		return openRemote(config.Url, config.AuthToken)
	}
	if config.File == "" {
		return nil, wrapOpenDB(fmt.Errorf("neither a file nor a url was specified"))
	}
	return OpenFile(config.File)
}

func openRemote(rawUrl, authToken string) (*sql.DB, error) {
	link, err := url.Parse(rawUrl)
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	if authToken != "" {
		values := link.Query()
		values.Set("authToken", authToken)
		link.RawQuery = values.Encode()
	}
	db, err := sql.Open("libsql", link.String())
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	return db, nil
}

// every pooled connection runs these, pragmas are per connection in sqlite
const filePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// file databases run in WAL mode, readers are not blocked by a connection
// that is held open for a long ingestion run
const maxFileConns = 8

// OpenFile opens a local sqlite database, creating its parent directory if
// needed. `:memory:` is passed through as is and limited to one connection,
// since every new connection would see its own empty database.
func OpenFile(path string) (*sql.DB, error) {
	if path == ":memory:" {
		db, err := sql.Open("sqlite", path+"?"+filePragmas)
		if err != nil {
			return nil, wrapOpenDB(err)
		}
		db.SetMaxOpenConns(1)
		return db, nil
	}

	err := os.MkdirAll(filepath.Dir(path), 0777)
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	db, err := sql.Open("sqlite", path+"?"+filePragmas+"&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	db.SetMaxOpenConns(maxFileConns)

	// force a connection so a bad path fails here instead of on first use
	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, wrapOpenDB(err)
	}
	return db, nil
}

// OpenAndMigrate opens the database and applies `schema`. The schema is
// expected to be idempotent (CREATE ... IF NOT EXISTS).
func (config Struct) OpenAndMigrate(schema string) (*sql.DB, error) {
	db, err := config.OpenDB()
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
