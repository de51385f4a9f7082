package testutil

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"ebayinsights-backend/lib/configutil/sqldb"
	"ebayinsights-backend/lib/telemetry"

	"github.com/mazen160/go-random"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanupTelemetry := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))
	if params.DbSchema == "" {
		return ServiceResult{}, cleanupTelemetry
	}

	dbpath := ":memory:"
	if params.DbPath != "" {
		dbpath = params.DbPath
	}
	database, err := sqldb.OpenFile(dbpath)
	if err != nil {
		t.Fatal(err)
	}
	_, err = database.Exec(params.DbSchema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		t.Fatal(err)
	}

	return ServiceResult{DB: database}, func() {
		database.Close()
		cleanupTelemetry()
	}
}

// RandomItemID returns a unique marketplace item id for fixtures.
func RandomItemID(t testing.TB) string {
	suffix, err := random.String(12)
	if err != nil {
		t.Fatal(err)
	}
	return "TEST-" + suffix
}
