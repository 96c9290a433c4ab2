package mysql

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"edulend-backend/internal/domain/access"
	achDomain "edulend-backend/internal/domain/achievement"
	eventDomain "edulend-backend/internal/domain/event"
	loanDomain "edulend-backend/internal/domain/loan"
	poolDomain "edulend-backend/internal/domain/pool"
	studentDomain "edulend-backend/internal/domain/student"
	tokenDomain "edulend-backend/internal/domain/token"
)

// openTestDB gives each test its own in-memory sqlite database with the full
// schema. forUpdate() skips row locking on this dialect.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(
		&studentDomain.Student{},
		&loanDomain.Loan{},
		&poolDomain.State{},
		&poolDomain.Position{},
		&tokenDomain.Account{},
		&tokenDomain.Allowance{},
		&tokenDomain.Supply{},
		&achDomain.Achievement{},
		&access.Grant{},
		&eventDomain.Event{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}
