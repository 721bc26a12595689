package db

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"storefront-be/internal/config"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okDriver struct{}

func (okDriver) Open(string) (driver.Conn, error) { return okConn{}, nil }

type okConn struct{}

func (okConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (okConn) Close() error                        { return nil }
func (okConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

func init() {
	sql.Register("db_test_ok", okDriver{})
}

func TestBuildDSN(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "pg.internal",
		DBUser:     "storefront",
		DBPassword: "s3cret",
		DBName:     "storefront",
		DBPort:     "6543",
	}

	assert.Equal(t,
		"host=pg.internal user=storefront password=s3cret dbname=storefront port=6543 sslmode=disable",
		buildDSN(cfg),
	)
}

func TestNewDatabase(t *testing.T) {
	t.Run("Opens", func(t *testing.T) {
		conn, err := newDatabaseWithDriver(&config.Config{DBHost: "localhost"}, "db_test_ok")
		require.NoError(t, err)
		defer conn.Close()

		assert.Equal(t, 25, conn.Stats().MaxOpenConnections)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		conn, err := newDatabaseWithDriver(&config.Config{}, "no_such_driver")
		assert.Nil(t, conn)
		assert.ErrorContains(t, err, "failed to connect to DB")
	})

	t.Run("Unreachable", func(t *testing.T) {
		conn, err := NewDatabase(&config.Config{DBHost: "invalid_host", DBPort: "5432"})
		assert.Nil(t, conn)
		assert.ErrorContains(t, err, "failed to ping DB")
	})
}

func TestInitDBExitsOnFailure(t *testing.T) {
	if os.Getenv("DB_TEST_CRASH") == "1" {
		InitDB(&config.Config{DBHost: "invalid_host", DBPort: "5432"})
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestInitDBExitsOnFailure")
	cmd.Env = append(os.Environ(), "DB_TEST_CRASH=1")
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.False(t, exitErr.Success())
}

func TestConstraintErrors(t *testing.T) {
	unique := &pq.Error{Code: PgUniqueViolation}
	fk := &pq.Error{Code: PgForeignKeyViolation}

	tests := []struct {
		name   string
		err    error
		unique bool
		fk     bool
	}{
		{"Unique", unique, true, false},
		{"WrappedUnique", fmt.Errorf("insert category: %w", unique), true, false},
		{"ForeignKey", fmt.Errorf("insert product: %w", fk), false, true},
		{"Plain", errors.New("connection reset"), false, false},
		{"Nil", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueViolation(tt.err))
			assert.Equal(t, tt.fk, IsForeignKeyViolation(tt.err))
		})
	}
}
