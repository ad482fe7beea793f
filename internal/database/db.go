package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	mc := mysql.NewConfig()
	mc.User = user
	mc.Passwd = pass
	mc.Net = "tcp"
	mc.Addr = host + ":" + port
	mc.DBName = name
	// parseTime=true -> DATE/DATETIME -> time.Time | loc=UTC keeps dates stable
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}

	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, err
	}

	// Pool settings; the app issues one short query per request.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// schema creates the reservations table.  The unique key on
// (reservation_date, time_slot) is what enforces one booking per slot
// when two devices submit at the same time.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS terrace_reservations (
		id               CHAR(36)                              NOT NULL,
		reservation_date DATE                                  NOT NULL,
		time_slot        ENUM('morning','afternoon_evening')   NOT NULL,
		floor            TINYINT UNSIGNED                      NOT NULL,
		apartment        CHAR(1)                               NOT NULL,
		reservation_code VARCHAR(16)                           NOT NULL,
		created_at       TIMESTAMP                             NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_terrace_slot (reservation_date, time_slot)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema idempotently.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
