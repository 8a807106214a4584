package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jinzhu/gorm/dialects/mysql"

	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
	bulk "github.com/t-tiger/gorm-bulk-insert"
)

type DatabaseConnection struct {
	Connection *gorm.DB
}

// CreateConnection opens a MySQL connection.
func CreateConnection(username, password, hostname, database string) (*DatabaseConnection, error) {
	db, err := gorm.Open("mysql", username+":"+password+"@tcp("+hostname+")/"+database+"?parseTime=true")
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &DatabaseConnection{Connection: db}, nil
}

// FromSQL wraps an already opened *sql.DB speaking the MySQL dialect.
func FromSQL(db *sql.DB) (*DatabaseConnection, error) {
	conn, err := gorm.Open("mysql", db)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &DatabaseConnection{Connection: conn}, nil
}

func (d *DatabaseConnection) Close() error {
	return d.Connection.Close()
}

// Refresh replaces the location directory in one transaction: states and
// districts are bulk inserted in chunks of loadValue rows, then the rows
// created before cutoff are soft deleted. Any failure rolls everything back.
func (d *DatabaseConnection) Refresh(states, districts []interface{}, cutoff time.Time, loadValue int) (int64, error) {
	start := time.Now()
	tx := d.Connection.Begin()
	if tx.Error != nil {
		return 0, fmt.Errorf("starting directory refresh: %w", tx.Error)
	}

	for _, data := range [][]interface{}{states, districts} {
		if len(data) == 0 {
			continue
		}
		if err := bulk.BulkInsert(tx, data, loadValue); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("bulk loading %d records: %w", len(data), err)
		}
	}

	var purged int64
	for _, model := range []interface{}{&State{}, &District{}} {
		results := tx.Where("created_at < ?", cutoff).Delete(model)
		if results.Error != nil {
			tx.Rollback()
			return 0, fmt.Errorf("purging directory: %w", results.Error)
		}
		purged += results.RowsAffected
	}

	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("committing directory refresh: %w", err)
	}
	log.Println("Bulk Load of", len(states)+len(districts), "records completed in: ", time.Since(start))
	return purged, nil
}

// DeleteRecords soft deletes the rows of model matching query.
func (d *DatabaseConnection) DeleteRecords(query string, model interface{}, condition ...interface{}) (int64, error) {
	start := time.Now()
	results := d.Connection.Where(query, condition...).Delete(model)
	if results.Error != nil {
		return 0, fmt.Errorf("deleting records: %w", results.Error)
	}
	log.Println("Delete Query with condition completed in: ", time.Since(start))
	return results.RowsAffected, nil
}

func (d *DatabaseConnection) AutoMigrateTables(table ...interface{}) error {
	start := time.Now()
	if err := d.Connection.AutoMigrate(table...).Error; err != nil {
		return fmt.Errorf("migrating tables: %w", err)
	}
	log.Println("Tables creation completed in: ", time.Since(start))
	return nil
}
