// Package sqlite открывает встроенную базу SQLite через gorm.
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MemoryPath открывает базу в памяти; полезно для тестов.
const MemoryPath = ":memory:"

// Open открывает (и при необходимости создаёт) базу по пути path.
// SQLite допускает одного писателя, поэтому пул ограничен одним соединением.
func Open(path string) (*gorm.DB, error) {
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating db dir failed: %w", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite failed: %w", err)
	}

	c, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB failed: %w", err)
	}
	c.SetMaxIdleConns(1)
	c.SetMaxOpenConns(1)

	if path != MemoryPath {
		if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, fmt.Errorf("enabling WAL failed: %w", err)
		}
	}
	if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
		return nil, fmt.Errorf("setting busy timeout failed: %w", err)
	}

	return db, nil
}

// Close закрывает соединение gorm.
func Close(db *gorm.DB) error {
	c, err := db.DB()
	if err != nil {
		return err
	}
	return c.Close()
}
