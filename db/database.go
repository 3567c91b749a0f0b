package db

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// InitDB инициализирует соединение с базой данных и создает таблицы
func InitDB(driver, dsn string) *sql.DB {
	db, err := Open(driver, dsn)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}

	if err := Migrate(db, driver); err != nil {
		log.Fatalf("Не удалось создать таблицы: %v", err)
	}

	log.Println("База данных успешно инициализирована")
	return db
}

// Open открывает и проверяет соединение без применения схемы.
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		// SQLite допускает одного писателя; транзакции передачи смен идут по очереди.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return db, nil
}

// Migrate применяет схему для указанного драйвера.
func Migrate(db *sql.DB, driver string) error {
	schema, err := GetSchemaSQL(driver)
	if err != nil {
		return err
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
