// Command loaddata seeds the tag and ingredient catalogs from CSV
// files. Rows that already exist are skipped, so reruns are safe.
//
// Usage:
//
//	loaddata -ingredients data/ingredients.csv -tags data/tags.csv
//
// ingredients.csv rows: name,measurement_unit
// tags.csv rows: name,color,slug
package main

import (
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/cookbook-app/backend/config"
)

func main() {
	ingredientsPath := flag.String("ingredients", "", "path to the ingredients CSV file")
	tagsPath := flag.String("tags", "", "path to the tags CSV file")
	flag.Parse()

	if *ingredientsPath == "" && *tagsPath == "" {
		log.Fatal("nothing to load: pass -ingredients and/or -tags")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *ingredientsPath != "" {
		n, err := loadCSV(db, *ingredientsPath, 2,
			`INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2) ON CONFLICT DO NOTHING`)
		if err != nil {
			log.Fatalf("Failed to load ingredients: %v", err)
		}
		log.Printf("Loaded %d ingredient rows from %s", n, *ingredientsPath)
	}

	if *tagsPath != "" {
		n, err := loadCSV(db, *tagsPath, 3,
			`INSERT INTO tags (name, color, slug) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`)
		if err != nil {
			log.Fatalf("Failed to load tags: %v", err)
		}
		log.Printf("Loaded %d tag rows from %s", n, *tagsPath)
	}
}

// loadCSV streams the file row by row inside one transaction.
func loadCSV(db *sql.DB, path string, columns int, insert string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = columns

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insert)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", count+1, err)
		}

		args := make([]interface{}, len(record))
		for i, field := range record {
			args[i] = field
		}
		if _, err := stmt.Exec(args...); err != nil {
			return 0, fmt.Errorf("row %d: %w", count+1, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}
