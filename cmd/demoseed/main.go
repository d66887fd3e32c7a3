// demoseed creates a demo database with sample data for screencasts.
// Usage: go run ./cmd/demoseed [output.db]
// Default output: ~/.local/share/mdo/demo.db
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MarisaKirisame/mdo/internal/db"
	"github.com/MarisaKirisame/mdo/internal/when"
)

func main() {
	// Determine output path
	var dbPath string
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	} else {
		home, _ := os.UserHomeDir()
		dbPath = filepath.Join(home, ".local", "share", "mdo", "demo.db")
	}

	// Remove existing demo database if it exists
	if _, err := os.Stat(dbPath); err == nil {
		if err := os.Remove(dbPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing existing db: %v\n", err)
			os.Exit(1)
		}
	}

	// Open/create the database
	database, err := db.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	fmt.Printf("Creating demo database at: %s\n", dbPath)

	trip := seed(database, "Plan summer trip", "", "")
	seed(database, "Book flights", trip, "in 3 days")
	seed(database, "Reserve hotel", trip, "")
	passports := seed(database, "Renew passports", trip, "")
	seed(database, "Get passport photos", passports, "tomorrow")

	seed(database, "Write quarterly report", "", "every friday")
	seed(database, "Water the plants", "", "every 3 days")
	seed(database, "Clear the inbox", "", "daily")

	bike := seed(database, "Fix the bike", "", "")
	seed(database, "Buy a new inner tube", bike, "")
	seed(database, "Pump the tires", bike, "")

	fmt.Println()
	fmt.Println("Demo database created successfully!")
	fmt.Println()
	fmt.Println("To use the demo database, run:")
	fmt.Printf("  MDO_DB_PATH=%s ./bin/mdo list\n", dbPath)
	fmt.Println()
	fmt.Println("Or add to your shell session:")
	fmt.Printf("  export MDO_DB_PATH=%s\n", dbPath)
}

func seed(database *db.DB, title, parentID, whenExpr string) string {
	opts := db.CreateOptions{}
	if parentID != "" {
		opts.ParentID = &parentID
	}
	if whenExpr != "" {
		opts.Due, opts.Every = when.Parse(whenExpr, when.Today())
	}
	created, err := database.CreateTask(title, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating task %q: %v\n", title, err)
		os.Exit(1)
	}
	fmt.Printf("  Created task: %s\n", title)
	return created.ID
}
