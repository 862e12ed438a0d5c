// Package csvload imports the static YaMDB data set (one CSV file per
// table, header row first) into the database.
package csvload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"yamdb/internal/models"

	"gorm.io/gorm"
)

type record map[string]string

func (r record) uint(key string) (uint, error) {
	v, err := strconv.ParseUint(r[key], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", key, err)
	}
	return uint(v), nil
}

func (r record) int(key string) (int, error) {
	v, err := strconv.Atoi(r[key])
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", key, err)
	}
	return v, nil
}

func (r record) time(key string) (time.Time, error) {
	if r[key] == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, r[key])
	if err != nil {
		return time.Time{}, fmt.Errorf("column %s: %w", key, err)
	}
	return t, nil
}

// table describes how one CSV file becomes rows of one table. refs maps a
// CSV column to the table its value must already exist in.
type table struct {
	file  string
	name  string
	refs  map[string]string
	build func(r record) (interface{}, error)
}

// tables are listed in foreign key order.
var tables = []table{
	{file: "category.csv", name: "categories", build: func(r record) (interface{}, error) {
		id, err := r.uint("id")
		if err != nil {
			return nil, err
		}
		return &models.Category{ID: id, Name: r["name"], Slug: r["slug"]}, nil
	}},
	{file: "genre.csv", name: "genres", build: func(r record) (interface{}, error) {
		id, err := r.uint("id")
		if err != nil {
			return nil, err
		}
		return &models.Genre{ID: id, Name: r["name"], Slug: r["slug"]}, nil
	}},
	{file: "titles.csv", name: "titles", refs: map[string]string{"category": "categories"}, build: func(r record) (interface{}, error) {
		id, err := r.uint("id")
		if err != nil {
			return nil, err
		}
		year, err := r.int("year")
		if err != nil {
			return nil, err
		}
		title := &models.Title{ID: id, Name: r["name"], Year: year}
		if r["category"] != "" {
			categoryID, err := r.uint("category")
			if err != nil {
				return nil, err
			}
			title.CategoryID = &categoryID
		}
		if d, ok := r["description"]; ok && d != "" {
			title.Description = &d
		}
		return title, nil
	}},
	{file: "genre_title.csv", name: "genre_titles", refs: map[string]string{"title_id": "titles", "genre_id": "genres"}, build: func(r record) (interface{}, error) {
		titleID, err := r.uint("title_id")
		if err != nil {
			return nil, err
		}
		genreID, err := r.uint("genre_id")
		if err != nil {
			return nil, err
		}
		return &models.GenreTitle{TitleID: titleID, GenreID: genreID}, nil
	}},
	{file: "users.csv", name: "users", build: func(r record) (interface{}, error) {
		id, err := r.uint("id")
		if err != nil {
			return nil, err
		}
		role := models.Role(r["role"])
		if role == "" {
			role = models.RoleUser
		}
		if !role.Valid() {
			return nil, fmt.Errorf("column role: unknown role %q", role)
		}
		return &models.User{
			ID:        id,
			Username:  r["username"],
			Email:     r["email"],
			Role:      role,
			Bio:       r["bio"],
			FirstName: r["first_name"],
			LastName:  r["last_name"],
		}, nil
	}},
	{file: "review.csv", name: "reviews", refs: map[string]string{"title_id": "titles", "author": "users"}, build: func(r record) (interface{}, error) {
		id, err := r.uint("id")
		if err != nil {
			return nil, err
		}
		titleID, err := r.uint("title_id")
		if err != nil {
			return nil, err
		}
		authorID, err := r.uint("author")
		if err != nil {
			return nil, err
		}
		score, err := r.int("score")
		if err != nil {
			return nil, err
		}
		if score < models.MinScore || score > models.MaxScore {
			return nil, fmt.Errorf("column score: %d is out of range", score)
		}
		pubDate, err := r.time("pub_date")
		if err != nil {
			return nil, err
		}
		return &models.Review{ID: id, TitleID: titleID, AuthorID: authorID, Text: r["text"], Score: score, PubDate: pubDate}, nil
	}},
	{file: "comments.csv", name: "comments", refs: map[string]string{"review_id": "reviews", "author": "users"}, build: func(r record) (interface{}, error) {
		id, err := r.uint("id")
		if err != nil {
			return nil, err
		}
		reviewID, err := r.uint("review_id")
		if err != nil {
			return nil, err
		}
		authorID, err := r.uint("author")
		if err != nil {
			return nil, err
		}
		pubDate, err := r.time("pub_date")
		if err != nil {
			return nil, err
		}
		return &models.Comment{ID: id, ReviewID: reviewID, AuthorID: authorID, Text: r["text"], PubDate: pubDate}, nil
	}},
}

// Loader imports CSV files from a directory.
type Loader struct {
	db  *gorm.DB
	dir string
}

// New creates a Loader reading from dir.
func New(db *gorm.DB, dir string) *Loader {
	return &Loader{db: db, dir: dir}
}

// Load imports every known file found in the directory, each in its own
// transaction, and returns the number of rows written per table. Missing
// files are skipped; the first bad row aborts the import.
func (l *Loader) Load() (map[string]int, error) {
	counts := make(map[string]int)
	for _, t := range tables {
		path := filepath.Join(l.dir, t.file)
		n, err := l.loadFile(path, t)
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("Skipping %s: file not found", t.file)
			continue
		}
		if err != nil {
			return counts, err
		}
		counts[t.name] = n
		log.Printf("Loaded %d rows into %s from %s", n, t.name, t.file)
	}
	return counts, nil
}

func (l *Loader) loadFile(path string, t table) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: failed to read header: %w", t.file, err)
	}

	n := 0
	err = l.db.Transaction(func(tx *gorm.DB) error {
		line := 1
		for {
			row, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			line++
			if err != nil {
				return fmt.Errorf("%s:%d: %w", t.file, line, err)
			}
			rec := make(record, len(header))
			for i, col := range header {
				if i < len(row) {
					rec[col] = row[i]
				}
			}
			model, err := t.build(rec)
			if err != nil {
				return fmt.Errorf("%s:%d: %w", t.file, line, err)
			}
			if err := checkRefs(tx, t, rec); err != nil {
				return fmt.Errorf("%s:%d: %w", t.file, line, err)
			}
			if err := tx.Table(t.name).Create(model).Error; err != nil {
				return fmt.Errorf("%s:%d: failed to insert row: %w", t.file, line, err)
			}
			n++
		}
	})
	if err != nil {
		return 0, err
	}
	if err := l.resetSequence(t.name); err != nil {
		return n, err
	}
	return n, nil
}

func checkRefs(tx *gorm.DB, t table, rec record) error {
	for column, target := range t.refs {
		if rec[column] == "" {
			continue
		}
		var n int64
		if err := tx.Table(target).Where("id = ?", rec[column]).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check %s: %w", column, err)
		}
		if n == 0 {
			return fmt.Errorf("column %s: no %s row with id %s", column, target, rec[column])
		}
	}
	return nil
}

// resetSequence moves a PostgreSQL id sequence past the imported ids.
// SQLite needs nothing.
func (l *Loader) resetSequence(tableName string) error {
	if l.db.Dialector.Name() != "postgres" || tableName == "genre_titles" {
		return nil
	}
	err := l.db.Exec(fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))",
		tableName, tableName)).Error
	if err != nil {
		return fmt.Errorf("failed to reset id sequence of %s: %w", tableName, err)
	}
	return nil
}
