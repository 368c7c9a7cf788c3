package mm1img

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/bodgit/mm1img/level"
	_ "github.com/mattn/go-sqlite3"
)

// Catalog records a summary of every converted file in a sqlite database
type Catalog struct {
	db *sql.DB
}

// Entry is the summary of a converted file. The Sub fields are only valid
// for courses.
type Entry struct {
	File           string
	SHA1           string
	Name           string
	GameMode       level.GameMode
	CourseTheme    level.CourseTheme
	SubCourseTheme sql.NullInt64
	TimeLimit      uint16
	AutoScroll     level.AutoScroll
	SubAutoScroll  sql.NullInt64
	Width          uint32
	SubWidth       sql.NullInt64
	Objects        int
	SubObjects     sql.NullInt64
}

// NewCatalog opens or creates the catalog stored in file
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS level (id INTEGER PRIMARY KEY NOT NULL, file TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, name TEXT NOT NULL, game_mode INTEGER NOT NULL, course_theme INTEGER NOT NULL, sub_course_theme INTEGER, time_limit INTEGER NOT NULL, auto_scroll INTEGER NOT NULL, sub_auto_scroll INTEGER, width INTEGER NOT NULL, sub_width INTEGER, objects INTEGER NOT NULL, sub_objects INTEGER)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the underlying database
func (c *Catalog) Close() error {
	return c.db.Close()
}

func nullInt(valid bool, v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: valid}
}

// Record stores the summary of levels, converted from file with the given
// SHA-1, replacing any previous entry for the same file
func (c *Catalog) Record(file, sum string, levels []*level.Level) error {
	if len(levels) == 0 {
		return errors.New("mm1img: nothing to record")
	}

	l := levels[0]
	var sub *level.Level
	if len(levels) > 1 {
		sub = levels[1]
	}
	has := sub != nil
	if sub == nil {
		sub = new(level.Level)
	}

	_, err := c.db.Exec("INSERT OR REPLACE INTO level (file, sha1, name, game_mode, course_theme, sub_course_theme, time_limit, auto_scroll, sub_auto_scroll, width, sub_width, objects, sub_objects) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		file, sum, l.Name,
		int64(l.GameMode),
		int64(l.CourseTheme), nullInt(has, int64(sub.CourseTheme)),
		int64(l.TimeLimit),
		int64(l.AutoScroll), nullInt(has, int64(sub.AutoScroll)),
		int64(l.Width), nullInt(has, int64(sub.Width)),
		len(l.Objects), nullInt(has, int64(len(sub.Objects))),
	)
	return err
}

const entryColumns = "file, sha1, name, game_mode, course_theme, sub_course_theme, time_limit, auto_scroll, sub_auto_scroll, width, sub_width, objects, sub_objects"

type scanner interface {
	Scan(...interface{}) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		e                           Entry
		gameMode, theme, autoScroll uint8
		limit                       uint16
		width                       uint32
	)
	if err := s.Scan(&e.File, &e.SHA1, &e.Name, &gameMode, &theme, &e.SubCourseTheme, &limit, &autoScroll, &e.SubAutoScroll, &width, &e.SubWidth, &e.Objects, &e.SubObjects); err != nil {
		return nil, err
	}
	e.GameMode = level.GameModeFromCode(gameMode)
	e.CourseTheme = level.CourseThemeFromCode(theme)
	e.TimeLimit = limit
	e.AutoScroll = level.AutoScrollFromCode(autoScroll)
	e.Width = width
	return &e, nil
}

// Find returns the entry for file, or nil if there is none
func (c *Catalog) Find(file string) (*Entry, error) {
	e, err := scanEntry(c.db.QueryRow("SELECT "+entryColumns+" FROM level WHERE file = ?", file))
	switch err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return e, nil
	default:
		return nil, err
	}
}

// Entries returns every entry ordered by file name
func (c *Catalog) Entries() ([]*Entry, error) {
	rows, err := c.db.Query("SELECT " + entryColumns + " FROM level ORDER BY file")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func formatNull(n sql.NullInt64) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}

// ExportCSV writes every entry to w as CSV with a header row
func (c *Catalog) ExportCSV(w io.Writer) error {
	entries, err := c.Entries()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"file",
		"level_name",
		"game_mode",
		"level_theme",
		"sub_level_theme",
		"time_limit",
		"auto_scroll",
		"sub_level_auto_scroll",
		"width",
		"sub_level_width",
		"objects",
		"sub_level_objects",
	}); err != nil {
		return err
	}

	for _, e := range entries {
		if err := cw.Write([]string{
			e.File,
			e.Name,
			strconv.Itoa(int(e.GameMode)),
			strconv.Itoa(int(e.CourseTheme)),
			formatNull(e.SubCourseTheme),
			strconv.Itoa(int(e.TimeLimit)),
			strconv.Itoa(int(e.AutoScroll)),
			formatNull(e.SubAutoScroll),
			strconv.FormatUint(uint64(e.Width), 10),
			formatNull(e.SubWidth),
			strconv.Itoa(e.Objects),
			formatNull(e.SubObjects),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
