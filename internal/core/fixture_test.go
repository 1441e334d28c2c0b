package core

import (
	"context"
	"testing"
	"time"

	"github.com/JonMunkholm/newsroom/internal/database"
)

// Test entities mirror the shapes the catalog uses: a parent with soft
// delete, a child with a foreign key, and an append-only table ordered by
// datetime.

type testPress struct {
	ID        int64
	Name      string
	Valid     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type testArticle struct {
	ID        int64
	PressID   int64
	Title     string
	Views     int64
	Score     float64
	Valid     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type testEvent struct {
	ID       int64
	Name     string
	Datetime time.Time
}

var testSchema = []string{
	`CREATE TABLE press (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		valid BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		press_id INTEGER NOT NULL REFERENCES press (id),
		title TEXT NOT NULL,
		views INTEGER NOT NULL DEFAULT 0,
		score REAL NOT NULL DEFAULT 0,
		valid BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		datetime DATETIME NOT NULL
	)`,
}

func newPressModel() *Model[testPress] {
	return NewModel(Definition[testPress]{
		Table: "press",
		Fields: []Field[testPress]{
			{Name: "id", Kind: KindInt, PrimaryKey: true, Generated: true, Addr: func(p *testPress) any { return &p.ID }},
			{Name: "name", Kind: KindText, Addr: func(p *testPress) any { return &p.Name }},
			{Name: ColumnValid, Kind: KindBool, Addr: func(p *testPress) any { return &p.Valid }},
			{Name: ColumnCreatedAt, Kind: KindTime, Addr: func(p *testPress) any { return &p.CreatedAt }},
			{Name: ColumnUpdatedAt, Kind: KindTime, Addr: func(p *testPress) any { return &p.UpdatedAt }},
		},
	})
}

func newArticleModel() *Model[testArticle] {
	return NewModel(Definition[testArticle]{
		Table: "articles",
		Fields: []Field[testArticle]{
			{Name: "id", Kind: KindInt, PrimaryKey: true, Generated: true, Addr: func(a *testArticle) any { return &a.ID }},
			{Name: "press_id", Kind: KindInt, References: &Reference{Table: "press", Live: true}, Addr: func(a *testArticle) any { return &a.PressID }},
			{Name: "title", Kind: KindText, Addr: func(a *testArticle) any { return &a.Title }},
			{Name: "views", Kind: KindInt, Addr: func(a *testArticle) any { return &a.Views }},
			{Name: "score", Kind: KindFloat, Addr: func(a *testArticle) any { return &a.Score }},
			{Name: ColumnValid, Kind: KindBool, Addr: func(a *testArticle) any { return &a.Valid }},
			{Name: ColumnCreatedAt, Kind: KindTime, Addr: func(a *testArticle) any { return &a.CreatedAt }},
			{Name: ColumnUpdatedAt, Kind: KindTime, Addr: func(a *testArticle) any { return &a.UpdatedAt }},
		},
	})
}

func newEventModel() *Model[testEvent] {
	return NewModel(Definition[testEvent]{
		Table: "events",
		Fields: []Field[testEvent]{
			{Name: "id", Kind: KindInt, PrimaryKey: true, Generated: true, Addr: func(e *testEvent) any { return &e.ID }},
			{Name: "name", Kind: KindText, Addr: func(e *testEvent) any { return &e.Name }},
			{Name: ColumnDatetime, Kind: KindTime, Addr: func(e *testEvent) any { return &e.Datetime }},
		},
	})
}

// testClock hands out strictly increasing times one minute apart.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

type fixture struct {
	t        *testing.T
	db       *database.Client
	clock    *testClock
	press    *Model[testPress]
	articles *Model[testArticle]
	events   *Model[testEvent]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		Driver: "sqlite",
		URL:    "file::memory:",
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for _, stmt := range testSchema {
		if _, err := db.DB().Exec(stmt); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	f := &fixture{
		t:        t,
		db:       db,
		clock:    newTestClock(),
		press:    newPressModel(),
		articles: newArticleModel(),
		events:   newEventModel(),
	}
	f.press.Now = f.clock.Now
	f.articles.Now = f.clock.Now
	f.events.Now = f.clock.Now
	return f
}

func (f *fixture) session() *database.Session {
	f.t.Helper()
	s, err := f.db.Session(context.Background())
	if err != nil {
		f.t.Fatalf("begin session: %v", err)
	}
	return s
}

func (f *fixture) count(table string) int {
	f.t.Helper()
	var n int
	if err := f.db.DB().Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		f.t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func (f *fixture) createPress(name string) *testPress {
	f.t.Helper()
	p, err := f.press.Create(context.Background(), f.session(), Values{"name": name})
	if err != nil {
		f.t.Fatalf("create press %q: %v", name, err)
	}
	return p
}

func (f *fixture) createArticle(pressID int64, title string, extra Values) *testArticle {
	f.t.Helper()
	v := Values{"press_id": pressID, "title": title}
	for k, val := range extra {
		v[k] = val
	}
	a, err := f.articles.Create(context.Background(), f.session(), v)
	if err != nil {
		f.t.Fatalf("create article %q: %v", title, err)
	}
	return a
}
