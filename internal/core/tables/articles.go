package tables

import (
	"time"

	"github.com/JonMunkholm/newsroom/internal/core"
)

// Article is a collected news article.
type Article struct {
	ID        int64
	NID       int64 // Upstream news id
	PressID   int64
	Title     string
	URL       string
	Views     int64
	Datetime  time.Time // Publication time
	Valid     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Articles is the model for the articles table.
var Articles = core.NewModel(core.Definition[Article]{
	Table: "articles",
	Label: "Articles",
	Fields: []core.Field[Article]{
		{Name: "id", Kind: core.KindInt, PrimaryKey: true, Generated: true, Addr: func(a *Article) any { return &a.ID }},
		{Name: "nid", Kind: core.KindInt, Addr: func(a *Article) any { return &a.NID }},
		{
			Name:       "press_id",
			Kind:       core.KindInt,
			References: &core.Reference{Table: "press", Live: true},
			Addr:       func(a *Article) any { return &a.PressID },
		},
		{Name: "title", Kind: core.KindText, Addr: func(a *Article) any { return &a.Title }},
		{Name: "url", Kind: core.KindText, Addr: func(a *Article) any { return &a.URL }},
		{Name: "views", Kind: core.KindInt, Addr: func(a *Article) any { return &a.Views }},
		{Name: core.ColumnDatetime, Kind: core.KindTime, Addr: func(a *Article) any { return &a.Datetime }},
		{Name: core.ColumnValid, Kind: core.KindBool, Addr: func(a *Article) any { return &a.Valid }},
		{Name: core.ColumnCreatedAt, Kind: core.KindTime, Addr: func(a *Article) any { return &a.CreatedAt }},
		{Name: core.ColumnUpdatedAt, Kind: core.KindTime, Addr: func(a *Article) any { return &a.UpdatedAt }},
	},
})

// ArticleCreate is the request body for a new article.
type ArticleCreate struct {
	NID      int64     `json:"nid"`
	PressID  int64     `json:"press_id"`
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Datetime time.Time `json:"datetime"`
}

// Fields implements core.Payload.
func (a ArticleCreate) Fields() map[string]any {
	return map[string]any{
		"nid":               a.NID,
		"press_id":          a.PressID,
		"title":             a.Title,
		"url":               a.URL,
		core.ColumnDatetime: a.Datetime,
	}
}

// ArticleUpdate is a partial update; nil fields are left unchanged.
type ArticleUpdate struct {
	PressID *int64  `json:"press_id,omitempty"`
	Title   *string `json:"title,omitempty"`
	URL     *string `json:"url,omitempty"`
	Views   *int64  `json:"views,omitempty"`
}

// Fields implements core.Payload.
func (a ArticleUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if a.PressID != nil {
		fields["press_id"] = *a.PressID
	}
	if a.Title != nil {
		fields["title"] = *a.Title
	}
	if a.URL != nil {
		fields["url"] = *a.URL
	}
	if a.Views != nil {
		fields["views"] = *a.Views
	}
	return fields
}
