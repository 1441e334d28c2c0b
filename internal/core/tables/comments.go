package tables

import (
	"time"

	"github.com/JonMunkholm/newsroom/internal/core"
)

// Comment is a reader comment on an article. Comments are never edited
// upstream, so the table has no updated_at and lists order by datetime.
type Comment struct {
	ID        int64
	ArticleID int64
	Author    string
	Body      string
	Likes     int64
	Sentiment float64
	Datetime  time.Time
	Valid     bool
	CreatedAt time.Time
}

// Comments is the model for the comments table.
var Comments = core.NewModel(core.Definition[Comment]{
	Table: "comments",
	Label: "Comments",
	Fields: []core.Field[Comment]{
		{Name: "id", Kind: core.KindInt, PrimaryKey: true, Generated: true, Addr: func(c *Comment) any { return &c.ID }},
		{
			Name:       "article_id",
			Kind:       core.KindInt,
			References: &core.Reference{Table: "articles", Live: true},
			Addr:       func(c *Comment) any { return &c.ArticleID },
		},
		{Name: "author", Kind: core.KindText, Addr: func(c *Comment) any { return &c.Author }},
		{Name: "body", Kind: core.KindText, Addr: func(c *Comment) any { return &c.Body }},
		{Name: "likes", Kind: core.KindInt, Addr: func(c *Comment) any { return &c.Likes }},
		{Name: "sentiment", Kind: core.KindFloat, Addr: func(c *Comment) any { return &c.Sentiment }},
		{Name: core.ColumnDatetime, Kind: core.KindTime, Addr: func(c *Comment) any { return &c.Datetime }},
		{Name: core.ColumnValid, Kind: core.KindBool, Addr: func(c *Comment) any { return &c.Valid }},
		{Name: core.ColumnCreatedAt, Kind: core.KindTime, Addr: func(c *Comment) any { return &c.CreatedAt }},
	},
})
