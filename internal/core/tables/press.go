package tables

import (
	"time"

	"github.com/JonMunkholm/newsroom/internal/core"
)

// Press is a news publisher. PID is the publisher's id in the upstream
// news portal and matches the keys of lookup.PressDirectory.
type Press struct {
	ID        int64
	PID       int64
	Name      string
	Valid     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Presses is the model for the press table.
var Presses = core.NewModel(core.Definition[Press]{
	Table: "press",
	Label: "Press",
	Fields: []core.Field[Press]{
		{Name: "id", Kind: core.KindInt, PrimaryKey: true, Generated: true, Addr: func(p *Press) any { return &p.ID }},
		{Name: "pid", Kind: core.KindInt, Addr: func(p *Press) any { return &p.PID }},
		{Name: "name", Kind: core.KindText, Addr: func(p *Press) any { return &p.Name }},
		{Name: core.ColumnValid, Kind: core.KindBool, Addr: func(p *Press) any { return &p.Valid }},
		{Name: core.ColumnCreatedAt, Kind: core.KindTime, Addr: func(p *Press) any { return &p.CreatedAt }},
		{Name: core.ColumnUpdatedAt, Kind: core.KindTime, Addr: func(p *Press) any { return &p.UpdatedAt }},
	},
})
