// Package core provides generic filtering, pagination and create / read /
// update / soft-delete over relational tables.
//
// This package is independent of any transport. Web handlers, CLI tools and
// tests use it the same way: build a session, hand it to a Model operation,
// and let the operation release it.
//
// # Models
//
// Each entity is a plain struct described by a static [Definition]. Field
// descriptors carry the column name, kind, key and foreign-key metadata and
// an accessor returning the address of the backing struct field:
//
//	var Articles = core.NewModel(core.Definition[Article]{
//	    Table: "articles",
//	    Fields: []core.Field[Article]{
//	        {Name: "id", Kind: core.KindInt, PrimaryKey: true, Generated: true,
//	            Addr: func(a *Article) any { return &a.ID }},
//	        {Name: "press_id", Kind: core.KindInt,
//	            References: &core.Reference{Table: "press"},
//	            Addr: func(a *Article) any { return &a.PressID }},
//	        {Name: "title", Kind: core.KindText,
//	            Addr: func(a *Article) any { return &a.Title }},
//	    },
//	})
//
// # Queries
//
// [Query] is an immutable SELECT under construction. [Model.FilterByPeriod],
// [Model.FilterByQuery] and [Model.ByColumn] return new handles; nothing runs
// until a Model operation executes one. Reads always pass through
// [Model.Live], so soft-deleted rows (valid = false) are only visible to
// [Model.Lookup].
//
// # Sessions
//
// Every exported Model operation that takes a *database.Session closes it
// before returning, committing first on success. [Model.ValidateReferences]
// is the exception: it runs inside the caller's unit of work.
//
// # Errors
//
// Failures are *[OpError] values wrapping one of [ErrNotFound],
// [ErrConflict], [ErrUnprocessable] or [ErrInternal]. [MapError] turns them
// into user-facing messages with support codes.
package core
