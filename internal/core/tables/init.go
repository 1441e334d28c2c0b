// Package tables defines the news catalog entities and registers them with
// the core registry. Import this package to ensure all tables are registered.
package tables

import "github.com/JonMunkholm/newsroom/internal/core"

func init() {
	core.Register(Presses.Resource())
	core.Register(Articles.Resource())
	core.Register(Comments.Resource())
}
