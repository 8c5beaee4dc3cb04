//go:build windows

package scanner

import "github.com/blackwell-systems/shortrun/internal/registry"

// defaultHives covers the three scopes applications register uninstall
// records under: the machine hive in both registry views, plus the per-user
// hive. The machine scopes are readable without elevation on stock systems;
// when policy blocks one, its diagnostic carries the error and the others
// still run.
func defaultHives() []Hive {
	return []Hive{
		{Name: "uninstall-machine", Repo: registry.NewMachineRepo()},
		{Name: "uninstall-machine32", Repo: registry.NewMachineRepo32()},
		{Name: "uninstall-user", Repo: registry.NewUserRepo()},
	}
}
