//go:build !windows

package scanner

// No uninstall hives exist off Windows; discovery degrades to the start-menu
// walk (which is also empty unless the environment roots are set).
func defaultHives() []Hive {
	return nil
}
