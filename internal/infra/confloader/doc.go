// Package confloader loads server configuration from a YAML file and
// the environment, with env taking priority over file and file over
// defaults. It also provides a filesystem watcher so a running server
// can react to configuration file edits.
package confloader
