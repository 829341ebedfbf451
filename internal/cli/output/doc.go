// Package output renders command results for dropzone-cli.
//
// Commands produce either a Table they build themselves or a plain
// value; NewFormatter picks the renderer from the --output flag
// (table, json, yaml). Table output goes through text/tabwriter so
// columns line up; json and yaml render the value as-is for
// scripting.
package output
