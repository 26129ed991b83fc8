// Package render turns wizard snapshots and action outcomes into plain text
// summaries using pongo2 templates. Default templates are embedded; callers
// can shadow them with their own directory or fs.FS.
package render
