// Command filmdash browses Letterboxd export bundles from the terminal.
//
// Every command loads the TOML configuration (see `filmdash config init`),
// selects a profile from the export directory and renders the requested
// collection as a table or, with --json, as indented JSON. Live feed data is
// merged on demand with `filmdash live on`, kept fresh by `filmdash watch`,
// and the same session is exposed over HTTP by `filmdash serve`.
package main
