// Package film models export rows as field-keyed records.
//
// Letterboxd exports spell the same concept differently across files (list
// items use "Film Name" or "Title", some files carry "Watched Date"), so Record
// keeps every column and resolves named fields through ordered fallback lookup.
// The package also owns FilmKey normalization, rating parsing, and star
// formatting shared by the repository, reconciler, and views.
package film
