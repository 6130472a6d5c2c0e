// Package view holds per-view navigation state: page, page size, sort and
// name filter. Applying a state to a collection sorts and slices a copy and
// never changes the stored records.
package view
