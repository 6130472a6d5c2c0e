// Package session owns the state of one dashboard session: the selected
// profile's bundle, per-view navigation and the live data toggle.
//
// Actions on a Session run one at a time. Enabling live data either completes
// the feed check and merge or leaves the bundle untouched; disabling restores
// the diary and watched collections from their load-time snapshots.
package session
