// Package reconcile merges live activity into an export diary without
// duplicating films already logged, and grows the watched collection from
// the entries each merge accepts.
package reconcile
