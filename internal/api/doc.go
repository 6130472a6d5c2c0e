// Package api exposes a dashboard session over a small local JSON API.
//
// Routes are registered on a gorilla/mux router. Handlers hold a server-wide
// mutex so session actions run one at a time, which keeps a live toggle from
// interleaving with a page render.
package api
