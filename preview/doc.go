// Package preview renders accumulated route and stop features into a single
// self-contained Leaflet HTML map over OpenStreetMap tiles.
//
// Routes are drawn with cyclic colors and cyclic lateral offsets so that
// lines sharing a street stay distinguishable. Stops shared by several routes
// are merged into one marker listing every serving route.
package preview
