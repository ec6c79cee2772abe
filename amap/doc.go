// Package amap is a minimal client for the AMap (Gaode) web service bus
// endpoints: line search by keyword and line detail by id.
//
// The client only covers what the exporter needs. Responses are decoded into
// plain structs; coordinate strings are left in the provider's GCJ-02 frame
// and converted by the caller.
package amap
