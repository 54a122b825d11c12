// Package api defines the request and response messages of the
// splitly.v1.GroupService RPC API.
//
// Messages are plain structs serialized as JSON. Request messages carry
// validate tags checked by the service before any storage access.
// Every request scoped to a group exposes GetGroupId so interceptors can
// authorize it without knowing the concrete type.
package api
