// Package loader mounts HTTP features on the Fiber app.
//
// A Feature names itself, reports whether it is enabled and registers its
// routes in Load. The Manager loads enabled features in registration order
// and returns the names it loaded, so startup can log what is being served.
package loader
