// Package imports runs profile-driven CSV imports.
//
// A Service resolves a profile, opens the CSV (request body or storage
// object), picks the importer strategy and drives reconcile.Reconciler over
// a database.TableStore. Each run produces a Report that is archived to
// object storage when a client is configured. Only one writing run per table
// is allowed at a time; dry runs are not guarded.
//
// HTTP routes are registered under /imports by the Feature.
package imports
