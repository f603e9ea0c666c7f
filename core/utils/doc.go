// Package utils provides value conversions shared by the importer: driver
// values to Go scalars and the loose comparison used by change detection.
package utils
