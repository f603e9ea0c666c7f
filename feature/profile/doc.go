// Package profile defines named import profiles.
//
// A profile binds a CSV layout to a table: which column feeds which
// attribute, how raw text is transformed, which attributes identify a record
// and which rows are left alone. Profiles are read from a YAML file through
// viper, validated with go-playground/validator and turned into a
// reconcile.Config with Profile.Config.
//
// # File Format
//
//	profiles:
//	  - name: users
//	    table: users
//	    key: [email]
//	    match: [id]
//	    strategy: bulk
//	    fields:
//	      - {column: 0, attribute: email, transform: lower, unique: true, required: true}
//	      - {column: 1, attribute: name, transform: trim}
//	      - {column: 2, attribute: balance, transform: decimal}
//
// A built-in "furniture" profile targets the configured emulator's furniture
// table (items_base for Arcturus, furniture for Comet and Plus).
package profile
