// Package cli provides the cobra command tree for helpsync.
//
// Commands are thin: they load configuration through the injected
// ConfigLoader, build the services through the injected AppFactory and
// drive the core ports. Wiring lives in cmd/helpsync.
package cli
