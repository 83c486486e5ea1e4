// Package cli provides the interactive gestor command-line client.
//
// It wires configuration, the local credential store, the REST gateway and
// the session service, restores any persisted session and then runs a REPL.
//
// Commands:
//   - register / login / logout
//   - status: the current session (user, business, role, subscription)
//   - rut <value>: validate and format a Chilean tax id
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
