// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates flags and ALGOGRID_* environment variables into the
// application's internal configuration. Flags take precedence over the
// environment.
package cli
