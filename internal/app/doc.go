// Package app contains the core application logic. It wires the registry,
// the source loader and the configuration loaders together, builds one
// module descriptor per configured module and reports the expanded
// hyperparameter sets, decoupled from any specific entrypoint like a CLI.
package app
