// Package module turns one validated algorithm module configuration into a
// Descriptor: the module's capability type, implementation name, optional
// source location and its expanded hyperparameter sets.
//
// A Descriptor resolves a capability to an invocable implementation in one
// of two ways. When a source location is configured, the source is loaded
// (once per Descriptor) through the injected Loader, which registers its
// implementations into the injected registry, and the registered
// constructor is applied to one hyperparameter set. Without a source
// location the hard example mining capability falls back to a BuiltinMethod
// description handled by the caller; the base model capability has no
// built-in fallback.
//
// Resolution dispatch is a fixed table from capability type to resolution
// method; requesting any other capability fails with
// UnsupportedCapabilityError.
package module
