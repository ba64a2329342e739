// Package loader implements module.Loader: it loads externally supplied
// implementation code and registers what it declares into a registry.
//
// Two source kinds are supported, selected by file extension:
//
//   - .lua scripts run in an embedded Lua interpreter. A script declares
//     implementations by calling register(type, name, factory), where type
//     is a capability type ("basemodel", "hard_example_mining") and factory
//     is a function receiving the hyperparameter table and returning the
//     instance table. Constructed instances are exposed as *Object.
//   - .so Go plugins export a Register function of type
//     func(*registry.Registry) error.
//
// A directory source loads every .lua and .so file below it in lexical
// order. Each absolute file path is loaded at most once per Loader and the outcome is
// remembered, mirroring import caching: descriptors sharing a source do not
// collide with themselves, while two different sources registering the same
// name are reported through registry.ErrAlreadyRegistered.
package loader
