// Package hem holds the built-in hard example mining methods. A hard example
// mining module configured without a url names one of these methods; the
// run dispatches the method name and its hyperparameters here.
//
// Methods are registered in the capability.NamespaceHEM namespace through
// registry.Typed, so their hyperparameters are bound by `hp` tag and an
// unknown hyperparameter is rejected.
package hem
