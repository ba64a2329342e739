// Package hyperparam expands declared hyperparameter axes into the full list
// of concrete hyperparameter mappings to benchmark.
//
// Expansion is a cartesian product over the named axes. The reserved axis
// "other_hyperparameters" does not take part in the product: its values are
// paths of override files whose mappings are merged, in declaration order,
// into a base mapping shared by every combination. Combination values take
// precedence over the base on key collision.
//
// Every returned mapping is deep-copied, so callers may mutate one
// combination without affecting any other.
package hyperparam
