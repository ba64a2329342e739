// Package registry maps a (capability namespace, implementation name) pair
// to a constructor.
//
// The Registry is an explicit object. Compiled-in implementations are
// installed through the Module interface at startup; externally supplied
// code is installed by the loader package as a side effect of loading a
// source file. Both paths go through Register, which refuses to overwrite an
// existing entry, so a name collision between two sources is reported
// instead of silently changing which implementation a benchmark runs.
package registry
