package app

import (
	"github.com/specialistvlad/algogrid/internal/hem"
	"github.com/specialistvlad/algogrid/internal/registry"
)

// coreModules are the implementations compiled into the algogrid binary.
var coreModules = []registry.Module{
	hem.Module{},
}
