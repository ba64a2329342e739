// Package hcl_adapter implements config.Loader for algorithm files written
// in HCL:
//
//	module "basemodel" {
//	  name = "FPN"
//	  url  = "./testalgorithms/fpn.lua"
//
//	  hyperparameter "momentum" {
//	    values = [0.95, 0.5]
//	  }
//	  hyperparameter "other_hyperparameters" {
//	    values = ["./base.yaml"]
//	  }
//	}
//
// Hyperparameter blocks keep their declaration order.
package hcl_adapter
