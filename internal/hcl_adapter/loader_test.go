package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/algogrid/internal/config"
	"github.com/specialistvlad/algogrid/internal/hyperparam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHCL(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "algorithm.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeHCL(t, `
		paradigm = "singletasklearning"

		module "basemodel" {
			name = "FPN"
			url  = "./testalgorithms/fpn.lua"

			hyperparameter "momentum" {
				values = [0.95, 0.5]
			}
			hyperparameter "learning_rate" {
				values = [0.1]
			}
			hyperparameter "other_hyperparameters" {
				values = ["./base.yaml"]
			}
		}

		module "hard_example_mining" {
			name = "IBT"

			hyperparameter "threshold_img" {
				values = [0.9]
			}
			hyperparameter "shape" {
				values = [[3, 3], { w = 5 }]
			}
		}
	`)
	dir := filepath.Dir(path)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, model.Modules, 2)

	assert.Equal(t, &config.Module{
		Type: "basemodel",
		Name: "FPN",
		URL:  filepath.Join(dir, "testalgorithms", "fpn.lua"),
		Hyperparameters: []hyperparam.Axis{
			{Name: "momentum", Values: []any{0.95, 0.5}},
			{Name: "learning_rate", Values: []any{0.1}},
			{Name: "other_hyperparameters", Values: []any{filepath.Join(dir, "base.yaml")}},
		},
	}, model.Modules[0])

	hem := model.Modules[1]
	assert.Equal(t, "hard_example_mining", hem.Type)
	assert.Equal(t, "", hem.URL)
	assert.Equal(t, []any{[]any{3, 3}, map[string]any{"w": 5}}, hem.Hyperparameters[1].Values)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name          string
		content       string
		expectCfgErr  bool
		expectedField string
	}{
		{
			name:    "syntax error",
			content: `module "basemodel" {`,
		},
		{
			name:          "no module block",
			content:       `paradigm = "x"`,
			expectCfgErr:  true,
			expectedField: "modules",
		},
		{
			name: "missing values",
			content: `
				module "basemodel" {
					name = "FPN"
					hyperparameter "lr" {}
				}`,
			expectCfgErr:  true,
			expectedField: "hyperparameter.lr.values",
		},
		{
			name: "values not a list",
			content: `
				module "basemodel" {
					name = "FPN"
					hyperparameter "lr" {
						values = 0.1
					}
				}`,
			expectCfgErr:  true,
			expectedField: "hyperparameter.lr.values",
		},
		{
			name: "values reference unknown variable",
			content: `
				module "basemodel" {
					hyperparameter "lr" {
						values = [var.lr]
					}
				}`,
			expectCfgErr:  true,
			expectedField: "hyperparameter.lr.values",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().Load(context.Background(), writeHCL(t, tc.content))
			require.Error(t, err)
			if !tc.expectCfgErr {
				return
			}
			var cfgErr *config.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.expectedField, cfgErr.Field)
		})
	}
}
