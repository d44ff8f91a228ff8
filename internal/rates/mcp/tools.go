package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nemo-from-greece/Mindycalc2/internal/rates/engine"
	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// ToolDefinition describes an MCP tool.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema JSONSchema `json:"inputSchema"`
}

// JSONSchema is a simplified JSON Schema representation.
type JSONSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a schema property.
type Property struct {
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
}

var worldEnum = []string{"serpulo", "erekir", "all"}

// GetToolDefinitions returns all tool definitions.
func GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		resolveInputsTool(),
		requiredFactoriesTool(),
		fireRateTool(),
		outputRateTool(),
		findProducersTool(),
		upgradePathTool(),
		priorityTiersTool(),
		catalogLookupTool(),
	}
}

func resolveInputsTool() ToolDefinition {
	minRate := 0.0

	return ToolDefinition{
		Name:        "resolve_inputs",
		Description: "Compute the per-second resource and power requirements for producing a unit (or other factory product) at a target rate, walking the full upgrade path back to the root unit.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"target": {
					Type:        "string",
					Description: "Unit or product name, e.g. Zenith",
				},
				"rate_per_minute": {
					Type:        "number",
					Description: "Desired output in units per minute",
					Minimum:     &minRate,
				},
			},
			Required: []string{"target", "rate_per_minute"},
		},
	}
}

func requiredFactoriesTool() ToolDefinition {
	minRate := 0.0

	return ToolDefinition{
		Name:        "required_factories",
		Description: "How many copies of a factory or drill are needed to produce a resource at a target rate (per second). Fractional counts are returned as-is.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"block": {
					Type:        "string",
					Description: "Factory or drill name",
				},
				"rate": {
					Type:        "number",
					Description: "Target output per second",
					Minimum:     &minRate,
				},
				"resource": {
					Type:        "string",
					Description: "Output to count for; required when the block has several outputs",
				},
			},
			Required: []string{"block", "rate"},
		},
	}
}

func fireRateTool() ToolDefinition {
	return ToolDefinition{
		Name:        "fire_rate",
		Description: "Ammo consumption (items per second) of an item-ammo turret, or shots per second of a fluid, heat or power turret.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"turret": {
					Type:        "string",
					Description: "Turret name",
				},
				"ammo": {
					Type:        "string",
					Description: "Ammo item; may be omitted when the turret accepts only one",
				},
				"coolant": {
					Type:        "string",
					Description: "Coolant fluid, e.g. Water or Cryofluid",
				},
				"heat": {
					Type:        "number",
					Description: "Heat supplied to a heat-scaled turret",
					Default:     0,
				},
			},
			Required: []string{"turret"},
		},
	}
}

func outputRateTool() ToolDefinition {
	minVariant := 0.0

	return ToolDefinition{
		Name:        "output_rate",
		Description: "Per-second inputs and outputs of one factory, drill or generator.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"block": {
					Type:        "string",
					Description: "Factory, drill or generator name",
				},
				"heat": {
					Type:        "number",
					Description: "Heat supplied to a heat-scaled factory",
					Default:     0,
				},
				"coolant": {
					Type:        "string",
					Description: "Boost fluid for a drill",
				},
				"variant": {
					Type:        "integer",
					Description: "Recipe variant of a multi-recipe generator",
					Default:     0,
					Minimum:     &minVariant,
				},
			},
			Required: []string{"block"},
		},
	}
}

func findProducersTool() ToolDefinition {
	return ToolDefinition{
		Name:        "find_producers",
		Description: "List the blocks that produce a resource, with the resource's priority tier.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"resource": {
					Type:        "string",
					Description: "Resource name",
				},
				"world": {
					Type:        "string",
					Description: "World to search; all searches both",
					Enum:        worldEnum,
					Default:     "all",
				},
			},
			Required: []string{"resource"},
		},
	}
}

func upgradePathTool() ToolDefinition {
	return ToolDefinition{
		Name:        "upgrade_path",
		Description: "Upgrade chain of a unit from the unit itself down to its root ancestor, with the factory that builds each step.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"unit": {
					Type:        "string",
					Description: "Unit name",
				},
			},
			Required: []string{"unit"},
		},
	}
}

func priorityTiersTool() ToolDefinition {
	return ToolDefinition{
		Name:        "priority_tiers",
		Description: "Resource priority tiers of a world, tier 0 first. With a resource, also returns its tier (-1 if unranked).",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"world": {
					Type:        "string",
					Description: "World name",
					Enum:        worldEnum,
				},
				"resource": {
					Type:        "string",
					Description: "Resource whose tier to report",
				},
			},
			Required: []string{"world"},
		},
	}
}

func catalogLookupTool() ToolDefinition {
	return ToolDefinition{
		Name:        "catalog_lookup",
		Description: "Look up every catalog record (resources, block, unit) with the given name.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"name": {
					Type:        "string",
					Description: "Record name",
				},
				"world": {
					Type:        "string",
					Description: "Restrict resource matches to one world",
					Enum:        worldEnum,
				},
			},
			Required: []string{"name"},
		},
	}
}

// toolHandler runs one tool against an engine.
type toolHandler func(eng *engine.Engine, args json.RawMessage) (any, error)

var toolHandlers = map[string]toolHandler{
	"resolve_inputs": func(eng *engine.Engine, args json.RawMessage) (any, error) {
		var req rates.ResolveInputsRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return eng.ResolveInputs(req)
	},
	"required_factories": func(eng *engine.Engine, args json.RawMessage) (any, error) {
		var req rates.RequiredFactoriesRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return eng.RequiredFactories(req)
	},
	"fire_rate": func(eng *engine.Engine, args json.RawMessage) (any, error) {
		var req rates.FireRateRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return eng.FireRate(req)
	},
	"output_rate": func(eng *engine.Engine, args json.RawMessage) (any, error) {
		var req rates.OutputRateRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return eng.OutputRate(req)
	},
	"find_producers": func(eng *engine.Engine, args json.RawMessage) (any, error) {
		var req rates.FindProducersRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return eng.FindProducers(req)
	},
	"upgrade_path": func(eng *engine.Engine, args json.RawMessage) (any, error) {
		var req rates.UpgradePathRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return eng.UpgradePath(req)
	},
	"priority_tiers": func(eng *engine.Engine, args json.RawMessage) (any, error) {
		var req rates.PriorityTiersRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return eng.PriorityTiers(req)
	},
	"catalog_lookup": func(eng *engine.Engine, args json.RawMessage) (any, error) {
		var req rates.CatalogLookupRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return eng.CatalogLookup(req)
	},
}

// decodeArgs strictly decodes tool arguments. A missing argument object is
// treated as empty.
func decodeArgs(args json.RawMessage, v any) error {
	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}
