// Package rates contains the core types for the production-rate calculator.
package rates

import (
	"fmt"
	"sort"
	"strings"
)

// ============================================
// WORLD
// ============================================

// World is one of the two disjoint game zones.
// AllWorlds is the union view used when a name exists on both.
type World int

const (
	Serpulo   World = 0
	Erekir    World = 1
	AllWorlds World = -1
)

// Worlds returns the concrete worlds in tag order.
func Worlds() []World {
	return []World{Serpulo, Erekir}
}

// String returns the lower-case world name.
func (w World) String() string {
	switch w {
	case Serpulo:
		return "serpulo"
	case Erekir:
		return "erekir"
	case AllWorlds:
		return "all"
	default:
		return fmt.Sprintf("world(%d)", int(w))
	}
}

// ParseWorld parses a world name. "all" and "mixtech" select the union view.
func ParseWorld(s string) (World, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "serpulo", "0":
		return Serpulo, nil
	case "erekir", "1":
		return Erekir, nil
	case "all", "mixtech", "":
		return AllWorlds, nil
	}
	return 0, fmt.Errorf("unknown world %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (w World) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *World) UnmarshalText(text []byte) error {
	parsed, err := ParseWorld(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// ============================================
// RESOURCE TYPES
// ============================================

// ResourceKind distinguishes discrete items from fluids.
type ResourceKind string

const (
	KindItem  ResourceKind = "item"
	KindFluid ResourceKind = "fluid"
)

// Resource is an item or a fluid. Identity is (Name, World).
type Resource struct {
	Name      string       `json:"name" yaml:"name"`
	World     World        `json:"world" yaml:"world"`
	Kind      ResourceKind `json:"kind" yaml:"kind"`
	Image     string       `json:"image,omitempty" yaml:"image,omitempty"`
	Producers []string     `json:"producers,omitempty" yaml:"producers,omitempty"`

	// Item only.
	Minable   bool `json:"minable,omitempty" yaml:"minable,omitempty"`
	AllDrills bool `json:"all_drills,omitempty" yaml:"all_drills,omitempty"`

	// Fluid only.
	Gas      bool `json:"gas,omitempty" yaml:"gas,omitempty"`
	AllPumps bool `json:"all_pumps,omitempty" yaml:"all_pumps,omitempty"`
}

// Unit is a buildable unit. Its recipe lives on the UnitFactory that builds it.
type Unit struct {
	Name  string `json:"name" yaml:"name"`
	World World  `json:"world" yaml:"world"`
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
}

// Recipe maps a resource name to an amount.
type Recipe map[string]float64

// Names returns the recipe's resource names in sorted order so that
// summation over a recipe is reproducible.
func (r Recipe) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HeatScaling speeds a block up as heat is supplied. Expr is evaluated with
// the single variable `heat` and the result is capped at Max.
type HeatScaling struct {
	Max  float64 `json:"max" yaml:"max"`
	Expr string  `json:"expr" yaml:"expr"`
}

// ============================================
// BLOCK TYPES
// ============================================

// BlockKind tags the variant carried by a Block.
type BlockKind string

const (
	KindBlock       BlockKind = "block"
	KindPump        BlockKind = "pump"
	KindTurret      BlockKind = "turret"
	KindGenerator   BlockKind = "generator"
	KindFactory     BlockKind = "factory"
	KindDrill       BlockKind = "drill"
	KindUnitFactory BlockKind = "unit_factory"
)

// Block is the shared base of every block record. Exactly one variant
// pointer matching Kind is set (none for KindBlock).
type Block struct {
	Name  string    `json:"name" yaml:"name"`
	World World     `json:"world" yaml:"world"`
	Kind  BlockKind `json:"kind" yaml:"kind"`
	Power float64   `json:"power,omitempty" yaml:"power,omitempty"`
	Image string    `json:"image,omitempty" yaml:"image,omitempty"`

	Pump        *Pump        `json:"pump,omitempty" yaml:"pump,omitempty"`
	Turret      *Turret      `json:"turret,omitempty" yaml:"turret,omitempty"`
	Generator   *Generator   `json:"generator,omitempty" yaml:"generator,omitempty"`
	Factory     *Factory     `json:"factory,omitempty" yaml:"factory,omitempty"`
	Drill       *Drill       `json:"drill,omitempty" yaml:"drill,omitempty"`
	UnitFactory *UnitFactory `json:"unit_factory,omitempty" yaml:"unit_factory,omitempty"`
}

// Pump extracts fluid from the tiles it covers.
type Pump struct {
	Speed  float64 `json:"speed" yaml:"speed"`
	Inputs Recipe  `json:"inputs,omitempty" yaml:"inputs,omitempty"`
}

// CoolantEffect is what a coolant does to a turret.
type CoolantEffect struct {
	Flow     float64 `json:"flow" yaml:"flow"`
	FireRate float64 `json:"fire_rate" yaml:"fire_rate"`
}

// AmmoEffect is what an ammo item does to a turret.
type AmmoEffect struct {
	RateMultiplier float64 `json:"rate_multiplier" yaml:"rate_multiplier"`
	AmmoPerShot    float64 `json:"ammo_per_shot" yaml:"ammo_per_shot"`
}

// Turret fires bursts of shots. Times are in ticks.
type Turret struct {
	ReloadTime      float64                  `json:"reload_time" yaml:"reload_time"`
	Burst           int                      `json:"burst" yaml:"burst"`
	IntraBurstDelay float64                  `json:"intra_burst_delay,omitempty" yaml:"intra_burst_delay,omitempty"`
	FluidAmmo       bool                     `json:"fluid_ammo,omitempty" yaml:"fluid_ammo,omitempty"`
	Coolant         map[string]CoolantEffect `json:"coolant,omitempty" yaml:"coolant,omitempty"`
	Fluids          Recipe                   `json:"fluids,omitempty" yaml:"fluids,omitempty"`
	Ammo            map[string]AmmoEffect    `json:"ammo,omitempty" yaml:"ammo,omitempty"`
	AmmoUse         float64                  `json:"ammo_use,omitempty" yaml:"ammo_use,omitempty"`
	// PerBullet consumes AmmoUse for every bullet of the burst instead of once per burst.
	PerBullet   bool         `json:"per_bullet,omitempty" yaml:"per_bullet,omitempty"`
	HeatScaling *HeatScaling `json:"heat_scaling,omitempty" yaml:"heat_scaling,omitempty"`
}

// UsesDiscreteAmmo reports whether the turret consumes counted ammo items.
func (t *Turret) UsesDiscreteAmmo() bool {
	return !t.FluidAmmo && t.HeatScaling == nil && len(t.Ammo) > 0
}

// GeneratorRecipe is one fuel option of a generator.
type GeneratorRecipe struct {
	Inputs  Recipe `json:"inputs" yaml:"inputs"`
	Outputs Recipe `json:"outputs" yaml:"outputs"`
}

// Generator burns one of several recipes for power. ProductionTime is in ticks.
type Generator struct {
	Variants       []GeneratorRecipe `json:"variants" yaml:"variants"`
	ProductionTime float64           `json:"production_time" yaml:"production_time"`
}

// MultiRecipe reports whether the generator has more than one fuel option.
func (g *Generator) MultiRecipe() bool {
	return len(g.Variants) > 1
}

// Factory turns Inputs into Outputs every Time ticks.
type Factory struct {
	Inputs      Recipe       `json:"inputs" yaml:"inputs"`
	Outputs     Recipe       `json:"outputs" yaml:"outputs"`
	Time        float64      `json:"time" yaml:"time"`
	HeatScaling *HeatScaling `json:"heat_scaling,omitempty" yaml:"heat_scaling,omitempty"`
}

// DrillCycle is the fixed cycle reference of a drill, in ticks.
const DrillCycle = 60

// DrillCoolant is the optional boost fluid of a drill.
type DrillCoolant struct {
	Resource string  `json:"resource" yaml:"resource"`
	FeedRate float64 `json:"feed_rate" yaml:"feed_rate"`
	Boost    float64 `json:"boost" yaml:"boost"`
}

// Drill extracts Drillables at the listed speeds.
type Drill struct {
	Inputs     Recipe        `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Drillables Recipe        `json:"drillables" yaml:"drillables"`
	Coolant    *DrillCoolant `json:"coolant,omitempty" yaml:"coolant,omitempty"`
}

// AsFactory views the drill as a factory with a DrillCycle cycle.
func (d *Drill) AsFactory() *Factory {
	return &Factory{Inputs: d.Inputs, Outputs: d.Drillables, Time: DrillCycle}
}

// UnitFactory builds units. Tree maps each producible name to the name it is
// upgraded from ("" for a root unit). Build times are in seconds, either one
// shared BuildTime or per-name BuildTimes.
type UnitFactory struct {
	Tree       map[string]string  `json:"tree" yaml:"tree"`
	Recipes    map[string]Recipe  `json:"recipes" yaml:"recipes"`
	BuildTime  float64            `json:"build_time,omitempty" yaml:"build_time,omitempty"`
	BuildTimes map[string]float64 `json:"build_times,omitempty" yaml:"build_times,omitempty"`
}

// TimeFor returns the build time of the named unit.
func (u *UnitFactory) TimeFor(name string) float64 {
	if t, ok := u.BuildTimes[name]; ok {
		return t
	}
	return u.BuildTime
}

// Produces reports whether the factory's tree contains name.
func (u *UnitFactory) Produces(name string) bool {
	_, ok := u.Tree[name]
	return ok
}

// ============================================
// RESOLUTION TYPES
// ============================================

// PowerKey is the ledger key that carries the power total.
const PowerKey = "power"

// Ledger maps a resource name to its required rate per second.
type Ledger map[string]float64

// Keys returns the ledger keys in sorted order.
func (l Ledger) Keys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PathEnd says how an upgrade path terminated.
type PathEnd string

const (
	// EndRoot means the last unit's factory lists no predecessor.
	EndRoot PathEnd = "root"
	// EndUnverified means no factory produces the last unit, so it could
	// not be confirmed as a root.
	EndUnverified PathEnd = "unverified-root"
)

// UpgradePath runs from the target unit down to its root ancestor.
// Factories[i] builds Units[i]; for an EndUnverified path the last unit has
// no factory, so Factories is one shorter than Units.
type UpgradePath struct {
	Units     []string       `json:"units"`
	Factories []*UnitFactory `json:"-"`
	// FactoryNames mirrors Factories by block name.
	FactoryNames []string `json:"factories"`
	End          PathEnd  `json:"end"`
}

// RateSides is a block's per-second inputs and outputs.
type RateSides struct {
	Inputs  Recipe `json:"inputs"`
	Outputs Recipe `json:"outputs"`
}

// ============================================
// TOOL REQUEST/RESPONSE TYPES
// ============================================

// ResolveInputsRequest is the input for the resolve_inputs tool.
type ResolveInputsRequest struct {
	Target        string  `json:"target"`
	RatePerMinute float64 `json:"rate_per_minute"`
}

// ResolveInputsResponse is the output for the resolve_inputs tool.
type ResolveInputsResponse struct {
	Target        string      `json:"target"`
	RatePerMinute float64     `json:"rate_per_minute"`
	Path          UpgradePath `json:"path"`
	Ledger        Ledger      `json:"ledger"`
}

// RequiredFactoriesRequest is the input for the required_factories tool.
type RequiredFactoriesRequest struct {
	Block    string  `json:"block"`
	Rate     float64 `json:"rate"`
	Resource string  `json:"resource,omitempty"`
}

// RequiredFactoriesResponse is the output for the required_factories tool.
type RequiredFactoriesResponse struct {
	Block    string  `json:"block"`
	Resource string  `json:"resource"`
	Rate     float64 `json:"rate"`
	Count    float64 `json:"count"`
}

// FireRateRequest is the input for the fire_rate tool.
type FireRateRequest struct {
	Turret  string  `json:"turret"`
	Ammo    string  `json:"ammo,omitempty"`
	Coolant string  `json:"coolant,omitempty"`
	Heat    float64 `json:"heat,omitempty"`
}

// FireRateResponse is the output for the fire_rate tool.
type FireRateResponse struct {
	Turret string  `json:"turret"`
	Ammo   string  `json:"ammo,omitempty"`
	Rate   float64 `json:"rate"`
	// Discrete is true when Rate is ammo items per second rather than bursts per second.
	Discrete bool `json:"discrete"`
}

// OutputRateRequest is the input for the output_rate tool.
type OutputRateRequest struct {
	Block   string  `json:"block"`
	Heat    float64 `json:"heat,omitempty"`
	Coolant string  `json:"coolant,omitempty"`
	Variant int     `json:"variant,omitempty"`
}

// OutputRateResponse is the output for the output_rate tool.
type OutputRateResponse struct {
	Block string `json:"block"`
	RateSides
}

// FindProducersRequest is the input for the find_producers tool.
type FindProducersRequest struct {
	Resource string `json:"resource"`
	World    string `json:"world,omitempty"`
}

// ProducerInfo is a lightweight producer description.
type ProducerInfo struct {
	Name  string    `json:"name"`
	World World     `json:"world"`
	Kind  BlockKind `json:"kind"`
	Tier  int       `json:"priority_tier"`
}

// FindProducersResponse is the output for the find_producers tool.
type FindProducersResponse struct {
	Resource  string         `json:"resource"`
	World     World          `json:"world"`
	Producers []ProducerInfo `json:"producers"`
}

// UpgradePathRequest is the input for the upgrade_path tool.
type UpgradePathRequest struct {
	Unit string `json:"unit"`
}

// PriorityTiersRequest is the input for the priority_tiers tool.
type PriorityTiersRequest struct {
	World    string `json:"world"`
	Resource string `json:"resource,omitempty"`
}

// PriorityTiersResponse is the output for the priority_tiers tool.
type PriorityTiersResponse struct {
	World World      `json:"world"`
	Tiers [][]string `json:"tiers"`
	// Tier is the resource's tier when one was asked for, -1 if unranked.
	Tier *int `json:"tier,omitempty"`
}

// CatalogLookupRequest is the input for the catalog_lookup tool.
type CatalogLookupRequest struct {
	Name  string `json:"name"`
	World string `json:"world,omitempty"`
}

// CatalogLookupResponse is the output for the catalog_lookup tool.
type CatalogLookupResponse struct {
	Resources []Resource `json:"resources,omitempty"`
	Block     *Block     `json:"block,omitempty"`
	Unit      *Unit      `json:"unit,omitempty"`
	// BuiltBy is the unit factory whose tree contains Name.
	BuiltBy string `json:"built_by,omitempty"`
}
