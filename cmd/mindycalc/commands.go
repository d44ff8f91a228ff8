package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	infoColor  = color.New(color.FgYellow)
	okColor    = color.New(color.FgGreen, color.Bold)
)

func resolveCmd() *cobra.Command {
	var rate float64

	cmd := &cobra.Command{
		Use:   "resolve <target>",
		Short: "Resources and power per second to produce a unit at a rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := eng.ResolveInputs(rates.ResolveInputsRequest{Target: args[0], RatePerMinute: rate})
			if err != nil {
				return err
			}

			titleColor.Printf("%s at %s/min\n", resp.Target, formatRate(resp.RatePerMinute))
			printPath(resp.Path)
			fmt.Println()

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Resource", "Per second", "Per minute"}),
			)
			for _, name := range resp.Ledger.Keys() {
				v := resp.Ledger[name]
				_ = table.Append([]string{name, formatRate(v), formatRate(v * 60)})
			}
			_ = table.Render()
			return nil
		},
	}

	cmd.Flags().Float64VarP(&rate, "rate", "r", 1, "Target units per minute")
	return cmd
}

func factoriesCmd() *cobra.Command {
	var (
		rate     float64
		resource string
	)

	cmd := &cobra.Command{
		Use:   "factories <block>",
		Short: "Number of factories or drills needed for an output rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := eng.RequiredFactories(rates.RequiredFactoriesRequest{
				Block: args[0], Rate: rate, Resource: resource,
			})
			if err != nil {
				return err
			}

			okColor.Printf("%s x %s\n", formatRate(resp.Count), resp.Block)
			infoColor.Printf("for %s %s per second\n", formatRate(resp.Rate), resp.Resource)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&rate, "rate", "r", 1, "Target output per second")
	cmd.Flags().StringVar(&resource, "resource", "", "Output to count for on multi-output blocks")
	return cmd
}

func fireRateCmd() *cobra.Command {
	var (
		ammo    string
		coolant string
		heat    float64
	)

	cmd := &cobra.Command{
		Use:   "fire-rate <turret>",
		Short: "Ammo items or shots per second of a turret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := eng.FireRate(rates.FireRateRequest{
				Turret: args[0], Ammo: ammo, Coolant: coolant, Heat: heat,
			})
			if err != nil {
				return err
			}

			if resp.Discrete {
				okColor.Printf("%s: %s %s per second\n", resp.Turret, formatRate(resp.Rate), resp.Ammo)
			} else {
				okColor.Printf("%s: %s shots per second\n", resp.Turret, formatRate(resp.Rate))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ammo, "ammo", "", "Ammo item")
	cmd.Flags().StringVar(&coolant, "coolant", "", "Coolant fluid")
	cmd.Flags().Float64Var(&heat, "heat", 0, "Heat supplied to a heat-scaled turret")
	return cmd
}

func outputCmd() *cobra.Command {
	var (
		heat    float64
		coolant string
		variant int
		boosted bool
	)

	cmd := &cobra.Command{
		Use:   "output <block>",
		Short: "Per-second inputs and outputs of a factory, drill or generator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}

			// --boosted picks the drill's own boost fluid
			if boosted && coolant == "" {
				if b, err := eng.Catalog().FindBlock(args[0]); err == nil && b.Drill != nil && b.Drill.Coolant != nil {
					coolant = b.Drill.Coolant.Resource
				}
			}

			resp, err := eng.OutputRate(rates.OutputRateRequest{
				Block: args[0], Heat: heat, Coolant: coolant, Variant: variant,
			})
			if err != nil {
				return err
			}

			titleColor.Println(resp.Block)
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Side", "Resource", "Per second"}),
			)
			for _, name := range resp.Inputs.Names() {
				_ = table.Append([]string{"in", name, formatRate(resp.Inputs[name])})
			}
			for _, name := range resp.Outputs.Names() {
				_ = table.Append([]string{"out", name, formatRate(resp.Outputs[name])})
			}
			_ = table.Render()
			return nil
		},
	}

	cmd.Flags().Float64Var(&heat, "heat", 0, "Heat supplied to a heat-scaled factory")
	cmd.Flags().StringVar(&coolant, "coolant", "", "Boost fluid for a drill")
	cmd.Flags().IntVar(&variant, "variant", 0, "Generator recipe variant")
	cmd.Flags().BoolVar(&boosted, "boosted", false, "Boost a drill with its own coolant")
	return cmd
}

func producersCmd() *cobra.Command {
	var world string

	cmd := &cobra.Command{
		Use:   "producers <resource>",
		Short: "Blocks that produce a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := eng.FindProducers(rates.FindProducersRequest{Resource: args[0], World: world})
			if err != nil {
				return err
			}

			titleColor.Printf("%s (%s)\n", resp.Resource, resp.World)
			if len(resp.Producers) == 0 {
				infoColor.Println("no producing blocks")
				return nil
			}
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Block", "World", "Kind", "Tier"}),
			)
			for _, p := range resp.Producers {
				_ = table.Append([]string{p.Name, p.World.String(), string(p.Kind), formatTier(p.Tier)})
			}
			_ = table.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&world, "world", "w", "all", "World: serpulo, erekir or all")
	return cmd
}

func pathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <unit>",
		Short: "Upgrade chain of a unit down to its root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			path, err := eng.UpgradePath(rates.UpgradePathRequest{Unit: args[0]})
			if err != nil {
				return err
			}
			printPath(*path)
			return nil
		},
	}
}

func prioritiesCmd() *cobra.Command {
	var (
		world    string
		resource string
	)

	cmd := &cobra.Command{
		Use:   "priorities",
		Short: "Resource priority tiers of a world",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := eng.PriorityTiers(rates.PriorityTiersRequest{World: world, Resource: resource})
			if err != nil {
				return err
			}

			titleColor.Printf("Priorities (%s)\n", resp.World)
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Tier", "Resources"}),
			)
			for i, tier := range resp.Tiers {
				_ = table.Append([]string{formatTier(i), strings.Join(tier, ", ")})
			}
			_ = table.Render()

			if resp.Tier != nil {
				infoColor.Printf("%s: %s\n", resource, formatTier(*resp.Tier))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&world, "world", "w", "serpulo", "World: serpulo, erekir or all")
	cmd.Flags().StringVar(&resource, "resource", "", "Report the tier of one resource")
	return cmd
}

func printPath(p rates.UpgradePath) {
	for i, unit := range p.Units {
		factory := "no factory"
		if i < len(p.FactoryNames) {
			factory = p.FactoryNames[i]
		}
		fmt.Printf("  %s <- %s\n", unit, factory)
	}
	if p.End == rates.EndUnverified {
		infoColor.Println("  (root unverified: no factory builds the last unit)")
	}
}

func formatRate(v float64) string {
	return humanize.CommafWithDigits(v, 4)
}

func formatTier(tier int) string {
	if tier < 0 {
		return "unranked"
	}
	return fmt.Sprintf("%d", tier)
}
