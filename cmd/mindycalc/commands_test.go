package main

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

func TestCommandsAgainstDefaultCatalog(t *testing.T) {
	tests := []struct {
		name    string
		cmd     func() *cobra.Command
		args    []string
		wantErr error
	}{
		{"resolve", resolveCmd, []string{"Zenith", "--rate", "2"}, nil},
		{"factories", factoriesCmd, []string{"Graphite Press", "--rate", "2"}, nil},
		{"fire rate", fireRateCmd, []string{"Duo", "--ammo", "Copper", "--coolant", "Water"}, nil},
		{"output boosted", outputCmd, []string{"Pneumatic Drill", "--boosted"}, nil},
		{"producers", producersCmd, []string{"Graphite"}, nil},
		{"path", pathCmd, []string{"Reign"}, nil},
		{"priorities", prioritiesCmd, []string{"--world", "erekir", "--resource", "Beryllium"}, nil},
		{"unknown unit", pathCmd, []string{"Nope"}, rates.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd()
			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatTier(t *testing.T) {
	if got := formatTier(-1); got != "unranked" {
		t.Errorf("formatTier(-1) = %q", got)
	}
	if got := formatTier(3); got != "3" {
		t.Errorf("formatTier(3) = %q", got)
	}
}
