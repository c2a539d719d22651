package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/rshpount/hermes/pkg/vm"
)

var (
	configPath string
	verbosity  int
)

var rootCmd = &cobra.Command{
	Use:   "hermes-shell",
	Short: "Inspect the hermes object model from the command line",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(verbosity, nil)
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "runtime config file (TOML)")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRuntime() (*vm.Runtime, error) {
	cfg, err := vm.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return vm.NewRuntime(cfg), nil
}

// buildSampleGraph assembles a small object graph that exercises shapes,
// prototypes and arrays, for the demo commands.
func buildSampleGraph(r *vm.Runtime) (*vm.Object, error) {
	proto := r.NewObject(nil)
	if _, err := r.PutNamed(proto, vm.NewStringKey("species"), vm.NewString("point"), vm.ThrowOnError); err != nil {
		return nil, err
	}

	root := r.NewObject(proto)
	if _, err := r.PutNamed(root, vm.NewStringKey("x"), vm.NumberValue(3), vm.ThrowOnError); err != nil {
		return nil, err
	}
	if _, err := r.PutNamed(root, vm.NewStringKey("y"), vm.NumberValue(4), vm.ThrowOnError); err != nil {
		return nil, err
	}

	history := r.NewArray(root.Parent(), 0)
	if _, err := r.PutComputed(history, vm.NumberValue(0), vm.NumberValue(3), vm.ThrowOnError); err != nil {
		return nil, err
	}
	if _, err := r.PutComputed(history, vm.NumberValue(1), vm.NumberValue(4), vm.ThrowOnError); err != nil {
		return nil, err
	}
	if _, err := r.PutNamed(root, vm.NewStringKey("history"), vm.ObjectValue(history), vm.ThrowOnError); err != nil {
		return nil, err
	}

	return root, nil
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Run a property-access workload and report cache behavior",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRuntime()
		if err != nil {
			return err
		}

		root, err := buildSampleGraph(r)
		if err != nil {
			return err
		}
		cache := vm.NewPropertyCache()
		xKey := vm.NewStringKey("x")
		for i := 0; i < 10000; i++ {
			if _, err := r.GetNamedWithCache(root, xKey, vm.PropOpFlags{}, cache); err != nil {
				return err
			}
		}
		for i := 0; i < 100; i++ {
			if _, err := r.GetForInPropertyNames(root); err != nil {
				return err
			}
		}

		stats := r.Stats()
		heading := color.New(color.FgCyan, color.Bold)
		heading.Println("property cache")
		fmt.Printf("  mono hits:  %d\n", stats.MonoHits)
		fmt.Printf("  poly hits:  %d\n", stats.PolyHits)
		fmt.Printf("  misses:     %d\n", stats.Misses)
		fmt.Printf("  fills:      %d\n", stats.Fills)
		heading.Println("for-in cache")
		fmt.Printf("  hits:       %d\n", stats.ForInHits)
		fmt.Printf("  misses:     %d\n", stats.ForInMisses)
		return nil
	},
}

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Serialize a sample object graph to a snapshot file",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRuntime()
		if err != nil {
			return err
		}
		root, err := buildSampleGraph(r)
		if err != nil {
			return err
		}

		f, err := os.Create(snapshotOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := r.WriteSnapshot(f, root); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		fmt.Printf("snapshot written to %s\n", snapshotOut)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot-file>",
	Short: "Pretty-print a snapshot file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		snap, err := vm.ReadSnapshot(f)
		if err != nil {
			return fmt.Errorf("reading snapshot: %w", err)
		}

		objColor := color.New(color.FgYellow, color.Bold)
		keyColor := color.New(color.FgGreen)
		for _, obj := range snap.Objects {
			objColor.Printf("object #%d", obj.ID)
			if obj.Parent != 0 {
				fmt.Printf(" -> #%d", obj.Parent)
			}
			if !obj.Extensible {
				fmt.Print(" (non-extensible)")
			}
			fmt.Println()
			for _, el := range obj.Elements {
				keyColor.Printf("  [%d]", el.Index)
				fmt.Printf(" = %s\n", formatSnapshotValue(el.Value))
			}
			for _, prop := range obj.Properties {
				keyColor.Printf("  %s", prop.Name)
				fmt.Printf(" = %s\n", formatSnapshotValue(prop.Value))
			}
		}
		return nil
	},
}

func formatSnapshotValue(v vm.SnapshotValue) string {
	switch v.Kind {
	case "number":
		return fmt.Sprintf("%v", v.Num)
	case "boolean":
		return fmt.Sprintf("%v", v.Num != 0)
	case "string":
		return fmt.Sprintf("%q", v.Str)
	case "symbol":
		return fmt.Sprintf("Symbol(%s)", v.Str)
	case "object":
		return fmt.Sprintf("#%d", v.Ref)
	default:
		return v.Kind
	}
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "snapshot.bin", "output file")
}
