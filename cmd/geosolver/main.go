// geosolver is a command line front end for the constraint solver: it loads
// TOML sketches, solves them, and prints the resulting parameter values.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/parametriq/geosolver/logger"
	"github.com/parametriq/geosolver/sketch"
	"github.com/parametriq/geosolver/solver"
)

var debug bool

func main() {
	root := &cobra.Command{
		Use:   "geosolver",
		Short: "Parametric geometric constraint solver",
		PersistentPreRun: func(*cobra.Command, []string) {
			level := zerolog.InfoLevel
			if debug {
				level = zerolog.DebugLevel
			}
			logger.Set(logger.Logger().Level(level))
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable solve tracing")
	root.AddCommand(solveCmd(), algosCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func solveCmd() *cobra.Command {
	var algoName string
	cmd := &cobra.Command{
		Use:   "solve <sketch.toml>",
		Short: "Solve a sketch and print its parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sk, err := sketch.Load(args[0])
			if err != nil {
				return err
			}
			if algoName != "" {
				sk.Algorithm = algoName
				if _, ok := solver.AlgorithmByName(algoName); !ok {
					return fmt.Errorf("unknown algorithm %q", algoName)
				}
			}

			s := solver.New(args[0])
			m, err := sk.Build(s)
			if err != nil {
				return err
			}
			if err := s.Solve(sketch.MovableGroup); err != nil {
				return err
			}

			names := make([]string, 0, len(m.Points))
			for name := range m.Points {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				p := m.Points[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%s = (%.6g, %.6g, %.6g)\n",
					name, p.X.Val, p.Y.Val, p.Z.Val)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&algoName, "algo", "", "override the sketch's algorithm")
	return cmd
}

func algosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algos",
		Short: "List the available optimization algorithms",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, a := range solver.Algorithms() {
				needs := "function values only"
				switch {
				case a.NeedsHessian:
					needs = "gradient and hessian"
				case a.NeedsJacobian:
					needs = "gradient"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s, options %v\n",
					a.Name, needs, a.Options())
			}
		},
	}
}
