package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the resolved backend, grid and normalization",
	RunE: func(cmd *cobra.Command, args []string) error {
		oper, err := newOperators(cmd)
		if err != nil {
			return err
		}
		lats := oper.Lats()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "backend     %s\n", oper.TypeSHT())
		fmt.Fprintf(w, "convention  %s\n", oper.Convention())
		fmt.Fprintf(w, "grid        %s nlat=%d nlon=%d\n", oper.GridType(), oper.Nlat(), oper.Nlon())
		fmt.Fprintf(w, "truncation  lmax=%d mmax=%d mres=%d nlm=%d\n", oper.Lmax(), oper.Mmax(), oper.Grid().Mres, oper.NLM())
		fmt.Fprintf(w, "radius      %g\n", oper.Radius())
		fmt.Fprintf(w, "latitudes   %.4f .. %.4f\n", lats[0], lats[len(lats)-1])
		return nil
	},
}
