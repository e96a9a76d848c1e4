package cmd

import (
	"finmap/cmd/client/cmd/auth"
	"finmap/cmd/client/cmd/export"
	"finmap/cmd/client/cmd/mapping"
	"finmap/cmd/client/cmd/pinelabs"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)

	rootCmd.AddCommand(mapping.MappingCmd)
	mapping.MappingCmd.AddCommand(mapping.ListCmd)
	mapping.MappingCmd.AddCommand(mapping.SearchCmd)
	mapping.MappingCmd.AddCommand(mapping.CreateCmd)
	mapping.MappingCmd.AddCommand(mapping.GetCmd)
	mapping.MappingCmd.AddCommand(mapping.UpdateCmd)
	mapping.MappingCmd.AddCommand(mapping.DeleteCmd)

	rootCmd.AddCommand(pinelabs.PineLabsCmd)
	pinelabs.PineLabsCmd.AddCommand(pinelabs.ListCmd)
	pinelabs.PineLabsCmd.AddCommand(pinelabs.SetCmd)
	pinelabs.PineLabsCmd.AddCommand(pinelabs.DeleteCmd)

	rootCmd.AddCommand(export.ExportCmd)
}
