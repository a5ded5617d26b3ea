/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xoviat/jsym/lib"
)

var (
	footprint    string
	datasheet    string
	libraryName  string
	outputDir    string
	partsDB      string
	skipExisting bool
)

// symbolCmd represents the symbol command
var symbolCmd = &cobra.Command{
	Use:   "symbol <LCSC id> [<LCSC id> ...]",
	Short: "Create or update library symbols for LCSC parts.",
	Long: `Create or update library symbols for LCSC parts.

Each part is fetched from the EasyEDA parts service, rendered as one
symbol record (multi-unit packages become numbered units), and merged
into the target .kicad_sym library. A part that is already present is
replaced in place unless --skip-existing is given.

With --parts-db pointing at a jlcparts SQLite snapshot, the value,
datasheet, and manufacturer fields are enriched from it.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eda := lib.NewEasyEDA()
		generator := lib.NewSymbolGenerator(eda, lib.NewShapeRegistry(log), log)

		for _, id := range args {
			uuids, err := eda.SymbolComponents(id)
			if err != nil {
				log.Errorw("failed to resolve product", "id", id, "error", err)
				continue
			}

			err = generator.CreateSymbol(lib.SymbolOptions{
				ComponentUUIDs: uuids,
				ComponentID:    id,
				Footprint:      footprint,
				Datasheet:      datasheet,
				LibraryName:    libraryName,
				OutputDir:      outputDir,
				PartsDB:        partsDB,
				SkipExisting:   skipExisting,
			})
			if err != nil {
				log.Errorw("failed to create symbol", "id", id, "error", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(symbolCmd)

	symbolCmd.Flags().StringVarP(&footprint, "footprint", "f", "", "footprint reference to set on the symbol")
	symbolCmd.Flags().StringVarP(&datasheet, "datasheet", "d", "", "fallback datasheet link")
	symbolCmd.Flags().StringVarP(&libraryName, "library", "l", "", "library name (defaults to the symbol name)")
	symbolCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "directory for .kicad_sym files")
	symbolCmd.Flags().StringVar(&partsDB, "parts-db", "", "jlcparts SQLite snapshot for enrichment")
	symbolCmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "leave symbols that already exist untouched")
}
