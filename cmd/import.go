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

var importRoot string

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <parts list>",
	Short: "Import the JLCPCB parts list into the local database.",
	Long: `Import the JLCPCB parts list into the local database.

Accepts the parts list either as the xlsx spreadsheet or as the zip
archive it is distributed in. Imported parts back the search and bom
commands.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src := args[0]
		if !lib.Exists(src) {
			log.Errorw("failed to stat file", "file", src)
			return
		}

		db, err := lib.NewPartsDB(importRoot)
		if err != nil {
			log.Errorw("failed to open parts database", "root", importRoot, "error", err)
			return
		}
		defer db.Close()

		log.Infow("importing parts list", "file", src)
		if err := db.Import(src); err != nil {
			log.Errorw("failed to import parts list", "file", src, "error", err)
			return
		}

		log.Infow("parts list imported")
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importRoot, "db-root", lib.DefaultPartsRoot(), "parts database directory")
}
