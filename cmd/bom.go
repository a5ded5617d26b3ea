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
	"fmt"
	"path/filepath"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"
	"github.com/xoviat/jsym/lib"
)

var (
	bomRoot string
	bomOut  string
)

// bomCmd represents the bom command
var bomCmd = &cobra.Command{
	Use:   "bom <placements.csv>",
	Short: "Generate JLCPCB assembly files from a placement export.",
	Long: `Generate JLCPCB assembly files from a placement export.

Each placed component is matched against the local parts database.
Unknown components prompt for a catalog id; the association is
remembered for the next run. Writes bom.csv and cpl.csv to the
output directory.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		db, err := lib.NewPartsDB(bomRoot)
		if err != nil {
			log.Errorw("failed to open parts database", "root", bomRoot, "error", err)
			return
		}
		defer db.Close()

		placed, err := lib.ReadCPL(args[0])
		if err != nil {
			log.Errorw("failed to read placements", "file", args[0], "error", err)
			return
		}

		components := []*lib.BoardComponent{}
		entries := map[string]*lib.BOMEntry{}
		for _, component := range placed {
			lcomponent := db.FindMatching(component)
			if lcomponent == nil {
				fmt.Printf("enter catalog id for %s, %s, %s\n",
					component.Designator, component.Comment, component.Footprint)

				suggestions := []prompt.Suggest{}
				for _, match := range db.Find(component.Comment + " " + component.Footprint) {
					suggestions = append(suggestions, prompt.Suggest{
						Text:        match.ID,
						Description: match.Description,
					})
				}

				id := prompt.Input("> ", func(d prompt.Document) []prompt.Suggest {
					return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
				})
				if id == "" {
					log.Warnw("component skipped", "designator", component.Designator)
					continue
				}

				if err := db.Associate(component, id); err != nil {
					log.Errorw("failed to save association", "error", err)
					continue
				}
				lcomponent = db.FindMatching(component)
				if lcomponent == nil {
					log.Warnw("catalog id not in parts database", "id", id)
					continue
				}
			}

			components = append(components, component)

			if _, ok := entries[lcomponent.ID]; !ok {
				entries[lcomponent.ID] = &lib.BOMEntry{
					Comment:   component.Comment,
					Component: lcomponent,
				}
			}
			entries[lcomponent.ID].Designators = append(
				entries[lcomponent.ID].Designators, component.Designator,
			)
		}

		sentries := []*lib.BOMEntry{}
		for _, entry := range entries {
			sentries = append(sentries, entry)
		}

		if err := lib.WriteBOM(filepath.Join(bomOut, "bom.csv"), sentries); err != nil {
			log.Errorw("failed to write bom", "error", err)
			return
		}
		if err := lib.WriteCPL(filepath.Join(bomOut, "cpl.csv"), components); err != nil {
			log.Errorw("failed to write cpl", "error", err)
			return
		}

		log.Infow("assembly files written", "dir", bomOut, "entries", len(sentries))
	},
}

func init() {
	rootCmd.AddCommand(bomCmd)

	bomCmd.Flags().StringVar(&bomRoot, "db-root", lib.DefaultPartsRoot(), "parts database directory")
	bomCmd.Flags().StringVarP(&bomOut, "output", "o", ".", "directory for bom.csv and cpl.csv")
}
