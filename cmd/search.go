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
	"strings"

	"github.com/spf13/cobra"
	"github.com/xoviat/jsym/lib"
)

var searchRoot string

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <text> ...",
	Short: "Search the local parts database.",
	Long:  `Search the descriptions of imported parts and print the matches.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		db, err := lib.NewPartsDB(searchRoot)
		if err != nil {
			log.Errorw("failed to open parts database", "root", searchRoot, "error", err)
			return
		}
		defer db.Close()

		components := db.Find(strings.Join(args, " "))
		if len(components) == 0 {
			fmt.Println("no matching parts")
			return
		}

		for _, component := range components {
			fmt.Printf("%-10s %-10s %-20s %s\n",
				component.ID, component.Package, component.MFRPart, component.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchRoot, "db-root", lib.DefaultPartsRoot(), "parts database directory")
}
