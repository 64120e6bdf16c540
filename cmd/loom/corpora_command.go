package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"loom/internal/corpus"
)

func newCorporaCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "corpora",
		Short:       "List supported corpus definitions",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(corpus.Names()))
			for _, name := range corpus.Names() {
				def, _ := corpus.Get(name)
				rows = append(rows, []string{
					def.Name,
					def.Language,
					micsColumn(def),
					schemesColumn(def),
					def.Description,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Corpus", "Language", "Mics", "Schemes", "Description"},
				rows))
			return nil
		},
	}
}

func micsColumn(def corpus.Definition) string {
	if len(def.Mics) == 0 {
		return "-"
	}
	return strings.Join(def.Mics, ", ")
}

func schemesColumn(def corpus.Definition) string {
	if len(def.Schemes) == 0 {
		return "-"
	}
	names := make([]string, 0, len(def.Schemes))
	for name := range def.Schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
