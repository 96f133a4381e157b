package cli

import (
	"io"
	"slices"
	"strings"

	"github.com/chaz8081/gardnr/internal/config"
	"github.com/chaz8081/gardnr/internal/extras"
	"github.com/chaz8081/gardnr/internal/tech"
	"github.com/spf13/cobra"
)

// techAliases returns every spelling the table classifies as known.
func techAliases(table *tech.Table) []string {
	var out []string
	for _, eco := range table.Ecosystems {
		for _, aliases := range eco.Variants {
			out = append(out, aliases...)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func filterPrefix(items []string, prefix string) []string {
	var out []string
	for _, it := range items {
		if strings.HasPrefix(strings.ToLower(it), strings.ToLower(prefix)) {
			out = append(out, it)
		}
	}
	return out
}

func completeTechs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	table := tech.DefaultTable()
	if a, err := loadApp(io.Discard); err == nil {
		table = a.table
	}
	return filterPrefix(techAliases(table), toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeDatabases(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, 0, len(extras.Databases))
	for _, db := range extras.Databases {
		names = append(names, string(db))
	}
	return filterPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeProjectIDs offers recorded IDs with the project name as the
// description.
func completeProjectIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	a, err := loadApp(io.Discard)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, r := range a.store.List() {
		if strings.HasPrefix(r.ID, toComplete) {
			out = append(out, r.ID+"\t"+r.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeConfigKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		if args[0] == config.KeyAutoInstall && cmd.Name() == "set" {
			return filterPrefix([]string{config.InstallYes, config.InstallNo, config.InstallAsk}, toComplete), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveDefault
	}
	return filterPrefix(config.Keys, toComplete), cobra.ShellCompDirectiveNoFileComp
}
