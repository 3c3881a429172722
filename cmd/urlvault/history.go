package main

import (
	"fmt"

	"github.com/fwojciec/urlvault"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := urlvault.ImportFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	imports, err := deps.Imports.FindImports(deps.Ctx, filter)
	if err != nil {
		return fail(deps.Stderr, err)
	}

	if len(imports) == 0 {
		fmt.Fprintln(deps.Stdout, "No imports found. Use 'urlvault import <url>' to create one.")
		return nil
	}

	for _, imp := range imports {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", imp.CreatedAt.Format("2006-01-02 15:04"), imp.Path, imp.URL)
	}

	return nil
}
