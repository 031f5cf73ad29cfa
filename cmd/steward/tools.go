package main

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codemarcinu/steward/cmd/steward/internal"
	"github.com/codemarcinu/steward/internal/tool"
	"github.com/codemarcinu/steward/internal/tool/builtin"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the model can call",
	Long: `List every tool enabled in the configuration, with its description
and arguments. Required arguments are marked with *.

Restrict the set with the tools.enabled list in the config file;
answer_directly is always available.`,
	RunE: runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(globalFlags)
	if err != nil {
		return err
	}

	// Definitions are static on the handlers, so listing them needs no
	// database or model client.
	defs := make([]tool.Definition, 0)
	for _, h := range builtin.Handlers(builtin.Deps{}) {
		defs = append(defs, h.Definition())
	}
	defs = tool.FilterEnabled(defs, cfg.Tools.Enabled)

	registry, err := tool.NewRegistry(defs)
	if err != nil {
		return err
	}

	formatter := globalFlags.formatter()
	if globalFlags.GetOutputFormat() == internal.FormatJSON {
		return formatter.PrintJSON(registry.Catalog())
	}

	rows := make([][]string, 0, registry.Len())
	for _, def := range registry.Catalog() {
		rows = append(rows, []string{def.Name, def.Description, formatArguments(def)})
	}
	return formatter.PrintTable([]string{"Name", "Description", "Arguments"}, rows)
}

// formatArguments renders a definition's parameters as a compact list,
// marking required ones with * and showing enum choices inline.
func formatArguments(def tool.Definition) string {
	params := def.Parameters

	names := make([]string, 0, len(params.Properties))
	for name := range params.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	// Required arguments first, in schema order.
	ordered := make([]string, 0, len(names))
	ordered = append(ordered, params.Required...)
	for _, name := range names {
		if !params.IsRequired(name) {
			ordered = append(ordered, name)
		}
	}

	parts := make([]string, 0, len(ordered))
	for _, name := range ordered {
		field := params.Properties[name]
		part := name
		if params.IsRequired(name) {
			part += "*"
		}
		if len(field.Enum) > 0 {
			part += "(" + strings.Join(field.Enum, "|") + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
