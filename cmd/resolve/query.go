package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"resolve/internal/driver"
	"resolve/internal/symbols"
)

var queryCmd = &cobra.Command{
	Use:   "query [dir] --name NAME",
	Short: "Look up a name from a module after analysis",
	Long: `query analyses the project, then runs one name search from the top scope
of --from (the global scope when omitted) and lists every match with its
classification. Strategy defaults come from the [search] table of resolve.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("from", "", "module the search starts in")
	queryCmd.Flags().String("name", "", "name to look up, optionally qualified as Q::name")
	queryCmd.Flags().String("qualifier", "", "qualifier (facility, alias or module)")
	queryCmd.Flags().String("imports", "recursive", "import strategy (none|named|recursive)")
	queryCmd.Flags().String("facilities", "instantiate", "facility strategy (ignore|generic|instantiate)")
	queryCmd.Flags().Bool("local-priority", false, "stop before imports when the local chain matches")
	_ = queryCmd.MarkFlagRequired("name")
}

func runQuery(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	from, _ := flags.GetString("from")
	name, _ := flags.GetString("name")
	qualifier, _ := flags.GetString("qualifier")
	importsFlag, _ := flags.GetString("imports")
	facilitiesFlag, _ := flags.GetString("facilities")
	localPriority, _ := flags.GetBool("local-priority")

	res, err := analyse(cmd, args)
	if err != nil {
		return err
	}
	search := res.Manifest.Search
	if !flags.Changed("imports") && search.Imports != "" {
		importsFlag = search.Imports
	}
	if !flags.Changed("facilities") && search.Facilities != "" {
		facilitiesFlag = search.Facilities
	}
	if !flags.Changed("local-priority") {
		localPriority = localPriority || search.LocalPriority
	}
	imports, err := symbols.ParseImportStrategy(importsFlag)
	if err != nil {
		return err
	}
	facilities, err := symbols.ParseFacilityStrategy(facilitiesFlag)
	if err != nil {
		return err
	}

	matches, err := res.Query(driver.QueryRequest{
		From:          from,
		Name:          name,
		Qualifier:     qualifier,
		Imports:       imports,
		Facilities:    facilities,
		LocalPriority: localPriority,
	})
	if err != nil {
		return err
	}
	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	renderMatches(cmd.OutOrStdout(), matches, color)
	if len(matches) == 0 {
		return fmt.Errorf("no symbol %q", name)
	}
	return nil
}

type matchStyles struct {
	header, module, name, kind, cls, flags lipgloss.Style
}

func newMatchStyles(color bool) matchStyles {
	s := matchStyles{
		header: lipgloss.NewStyle().Bold(true),
		module: lipgloss.NewStyle(),
		name:   lipgloss.NewStyle(),
		kind:   lipgloss.NewStyle(),
		cls:    lipgloss.NewStyle(),
		flags:  lipgloss.NewStyle(),
	}
	if color {
		s.header = s.header.Foreground(lipgloss.Color("7"))
		s.module = s.module.Foreground(lipgloss.Color("6"))
		s.name = s.name.Bold(true)
		s.kind = s.kind.Foreground(lipgloss.Color("3"))
		s.cls = s.cls.Foreground(lipgloss.Color("2"))
		s.flags = s.flags.Faint(true)
	}
	return s
}

// renderMatches prints one aligned row per match.
func renderMatches(w io.Writer, matches []driver.Match, color bool) {
	styles := newMatchStyles(color)
	headers := []string{"MODULE", "NAME", "KIND", "CLASSIFICATION", "FLAGS"}
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		cls := m.Cls
		if m.TypeValue != "" {
			cls += " ≜ " + m.TypeValue
		}
		if m.Type != "" {
			cls += " (" + m.Type + ")"
		}
		rows = append(rows, []string{m.Module, m.Name, m.Kind, cls, strings.Join(m.Flags, ",")})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	cellStyles := []lipgloss.Style{styles.module, styles.name, styles.kind, styles.cls, styles.flags}
	line := func(cells []string, style func(int) lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = style(i).Width(widths[i]).Render(cell)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}
	fmt.Fprintln(w, line(headers, func(int) lipgloss.Style { return styles.header }))
	for _, row := range rows {
		fmt.Fprintln(w, line(row, func(i int) lipgloss.Style { return cellStyles[i] }))
	}
}
