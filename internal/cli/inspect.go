package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/network"
	"github.com/matzehuels/drainplan/pkg/pipeline"
	"github.com/matzehuels/drainplan/pkg/render/topology"
)

type inspectOpts struct {
	build    buildFlags
	dot      bool
	detailed bool
	symbols  bool
}

// inspectCommand prints the built network node by node, for checking an
// input's levels before drawing it.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect file.ge",
		Short: "Print the nodes, levels and warnings of a network",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.symbols {
				fmt.Println(symbolTable())
				return nil
			}
			if len(args) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "no input file given")
			}
			in, err := pipeline.ReadInput(args[0])
			if err != nil {
				return err
			}
			popts := pipeline.FromConfig(c.cfg)
			opts.build.apply(cmd, &popts)
			popts.Network.Logger = loggerFromContext(cmd.Context())

			runner := pipeline.NewRunner(nil, nil, popts.Network.Logger)
			net, err := runner.Build(cmd.Context(), in, popts)
			if err != nil {
				return err
			}

			if opts.dot {
				fmt.Print(topology.ToDOT(net, topology.Options{Detailed: opts.detailed}))
				return nil
			}

			printKeyValue("File", in.Name())
			printKeyValue("Scale", "1/"+strconv.FormatFloat(net.Scale, 'f', -1, 64))
			printKeyValue("Nodes", strconv.Itoa(net.Len()))
			fmt.Println(nodeTable(net))
			printWarnings(net.Warnings)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.dot, "dot", false, "print the topology as Graphviz DOT")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show pipe and slope on DOT edges")
	cmd.Flags().BoolVar(&opts.symbols, "symbols", false, "list the branch symbols an input may use")
	opts.build.register(cmd)
	cmd.ValidArgsFunction = completeInputs

	return cmd
}

// nodeTable renders one row per node in traversal order.
func nodeTable(net *network.Network) string {
	var rows [][]string
	net.Walk(0, func(nd *network.Node) {
		parent := "-"
		if nd.Parent != network.NoNode {
			parent = strconv.Itoa(int(nd.Parent))
		}
		rows = append(rows, []string{
			strconv.Itoa(int(nd.ID)),
			parent,
			nd.Seq,
			nd.Symbol,
			net.Name(nd.ID),
			net.EntryPipe(nd.ID).String(),
			fmt.Sprintf("%.2f", nd.Length),
			fmt.Sprintf("%.4g", nd.Slope),
			fmt.Sprintf("%.3f", nd.Elevation),
			fmt.Sprintf("%.3f", net.Depth(nd.ID)),
		})
	})

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Up", "No.", "Sym", "Name", "Pipe", "Length", "Slope", "Elev", "Depth").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col >= 6 {
				return lipgloss.NewStyle().Align(lipgloss.Right)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// symbolTable lists the branch vocabulary with the kind each symbol builds.
func symbolTable() string {
	var rows [][]string
	for _, sym := range network.Symbols() {
		kind, _ := network.SymbolKind(sym)
		rows = append(rows, []string{sym, kind.String()})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Symbol", "Kind").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
