// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/polctl/polctl/internal/attrs"
	"github.com/polctl/polctl/internal/config"
	"github.com/polctl/polctl/internal/resource"
)

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	// We note that the int and bool cases are unlikely to be reached due to
	// JSON parsing behavior.
	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		// Our current use cases have no need for an actual float, so we just
		// return an integer.
		return fmt.Sprintf("%.0f", value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// BuildDataset flattens resources into report rows per the attr list. Rows
// keep every attr (included or not) so filtering and sorting can reference
// attrs that are excluded from the rendered output.
func BuildDataset(resources []resource.Resource, al attrs.AttrList) []map[string]interface{} {
	dataset := make([]map[string]interface{}, 0, len(resources))
	for _, res := range resources {
		row := make(map[string]interface{}, len(al))
		for i := range al {
			attr := al[i]
			row[attr.OutputKey] = res.Field(attr.Key)
		}
		dataset = append(dataset, row)
	}
	return dataset
}

// Spit transforms, sorts and renders a dataset according to command flags
// and attribute specifications.
func Spit(dataset []map[string]interface{},
	al attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	// Default to stdout.
	if w == nil {
		w = os.Stdout
	}

	// If raw, dump the rows before any shaping and go home.
	if cmd.String("output") == "raw" {
		jsonOutput, err := json.Marshal(dataset)
		if err != nil {
			log.Errorf("Spit raw marshal: %v", err)
		}
		w.Write(jsonOutput) //nolint:errcheck
		return
	}

	// Force a time transformation for all attributes when --local is set. Many
	// will not be timestamps; Transform leaves those alone.
	if cmd.Bool("local") {
		for a := range al {
			al[a].TransformSpec += "t"
		}
	}

	// Transform each value in each row.
	for _, row := range dataset {
		for _, attr := range al {
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	SortDataset(dataset, cmd.String("sort"))

	switch cmd.String("output") {
	case "json":
		jsonOutput, err := json.Marshal(dataset)
		if err != nil {
			log.Errorf("Spit json marshal: %v", err)
		}
		w.Write(jsonOutput) //nolint:errcheck
	case "yaml":
		yamlOutput, err := yaml.Marshal(dataset)
		if err != nil {
			log.Errorf("Spit yaml marshal: %v", err)
		}
		w.Write(yamlOutput) //nolint:errcheck
	default:
		TableWriter(dataset, al, cmd, w)
	}
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options. Output is written to w. If w is nil, os.Stdout
// is used.
func TableWriter(
	resultSet []map[string]interface{},
	al attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	// We return early if there are no results to display.
	if len(resultSet) == 0 {
		return
	}

	// We initialize the table styles.
	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	// And then color styles if --color is present.
	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors()

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	// We build the table rows from the result set.
	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(result))
		for _, attr := range al {
			if !attr.Include {
				continue
			}
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	// We render the header if present.
	if cmd.Metadata["header"] != nil {
		fmt.Fprintln(w, headerStyle.Render(cmd.Metadata["header"].(string)))
	}

	// We configure the table with padding and styles.
	pad := cmd.Int("padding")
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	// We add column headers if titles are enabled.
	if cmd.Bool("titles") {
		var headers []string
		for _, attr := range al {
			if attr.Include {
				headers = append(headers, attr.OutputKey)
			}
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	// We render the footer if present.
	if cmd.Metadata["footer"] != nil {
		fmt.Fprintln(w, headerStyle.Render(cmd.Metadata["footer"].(string)))
	}
}

// getColors resolves the header/even/odd row colors from config, with
// serviceable defaults.
func getColors() (header, even, odd color.Color) {
	h, _ := config.GetString("colors.header", "#00afff")
	e, _ := config.GetString("colors.even", "#ffffff")
	o, _ := config.GetString("colors.odd", "#808080")
	return lipgloss.Color(h), lipgloss.Color(e), lipgloss.Color(o)
}
