package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ezlaw/ezlaw/internal/autocomplete"
	"github.com/ezlaw/ezlaw/internal/states"
)

var statesPick bool

var statesCmd = &cobra.Command{
	Use:   "states [query]",
	Short: "Look up US states by name or code",
	Long: `Lists the states matching the query, best match first. With --pick, shows
the matches in an interactive list and prints the code of the chosen state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		d := states.NewDropdown()
		d.Open()
		d.SetQuery(query)
		visible := d.Visible()
		if len(visible) == 0 {
			return fmt.Errorf("no state matches %q", query)
		}

		if !statesPick {
			for _, e := range visible {
				fmt.Printf("%s\t%s\n", e.Code, e.Name)
			}
			return nil
		}

		prompt := promptui.Select{
			Label: "Select a state",
			Items: visible,
			Size:  10,
			Templates: &promptui.SelectTemplates{
				Label:    "{{ . }}",
				Active:   "▸ {{ .Name | cyan }} ({{ .Code }})",
				Inactive: "  {{ .Name }} ({{ .Code }})",
				Selected: "{{ .Name | green }} ({{ .Code }})",
			},
			Searcher: func(input string, index int) bool {
				e := visible[index]
				in := strings.ToLower(input)
				return strings.Contains(strings.ToLower(e.Name), in) || strings.Contains(strings.ToLower(e.Code), in)
			},
		}
		idx, _, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("state selection: %w", err)
		}

		d.Select(autocomplete.Entry{Code: visible[idx].Code})
		selected, _ := d.Selected()
		fmt.Println(selected.Code)
		return nil
	},
}

func init() {
	statesCmd.Flags().BoolVar(&statesPick, "pick", false, "choose a state interactively")
	rootCmd.AddCommand(statesCmd)
}
