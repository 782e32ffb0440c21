// cmd/tools/nicole-cli/commands.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gifting-workers/internal/common/logger"
	"gifting-workers/internal/gifting/contextparser"
	"gifting-workers/internal/gifting/conversation"
	"gifting-workers/internal/gifting/querygen"
	"gifting-workers/internal/gifting/search"
	"gifting-workers/internal/models"
	"gifting-workers/pkg/registry"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nicole-cli",
		Short:         "Offline tools for the gift assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newParseCmd(),
		newQueriesCmd(),
		newFollowUpCmd(),
		newSuggestCmd(),
		newActivitiesCmd(),
	)
	return root
}

type parseOutput struct {
	Context *models.ParsedContext  `json:"context"`
	Queries []models.CategoryQuery `json:"queries"`
}

func newParseCmd() *cobra.Command {
	var priorPath string

	cmd := &cobra.Command{
		Use:   "parse <message>",
		Short: "Parse a message into a gift context and queries",
		Example: `  nicole-cli parse "My husband loves golf, budget is $150"
  nicole-cli parse "maybe something for cooking" --prior context.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prior, err := readPrior(priorPath)
			if err != nil {
				return err
			}
			parsed := contextparser.New(logger.NewNoOpLogger()).Parse(strings.Join(args, " "), prior)
			return writeJSON(cmd.OutOrStdout(), parseOutput{
				Context: parsed,
				Queries: querygen.Generate(parsed),
			})
		},
	}

	cmd.Flags().StringVar(&priorPath, "prior", "", "JSON file holding the previous turn's context")
	return cmd
}

func newQueriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queries <message>",
		Short: "Print only the category queries for a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := contextparser.New(logger.NewNoOpLogger()).Parse(strings.Join(args, " "), nil)
			return writeJSON(cmd.OutOrStdout(), querygen.Generate(parsed))
		},
	}
}

type followUpOutput struct {
	Detected bool                    `json:"detected"`
	FollowUp *models.FollowUpRequest `json:"followUp,omitempty"`
}

func newFollowUpCmd() *cobra.Command {
	var categories []string

	cmd := &cobra.Command{
		Use:     "followup <message>",
		Short:   "Resolve a follow-up against shown categories",
		Example: `  nicole-cli followup "show me more kitchen stuff" --categories kitchen,travel`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(categories) == 0 {
				return fmt.Errorf("--categories is required")
			}
			fu := conversation.ParseFollowUp(strings.Join(args, " "), shownResults(categories))
			return writeJSON(cmd.OutOrStdout(), followUpOutput{Detected: fu != nil, FollowUp: fu})
		},
	}

	cmd.Flags().StringSliceVarP(&categories, "categories", "c", nil, "Categories previously shown, comma separated")
	return cmd
}

func newSuggestCmd() *cobra.Command {
	var (
		interests []string
		recipient string
		occasion  string
	)

	cmd := &cobra.Command{
		Use:     "suggest <category>",
		Short:   "Suggest categories adjacent to one category",
		Example: `  nicole-cli suggest kitchen --interests wine --recipient spouse --occasion birthday`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ctx *models.ParsedContext
			if len(interests) > 0 || recipient != "" || occasion != "" {
				ctx = &models.ParsedContext{Interests: interests, Recipient: recipient, Occasion: occasion}
			}
			return writeJSON(cmd.OutOrStdout(), conversation.Suggest(strings.ToLower(args[0]), ctx))
		},
	}

	cmd.Flags().StringSliceVar(&interests, "interests", nil, "Interests, comma separated")
	cmd.Flags().StringVar(&recipient, "recipient", "", "Recipient")
	cmd.Flags().StringVar(&occasion, "occasion", "", "Occasion")
	return cmd
}

func newActivitiesCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List or validate the worker activity registry",
		Long: `Lists the task types published in the activity registry. With --file the
given registry is loaded instead, and every activity must declare a unique task
type, an object input schema and a parseable timeout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(path)
			if err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Activity registry %s (%d activities)\n\n", reg.Version, len(reg.Activities))
			for _, a := range reg.Activities {
				fmt.Fprintf(out, "  %-24s %-12s timeout=%s retries=%d\n", a.TaskType, a.ImplementationStatus, a.Timeout, a.Retries)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "Registry JSON file (defaults to the embedded registry)")
	return cmd
}

func loadRegistry(path string) (*registry.ActivityRegistry, error) {
	if path == "" {
		return registry.Default()
	}
	return registry.LoadRegistry(path)
}

func shownResults(categories []string) *models.GroupedSearchResults {
	prev := &models.GroupedSearchResults{}
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		prev.Categories = append(prev.Categories, models.CategoryResults{
			CategoryName: c,
			DisplayName:  search.DisplayName(models.CategoryQuery{Category: c}, nil),
		})
	}
	return prev
}

func readPrior(path string) (*models.ParsedContext, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prior context: %w", err)
	}
	var prior models.ParsedContext
	if err := json.Unmarshal(data, &prior); err != nil {
		return nil, fmt.Errorf("decode prior context: %w", err)
	}
	return &prior, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
