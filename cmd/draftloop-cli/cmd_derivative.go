package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/draftloop/draftloop/client"
)

func newDerivativeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "derivative",
		Aliases: []string{"deriv"},
		Short:   "Manage content derivatives",
	}
	cmd.AddCommand(derivativeCreateCmd())
	cmd.AddCommand(derivativeGetCmd())
	cmd.AddCommand(derivativeUpdateCmd())
	cmd.AddCommand(derivativeDeleteCmd())
	cmd.AddCommand(derivativeListCmd())
	cmd.AddCommand(derivativeRegenerateCmd())
	return cmd
}

// readContent returns content from the --content flag, or from the file named
// by --file, whichever is set.
func readContent(content, file string) (string, error) {
	if file == "" {
		return content, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func derivativeCreateCmd() *cobra.Command {
	var platform, content, file, changedBy string
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a derivative with its initial version",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			body, err := readContent(content, file)
			if err != nil {
				fatal("read content", err)
			}
			req := &client.CreateDerivativeRequest{
				Platform: platform,
				Title:    args[0],
				Content:  body,
			}
			if changedBy != "" {
				req.ChangedBy = &changedBy
			}
			d, err := apiClient.Derivatives.Create(context.Background(), req)
			if err != nil {
				fatal("create derivative", err)
			}
			output(d, d.ID)
		},
	}
	cmd.Flags().StringVar(&platform, "platform", "", "Target platform (required)")
	cmd.Flags().StringVar(&content, "content", "", "Initial content")
	cmd.Flags().StringVar(&file, "file", "", "Read initial content from file")
	cmd.Flags().StringVar(&changedBy, "by", "", "Author recorded on version 1")
	cmd.MarkFlagRequired("platform") //nolint:errcheck // flag exists.
	return cmd
}

func derivativeGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a derivative with its current version",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			d, err := apiClient.Derivatives.Get(context.Background(), args[0])
			if err != nil {
				fatal("get derivative", err)
			}
			output(d, d.ID)
		},
	}
}

func derivativeUpdateCmd() *cobra.Command {
	var title, status, content, file, summary, changedBy string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a derivative (content changes create a new version)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateDerivativeRequest{}
			if title != "" {
				req.Title = &title
			}
			if status != "" {
				req.Status = &status
			}
			if content != "" || file != "" {
				body, err := readContent(content, file)
				if err != nil {
					fatal("read content", err)
				}
				req.Content = &body
			}
			if summary != "" {
				req.ChangeSummary = &summary
			}
			if changedBy != "" {
				req.ChangedBy = &changedBy
			}
			d, err := apiClient.Derivatives.Update(context.Background(), args[0], req)
			if err != nil {
				fatal("update derivative", err)
			}
			output(d, d.ID)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&status, "status", "", "New status: draft|published|archived")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringVar(&file, "file", "", "Read new content from file")
	cmd.Flags().StringVar(&summary, "summary", "", "Change summary for the new version")
	cmd.Flags().StringVar(&changedBy, "by", "", "Author recorded on the new version")
	return cmd
}

func derivativeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a derivative and its entire version chain",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Derivatives.Delete(context.Background(), args[0]); err != nil {
				fatal("delete derivative", err)
			}
			fmt.Println("deleted")
		},
	}
}

func derivativeListCmd() *cobra.Command {
	var platform, status string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List derivatives",
		Run: func(cmd *cobra.Command, args []string) {
			derivatives, hasMore, err := apiClient.Derivatives.List(context.Background(), &client.DerivativeListOptions{
				Platform: platform,
				Status:   status,
				Limit:    limit,
				Offset:   offset,
			})
			if err != nil {
				fatal("list derivatives", err)
			}
			if flagFmt == "table" {
				rows := make([][]string, 0, len(derivatives))
				for _, d := range derivatives {
					rows = append(rows, []string{d.ID, d.Platform, d.Status, d.Title})
				}
				formatTable([]string{"ID", "PLATFORM", "STATUS", "TITLE"}, rows)
				if hasMore {
					fmt.Println("(more results available)")
				}
				return
			}
			output(map[string]any{"derivatives": derivatives, "has_more": hasMore}, strconv.Itoa(len(derivatives)))
		},
	}
	cmd.Flags().StringVar(&platform, "platform", "", "Filter by platform")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&limit, "limit", 50, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	return cmd
}

func derivativeRegenerateCmd() *cobra.Command {
	var instructions, changedBy string
	cmd := &cobra.Command{
		Use:   "regenerate <id>",
		Short: "Ask the server to regenerate content as a new AI version",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.RegenerateRequest{Instructions: instructions}
			if changedBy != "" {
				req.ChangedBy = &changedBy
			}
			v, err := apiClient.Derivatives.Regenerate(context.Background(), args[0], req)
			if err != nil {
				fatal("regenerate derivative", err)
			}
			output(v, strconv.FormatInt(v.ID, 10))
		},
	}
	cmd.Flags().StringVar(&instructions, "instructions", "", "Extra instructions for the model")
	cmd.Flags().StringVar(&changedBy, "by", "", "Author recorded on the new version")
	return cmd
}
