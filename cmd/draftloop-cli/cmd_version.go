package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/draftloop/draftloop/client"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Inspect and manage version chains",
	}
	cmd.AddCommand(versionListCmd())
	cmd.AddCommand(versionGetCmd())
	cmd.AddCommand(versionRollbackCmd())
	cmd.AddCommand(versionCompareCmd())
	cmd.AddCommand(versionDeleteCmd())
	cmd.AddCommand(versionPurgeCmd())
	cmd.AddCommand(versionStatsCmd())
	cmd.AddCommand(versionTimelineCmd())
	return cmd
}

func parseVersionArg(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		fatal("parse version id", fmt.Errorf("%q is not a positive integer", s))
	}
	return v
}

func versionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <derivative-id>",
		Short: "List all versions of a derivative, newest first",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			versions, err := apiClient.Versions.List(context.Background(), args[0])
			if err != nil {
				fatal("list versions", err)
			}
			if flagFmt == "table" {
				rows := make([][]string, 0, len(versions))
				for _, v := range versions {
					current := ""
					if v.IsCurrent {
						current = "*"
					}
					rows = append(rows, []string{
						strconv.FormatInt(v.ID, 10),
						strconv.Itoa(v.VersionNumber),
						v.ChangeType,
						current,
						strOrEmpty(v.ChangeSummary),
					})
				}
				formatTable([]string{"ID", "VERSION", "TYPE", "CURRENT", "SUMMARY"}, rows)
				return
			}
			output(map[string]any{"versions": versions}, strconv.Itoa(len(versions)))
		},
	}
}

func versionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <version-id>",
		Short: "Get a single version",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			v, err := apiClient.Versions.Get(context.Background(), parseVersionArg(args[0]))
			if err != nil {
				fatal("get version", err)
			}
			output(v, strconv.FormatInt(v.ID, 10))
		},
	}
}

func versionRollbackCmd() *cobra.Command {
	var changedBy string
	cmd := &cobra.Command{
		Use:   "rollback <derivative-id> <target-version-id>",
		Short: "Restore an earlier version's content as a new current version",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.RollbackRequest{
				DerivativeID:    args[0],
				TargetVersionID: parseVersionArg(args[1]),
			}
			if changedBy != "" {
				req.ChangedBy = &changedBy
			}
			v, err := apiClient.Versions.Rollback(context.Background(), req)
			if err != nil {
				fatal("rollback", err)
			}
			output(v, strconv.FormatInt(v.ID, 10))
		},
	}
	cmd.Flags().StringVar(&changedBy, "by", "", "Author recorded on the rollback version")
	return cmd
}

func versionCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <version1-id> <version2-id>",
		Short: "Show the word-level delta between two versions",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			cmp, err := apiClient.Versions.Compare(context.Background(),
				parseVersionArg(args[0]), parseVersionArg(args[1]))
			if err != nil {
				fatal("compare versions", err)
			}
			output(cmp, strconv.FormatBool(cmp.Modified))
		},
	}
}

func versionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <version-id>",
		Short: "Delete a non-current version",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Versions.Delete(context.Background(), parseVersionArg(args[0])); err != nil {
				fatal("delete version", err)
			}
			fmt.Println("deleted")
		},
	}
}

func versionPurgeCmd() *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "purge <derivative-id>",
		Short: "Trim a derivative's history to the most recent versions",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			deleted, err := apiClient.Versions.Purge(context.Background(), args[0], keep)
			if err != nil {
				fatal("purge versions", err)
			}
			output(map[string]int{"deleted_count": deleted}, strconv.Itoa(deleted))
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 10, "Number of versions to keep")
	return cmd
}

func versionStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <derivative-id>",
		Short: "Show aggregate version counts",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			stats, err := apiClient.Versions.Stats(context.Background(), args[0])
			if err != nil {
				fatal("version stats", err)
			}
			output(stats, strconv.Itoa(stats.TotalVersions))
		},
	}
}

func versionTimelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeline <derivative-id>",
		Short: "Show the version timeline, oldest first",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			timeline, err := apiClient.Versions.Timeline(context.Background(), args[0])
			if err != nil {
				fatal("version timeline", err)
			}
			if flagFmt == "table" {
				rows := make([][]string, 0, len(timeline))
				for _, e := range timeline {
					current := ""
					if e.IsCurrent {
						current = "*"
					}
					rows = append(rows, []string{
						strconv.Itoa(e.VersionNumber),
						e.ChangeType,
						current,
						e.CreatedAt.Format("2006-01-02 15:04"),
						strOrEmpty(e.ChangeSummary),
					})
				}
				formatTable([]string{"VERSION", "TYPE", "CURRENT", "CREATED", "SUMMARY"}, rows)
				return
			}
			output(map[string]any{"timeline": timeline}, strconv.Itoa(len(timeline)))
		},
	}
}
