package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var idsCmd = &cobra.Command{
	Use:   "ids",
	Short: "Print every post id as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := openBlog(cmd.Context(), loadConfig())
		if err != nil {
			return err
		}
		defer b.Close()

		ids, err := b.service.GetAllPostIDs(cmd.Context())
		if err != nil {
			return err
		}
		return writeJSON(cmd, ids)
	},
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print one post as JSON; unknown ids print the not-found record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBlog(cmd.Context(), loadConfig())
		if err != nil {
			return err
		}
		defer b.Close()

		post, err := b.service.GetPostData(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd, post)
	},
}

func writeJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
