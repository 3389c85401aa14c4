package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/wesm/smsbackup/internal/backup"
)

func newBackupsCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List iPhone backups that contain an SMS database",
		Long: `List every SMS database found under the backup root, with the device
it came from. The most recent one is used when --input is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := c.cfg.Backup.Root
			if root == "" {
				var err error
				if root, err = backup.DefaultRoot(); err != nil {
					return err
				}
			}

			cands, err := backup.Find(root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return outputBackupsJSON(out, cands)
			}
			if len(cands) == 0 {
				fmt.Fprintf(out, "No backups with an SMS database found under %s\n", root)
				return nil
			}
			newest, _ := backup.MostRecent(cands)
			outputBackupsTable(out, cands, newest.Path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func outputBackupsTable(out io.Writer, cands []backup.Candidate, newest string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEVICE\tIOS\tMODIFIED\tPATH")
	fmt.Fprintln(w, "──────\t───\t────────\t────")

	for _, cand := range cands {
		device, version := "-", "-"
		if cand.Device != nil {
			if cand.Device.Name != "" {
				device = cand.Device.Name
			}
			if cand.Device.ProductVersion != "" {
				version = cand.Device.ProductVersion
			}
		}
		path := cand.Path
		if path == newest {
			path += " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", device, version, cand.ModTime.Format(time.DateTime), path)
	}

	w.Flush()
	fmt.Fprintf(out, "\n%d backup(s); * marks the one used by default\n", len(cands))
}

func outputBackupsJSON(out io.Writer, cands []backup.Candidate) error {
	if cands == nil {
		cands = []backup.Candidate{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(cands)
}
