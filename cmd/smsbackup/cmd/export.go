package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/wesm/smsbackup/internal/address"
	"github.com/wesm/smsbackup/internal/alias"
	"github.com/wesm/smsbackup/internal/backup"
	"github.com/wesm/smsbackup/internal/fileutil"
	"github.com/wesm/smsbackup/internal/render"
	"github.com/wesm/smsbackup/internal/smsdb"
)

// exportFlags are the root command's own flags. Each one overrides the
// matching config file value when given.
type exportFlags struct {
	aliases    []string
	dateFormat string
	format     string
	identity   string
	output     string
	emails     []string
	phones     []string
	noHeader   bool
	input      string
	localTime  bool
}

func (f *exportFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringArrayVarP(&f.aliases, "alias", "a", nil,
		"map an address (phone number or email) to a name, as ADDRESS=NAME; repeatable")
	fl.StringVarP(&f.dateFormat, "date-format", "d", smsdb.DefaultDateFormat, "strftime date format")
	fl.StringVarP(&f.format, "format", "f", "human", "output format: "+formatNames)
	fl.StringVarP(&f.identity, "myname", "m", smsdb.DefaultIdentity, "name of the iPhone owner in output")
	fl.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fl.StringArrayVarP(&f.emails, "email", "e", nil, "limit output to iMessages with this email address; repeatable")
	fl.StringArrayVarP(&f.phones, "phone", "p", nil, "limit output to messages with this phone number; repeatable")
	fl.BoolVar(&f.noHeader, "no-header", false, "don't print a header row for human or csv output")
	fl.StringVarP(&f.input, "input", "i", "", "SMS database file (default: most recent backup)")
	fl.BoolVar(&f.localTime, "local-time", false, "show dates in the local time zone instead of UTC")
}

// exportPlan is everything resolved from config and flags before any file
// is touched.
type exportPlan struct {
	opts   smsdb.Options
	format render.Format
	header bool
	output string
	input  string
}

// plan merges the config file with the flags that were set. Invalid values
// are reported as *address.ConfigError.
func (c *cli) plan(cmd *cobra.Command) (*exportPlan, error) {
	f := &c.export
	out := c.cfg.Output
	changed := cmd.Flags().Changed

	if changed("myname") {
		out.Identity = f.identity
	}
	if changed("date-format") {
		out.DateFormat = f.dateFormat
	}
	if changed("format") {
		out.Format = f.format
	}
	if changed("no-header") {
		out.Header = !f.noHeader
	}
	if changed("local-time") {
		out.LocalTime = f.localTime
	}
	if changed("output") {
		out.File = f.output
	}

	format, err := render.ParseFormat(out.Format)
	if err != nil {
		return nil, &address.ConfigError{Option: "--format", Value: out.Format, Reason: "want one of " + formatNames}
	}

	cfgAliases, err := c.cfg.AliasMap()
	if err != nil {
		return nil, err
	}
	flagAliases, err := alias.Parse(f.aliases)
	if err != nil {
		return nil, err
	}

	filter := smsdb.Filter{Numbers: c.cfg.Filter.Phones, Emails: c.cfg.Filter.Emails}
	if changed("phone") {
		filter.Numbers = f.phones
	}
	if changed("email") {
		filter.Emails = f.emails
	}

	loc := time.UTC
	if out.LocalTime {
		loc = time.Local
	}

	input := c.cfg.Backup.Input
	if changed("input") {
		input = f.input
	}

	p := &exportPlan{
		opts: smsdb.Options{
			Identity:   out.Identity,
			Aliases:    cfgAliases.Merge(flagAliases),
			Filter:     filter,
			DateFormat: out.DateFormat,
			Location:   loc,
			Logger:     c.logger,
		},
		format: format,
		header: out.Header,
		output: out.File,
		input:  input,
	}
	if err := p.opts.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *cli) runExport(cmd *cobra.Command) error {
	p, err := c.plan(cmd)
	if err != nil {
		return err
	}

	src := p.input
	if src == "" {
		root := c.cfg.Backup.Root
		if root == "" {
			if root, err = backup.DefaultRoot(); err != nil {
				return err
			}
		}
		cand, err := backup.Locate(root, c.logger)
		if err != nil {
			return err
		}
		src = cand.Path
	}
	c.logger.Debug("using SMS database", "path", src, "aliases", p.opts.Aliases.Len())

	dbCopy, cleanup, err := backup.CopyToTemp(src)
	if err != nil {
		return err
	}
	defer func() {
		cleanup()
		c.logger.Debug("deleted database copy", "path", dbCopy)
	}()

	msgs, summary, err := smsdb.ExtractFile(cmd.Context(), dbCopy, p.opts)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	c.logger.Info("extraction complete",
		"schema", summary.Generation.String(),
		"messages", summary.MessagesAdded,
		"skipped", summary.RowsSkipped,
		"duration", summary.Duration.Round(time.Millisecond),
	)

	return writeOutput(cmd.OutOrStdout(), p, msgs)
}

// writeOutput renders to the output file, or to stdout when none is set.
func writeOutput(stdout io.Writer, p *exportPlan, msgs []smsdb.Message) error {
	if p.output == "" {
		return render.Write(stdout, p.format, msgs, p.header)
	}

	f, err := fileutil.SecureOpenFile(p.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := render.Write(f, p.format, msgs, p.header); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", p.output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", p.output, err)
	}
	return nil
}
