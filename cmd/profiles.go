package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errSchemaMismatch = errors.New("schema does not match profile")

// profilesCmd lists the import profiles.
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the import profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		reg, err := rt.registry()
		if err != nil {
			return err
		}

		for _, p := range reg.List() {
			strategy := p.Strategy
			if strategy == "" {
				strategy = "one_by_one"
			}
			rt.logger.Info("Profile",
				zap.String("name", p.Name),
				zap.String("table", p.Table),
				zap.String("key", strings.Join(p.Key, ",")),
				zap.Strings("attributes", p.Attributes()),
				zap.String("strategy", strategy),
			)
		}
		return nil
	},
}

// checkCmd compares a profile with the live table schema.
var checkCmd = &cobra.Command{
	Use:   "check <profile>",
	Short: "Verify the profile's table has every mapped column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		if err := rt.connectDatabase(); err != nil {
			return err
		}
		svc, err := rt.importService()
		if err != nil {
			return err
		}

		report, err := svc.Check(args[0])
		if err != nil {
			return err
		}

		l := rt.logger.With(zap.String("profile", report.Profile), zap.String("table", report.Table))
		if report.Matched {
			l.Info("Schema matches")
			return nil
		}
		l.Warn("Schema mismatch",
			zap.Strings("missing_columns", report.MissingColumns),
			zap.Strings("type_mismatches", report.TypeMismatches),
			zap.Strings("errors", report.Errors),
		)
		return errSchemaMismatch
	},
}

func init() {
	RootCmd.AddCommand(profilesCmd)
	RootCmd.AddCommand(checkCmd)
}
