package main

import (
	"errors"
	"os"

	"github.com/notablehq/notable/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "notable",
		Short: "Local-first notes engine with reminders, calendar, and kanban views",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	setupFlags(rootCmd)
	rootCmd.AddCommand(
		newNewCommand(),
		newListCommand(),
		newSearchCommand(),
		newShowCommand(),
		newEditCommand(),
		newRemoveCommand(),
		newTagCommand(),
		newRemindCommand(),
		newMoveCommand(),
		newAgendaCommand(),
		newCalendarCommand(),
		newBoardCommand(),
		newTemplatesCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("storage-backend", defaults.GetString("storage.backend"), "Storage backend (file, sqlite)")
	cmd.PersistentFlags().String("storage-path", defaults.GetString("storage.path"), "Notes storage path")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Int("soon-hours", defaults.GetInt("reminder.soon_hours"), "Hours ahead a reminder counts as due soon")

	bindFlag(cmd, "storage.backend", "storage-backend")
	bindFlag(cmd, "storage.path", "storage-path")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "reminder.soon_hours", "soon-hours")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}
