// Package main provides the menuparse command line tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cognicore/menuparse/pkg/menuparse"
	"github.com/cognicore/menuparse/pkg/menuparse/config"
	"github.com/cognicore/menuparse/pkg/menuparse/store"
	"github.com/cognicore/menuparse/pkg/menuparse/store/memstore"
	"github.com/cognicore/menuparse/pkg/menuparse/store/postgres"
	"github.com/cognicore/menuparse/pkg/menuparse/store/sqlite"
)

var rootCmd = &cobra.Command{
	Use:           "menuparse",
	Short:         "Structure raw restaurant menu text",
	Long:          "menuparse turns scraped HTML and OCR text into categorized menu items with prices, scores the result and keeps it in a local or hosted database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagDBPath      string
	flagDatabaseURL string
	flagLexicon     string
	flagWorkers     int
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDBPath, "db", "", "SQLite database path (env "+config.EnvDBPath+")")
	pf.StringVar(&flagDatabaseURL, "database-url", "", "Postgres URL, wins over --db (env "+config.EnvDatabaseURL+")")
	pf.StringVar(&flagLexicon, "lexicon", "", "YAML lexicon extending the built-in vocabulary (env "+config.EnvLexicon+")")
	pf.IntVar(&flagWorkers, "workers", 0, "Concurrent workers for batch commands, 0 = one per CPU (env "+config.EnvWorkers+")")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings reads the environment and applies any flags the user set.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	s, err := config.NewFromEnv()
	if err != nil {
		return s, err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		s.DBPath = flagDBPath
	}
	if flags.Changed("database-url") {
		s.DatabaseURL = flagDatabaseURL
	}
	if flags.Changed("lexicon") {
		s.LexiconPath = flagLexicon
	}
	if flags.Changed("workers") {
		s.Workers = flagWorkers
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func loadComponents(s config.Settings) (*config.Components, error) {
	loader := config.Loader{LexiconPath: s.LexiconPath}
	comp, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return comp, nil
}

func openStore(ctx context.Context, s config.Settings) (store.Store, error) {
	if s.UsePostgres() {
		st, err := postgres.Connect(ctx, s.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return st, nil
	}
	st, err := sqlite.OpenSQLite(ctx, s.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}

// openEngine wires settings, vocabulary and store into an engine. Without
// persist the engine runs over an in-memory store. The caller closes it.
func openEngine(cmd *cobra.Command, persist bool) (*menuparse.Engine, config.Settings, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, s, err
	}
	comp, err := loadComponents(s)
	if err != nil {
		return nil, s, err
	}
	var st store.Store = memstore.New()
	if persist {
		if st, err = openStore(cmd.Context(), s); err != nil {
			return nil, s, err
		}
	}
	engine, err := menuparse.New(menuparse.Options{
		Store:      st,
		Components: comp,
		Workers:    s.Workers,
	})
	if err != nil {
		_ = st.Close()
		return nil, s, err
	}
	if persist && s.UsePostgres() {
		log.Printf("Using postgres database")
	} else if persist {
		log.Printf("Using sqlite database %s", s.DBPath)
	}
	return engine, s, nil
}
