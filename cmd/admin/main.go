package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"childguard/backend/internal/config"
	"childguard/backend/internal/logging"
	"childguard/backend/internal/models"
	"childguard/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	store  storage.Storage
	logger *zap.Logger

	listLimit  int
	listOffset int
)

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "ChildGuard operator tools",
	Long: `Operator commands that work directly against the ChildGuard database.
Connection settings are read from the environment (and .env when present).`,
	SilenceUsage:      true,
	PersistentPreRunE: connect,
}

var promoteCmd = &cobra.Command{
	Use:   "promote <userID>",
	Short: "Grant the admin role to a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromote,
}

var demoteCmd = &cobra.Command{
	Use:   "demote <userID>",
	Short: "Revoke the admin role from a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runDemote,
}

var listReportsCmd = &cobra.Command{
	Use:   "list-reports",
	Short: "List submitted reports, newest first",
	Args:  cobra.NoArgs,
	RunE:  runListReports,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show report counts per nature of abuse",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var seedArticlesCmd = &cobra.Command{
	Use:   "seed-articles <file.yaml>",
	Short: "Load awareness articles from a YAML file",
	Long: `Load awareness articles from a YAML file of the form:

  articles:
    - title: Know the signs
      description: ...
      category: Awareness
      thumbnail: https://...
      tags: [neglect, signs]`,
	Args: cobra.ExactArgs(1),
	RunE: runSeedArticles,
}

func init() {
	listReportsCmd.Flags().IntVar(&listLimit, "limit", config.DefaultReportPage, "maximum reports to print")
	listReportsCmd.Flags().IntVar(&listOffset, "offset", 0, "reports to skip")

	rootCmd.AddCommand(promoteCmd, demoteCmd, listReportsCmd, statsCmd, seedArticlesCmd)
}

func connect(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err = logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := storage.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	store = storage.NewStorageService(db, nil, logger)
	return nil
}

func runPromote(cmd *cobra.Command, args []string) error {
	return setRole(cmd, args[0], models.RoleAdmin)
}

func runDemote(cmd *cobra.Command, args []string) error {
	return setRole(cmd, args[0], models.RoleUser)
}

func setRole(cmd *cobra.Command, userID, role string) error {
	user, err := store.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("user %s: %w", userID, err)
	}
	if err := store.UpdateUserRole(user.ID, role); err != nil {
		return fmt.Errorf("updating role: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "User %s (%s) is now %s.\n", user.ID, user.Email, role)
	return nil
}

func runListReports(cmd *cobra.Command, args []string) error {
	reports, err := store.ListReports(listLimit, listOffset)
	if err != nil {
		return fmt.Errorf("listing reports: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tNATURE\tLOCATION\tEVIDENCE")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.NatureOfAbuse, r.Location, len(r.Evidence))
	}
	return w.Flush()
}

func runStats(cmd *cobra.Command, args []string) error {
	counts, err := store.CountReportsByCategory()
	if err != nil {
		return fmt.Errorf("counting reports: %w", err)
	}

	categories := make([]string, 0, len(counts))
	var total int64
	for category, n := range counts {
		categories = append(categories, category)
		total += n
	}
	sort.Strings(categories)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Reports: %d\n", total)
	for _, category := range categories {
		fmt.Fprintf(out, "  %s: %d\n", category, counts[category])
	}
	return nil
}

type articleFile struct {
	Articles []struct {
		Title       string   `yaml:"title"`
		Description string   `yaml:"description"`
		Category    string   `yaml:"category"`
		Thumbnail   string   `yaml:"thumbnail"`
		Tags        []string `yaml:"tags"`
		UserID      string   `yaml:"userId"`
	} `yaml:"articles"`
}

func runSeedArticles(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var file articleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	for _, a := range file.Articles {
		article := &models.Article{
			Title:       a.Title,
			Description: a.Description,
			Category:    a.Category,
			Thumbnail:   a.Thumbnail,
			Tags:        a.Tags,
			UserID:      a.UserID,
		}
		if err := store.SaveArticle(article); err != nil {
			return fmt.Errorf("saving %q: %w", a.Title, err)
		}
		logger.Info("article seeded", zap.String("id", article.ID), zap.String("title", article.Title))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d articles.\n", len(file.Articles))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
